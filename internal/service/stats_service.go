package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/apperror"

	"github.com/rs/zerolog"
)

// thisWeekWindow is the trailing window for the weekly total. The lower
// bound is inclusive: a redemption exactly seven days old still counts.
const thisWeekWindow = 7 * 24 * time.Hour

// StatsServiceImpl implements ports.StatsService. It is pure with respect
// to the store: the same history and the same "now" always produce the
// same snapshot.
type StatsServiceImpl struct {
	students    ports.StudentRepository
	redemptions ports.RedemptionRepository
	cache       ports.StatsCache // nil = caching disabled
	cacheTTL    time.Duration
	loc         *time.Location
	log         zerolog.Logger
}

// NewStatsService creates a new StatsServiceImpl. loc is the timezone
// used to reduce block timestamps to calendar days; nil uses time.Local.
func NewStatsService(
	students ports.StudentRepository,
	redemptions ports.RedemptionRepository,
	cache ports.StatsCache,
	cacheTTL time.Duration,
	loc *time.Location,
	log zerolog.Logger,
) *StatsServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &StatsServiceImpl{
		students:    students,
		redemptions: redemptions,
		cache:       cache,
		cacheTTL:    cacheTTL,
		loc:         loc,
		log:         log,
	}
}

// ComputeStats derives the attendance snapshot for a wallet address.
func (s *StatsServiceImpl) ComputeStats(ctx context.Context, walletAddress string, now time.Time) (*domain.AttendanceStats, error) {
	if walletAddress == "" {
		return nil, apperror.ErrMissingWalletAddress()
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, walletAddress)
		if err != nil {
			s.log.Warn().Err(err).Str("wallet", walletAddress).Msg("stats cache read failed, recomputing")
		}
		if cached != nil {
			return cached, nil
		}
	}

	student, err := s.students.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get student: %w", err))
	}
	if student == nil {
		return nil, apperror.ErrStudentNotFound()
	}

	total, err := s.redemptions.SumMealCount(ctx, student.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("sum meal count: %w", err))
	}

	thisWeek, err := s.redemptions.SumMealCountSince(ctx, student.ID, now.Add(-thisWeekWindow))
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("sum weekly meal count: %w", err))
	}

	recent, _, err := s.redemptions.ListByStudent(ctx, student.ID, ports.ListParams{Limit: StreakLookback})
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list recent redemptions: %w", err))
	}

	timestamps := make([]time.Time, len(recent))
	for i, red := range recent {
		timestamps[i] = red.BlockTimestamp
	}

	stats := &domain.AttendanceStats{
		TotalMeals:    total,
		ThisWeek:      thisWeek,
		CurrentStreak: currentStreak(timestamps, now, s.loc),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, walletAddress, stats, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("wallet", walletAddress).Msg("failed to cache stats snapshot")
		}
	}

	return stats, nil
}
