package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
	"github.com/Godzilaa/Hostel-mess-attendance/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// recentHistoryLimit bounds the redemptions embedded in profile reads.
	recentHistoryLimit = 20

	defaultListLimit = 20
	maxListLimit     = 100
)

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	students    ports.StudentRepository
	redemptions ports.RedemptionRepository
	statsCache  ports.StatsCache // nil = caching disabled
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	students ports.StudentRepository,
	redemptions ports.RedemptionRepository,
	statsCache ports.StatsCache,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		students:    students,
		redemptions: redemptions,
		statsCache:  statsCache,
		log:         log,
	}
}

// GetOrCreateStudent returns the profile for the wallet address, creating
// a bare one on first contact. Profile access intentionally auto-creates
// while redemption recording does not; the two paths must stay distinct.
func (s *LedgerServiceImpl) GetOrCreateStudent(ctx context.Context, walletAddress string) (*ports.StudentWithHistory, error) {
	if walletAddress == "" {
		return nil, apperror.ErrMissingWalletAddress()
	}

	student, err := s.students.GetOrCreate(ctx, walletAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get or create student: %w", err))
	}

	return s.withHistory(ctx, student)
}

// GetStudent is the strict lookup: unknown wallet addresses fail instead
// of creating a blank profile. The embedded history is the full ledger,
// not the recent slice the auto-creating path returns.
func (s *LedgerServiceImpl) GetStudent(ctx context.Context, walletAddress string) (*ports.StudentWithHistory, error) {
	if walletAddress == "" {
		return nil, apperror.ErrMissingWalletAddress()
	}

	student, err := s.students.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get student: %w", err))
	}
	if student == nil {
		return nil, apperror.ErrStudentNotFound()
	}

	reds, err := s.redemptions.ListAllByStudent(ctx, student.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list redemptions: %w", err))
	}
	if reds == nil {
		reds = []domain.Redemption{}
	}
	return &ports.StudentWithHistory{Student: *student, Redemptions: reds}, nil
}

// UpdateProfile applies a partial update to an existing profile.
func (s *LedgerServiceImpl) UpdateProfile(ctx context.Context, walletAddress string, upd ports.ProfileUpdate) (*domain.Student, error) {
	if walletAddress == "" {
		return nil, apperror.ErrMissingWalletAddress()
	}

	upd = s.sanitizeProfile(walletAddress, upd)

	student, err := s.students.UpdateProfile(ctx, walletAddress, upd)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update profile: %w", err))
	}
	if student == nil {
		return nil, apperror.ErrStudentNotFound()
	}

	s.log.Info().Str("wallet", walletAddress).Msg("student profile updated")
	return student, nil
}

// UpsertProfile creates the profile if missing, then applies the update.
func (s *LedgerServiceImpl) UpsertProfile(ctx context.Context, walletAddress string, upd ports.ProfileUpdate) (*domain.Student, error) {
	if walletAddress == "" {
		return nil, apperror.ErrMissingWalletAddress()
	}

	student, err := s.students.GetOrCreate(ctx, walletAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get or create student: %w", err))
	}

	upd = s.sanitizeProfile(walletAddress, upd)
	if upd.IsEmpty() {
		return student, nil
	}

	updated, err := s.students.UpdateProfile(ctx, walletAddress, upd)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update profile: %w", err))
	}
	if updated == nil {
		// The row existed a moment ago; students are never deleted.
		return nil, apperror.InternalError(fmt.Errorf("student vanished during upsert: %s", walletAddress))
	}

	s.log.Info().Str("wallet", walletAddress).Msg("student profile upserted")
	return updated, nil
}

// RecordRedemption persists one redemption event exactly once. The
// student must already exist: a redemption for an unknown wallet fails
// rather than silently creating a blank profile.
func (s *LedgerServiceImpl) RecordRedemption(ctx context.Context, req ports.RecordRedemptionRequest) (*domain.Redemption, error) {
	if err := validateRecordRequest(req); err != nil {
		return nil, err
	}

	student, err := s.students.GetByWallet(ctx, req.WalletAddress)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get student: %w", err))
	}
	if student == nil {
		return nil, apperror.ErrStudentNotFound()
	}

	red := &domain.Redemption{
		ID:             uuid.New(),
		TxHash:         req.TxHash,
		StudentID:      student.ID,
		MealCount:      req.MealCount,
		MealType:       req.MealType,
		BlockNumber:    req.BlockNumber,
		BlockTimestamp: req.BlockTimestamp,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.redemptions.Create(ctx, red); err != nil {
		if err == domain.ErrDuplicateTxHash {
			s.log.Info().
				Str("tx_hash", req.TxHash).
				Str("wallet", req.WalletAddress).
				Msg("duplicate redemption submission ignored")
			return nil, apperror.ErrDuplicateRedemption()
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create redemption: %w", err))
	}

	// Stale snapshots are dropped best-effort; the TTL bounds staleness
	// if this fails.
	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx, req.WalletAddress); err != nil {
			s.log.Warn().Err(err).Str("wallet", req.WalletAddress).Msg("failed to invalidate stats cache")
		}
	}

	s.log.Info().
		Str("tx_hash", red.TxHash).
		Str("wallet", req.WalletAddress).
		Int("meal_count", red.MealCount).
		Str("meal_type", string(red.MealType)).
		Int64("block_number", red.BlockNumber).
		Msg("redemption recorded")

	return red, nil
}

// ListRedemptions pages through a student's history, newest first.
func (s *LedgerServiceImpl) ListRedemptions(ctx context.Context, walletAddress string, params ports.ListParams) ([]domain.Redemption, int64, error) {
	if walletAddress == "" {
		return nil, 0, apperror.ErrMissingWalletAddress()
	}

	student, err := s.students.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("get student: %w", err))
	}
	if student == nil {
		return nil, 0, apperror.ErrStudentNotFound()
	}

	reds, total, err := s.redemptions.ListByStudent(ctx, student.ID, normalizeListParams(params))
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list redemptions: %w", err))
	}
	return reds, total, nil
}

// withHistory attaches the student's most recent redemptions.
func (s *LedgerServiceImpl) withHistory(ctx context.Context, student *domain.Student) (*ports.StudentWithHistory, error) {
	reds, _, err := s.redemptions.ListByStudent(ctx, student.ID, ports.ListParams{Limit: recentHistoryLimit})
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list recent redemptions: %w", err))
	}
	if reds == nil {
		reds = []domain.Redemption{}
	}
	return &ports.StudentWithHistory{Student: *student, Redemptions: reds}, nil
}

// sanitizeProfile drops avatar payloads above the storage bound. The
// drop is silent: the rest of the update still applies and the stored
// avatar becomes absent.
func (s *LedgerServiceImpl) sanitizeProfile(walletAddress string, upd ports.ProfileUpdate) ports.ProfileUpdate {
	if upd.AvatarURL != nil && len(*upd.AvatarURL) > domain.MaxAvatarURLLen {
		s.log.Info().
			Str("wallet", walletAddress).
			Int("len", len(*upd.AvatarURL)).
			Msg("oversized avatar payload dropped")
		upd.AvatarURL = nil
		upd.ClearAvatar = true
	}
	return upd
}

func validateRecordRequest(req ports.RecordRedemptionRequest) error {
	if req.TxHash == "" {
		return apperror.Validation("Transaction hash is required")
	}
	if req.WalletAddress == "" {
		return apperror.ErrMissingWalletAddress()
	}
	if req.MealCount < 1 {
		return apperror.Validation("Meal count must be a positive integer")
	}
	if !req.MealType.IsValid() {
		return apperror.Validation("Unknown meal type")
	}
	if req.BlockNumber < 1 {
		return apperror.Validation("Block number is required")
	}
	if req.BlockTimestamp.IsZero() {
		return apperror.Validation("Block timestamp is required")
	}
	return nil
}

func normalizeListParams(params ports.ListParams) ports.ListParams {
	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return params
}
