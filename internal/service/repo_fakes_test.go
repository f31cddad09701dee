package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"

	"github.com/google/uuid"
)

// In-memory repository fakes mirroring the storage contracts, so service
// behavior is tested without a database.

type fakeStudentRepo struct {
	mu       sync.RWMutex
	byWallet map[string]*domain.Student
	err      error // when set, every call fails with it
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{byWallet: make(map[string]*domain.Student)}
}

func (r *fakeStudentRepo) GetOrCreate(_ context.Context, walletAddress string) (*domain.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byWallet[walletAddress]; ok {
		cp := *s
		return &cp, nil
	}
	now := time.Now().UTC()
	s := &domain.Student{
		ID:            uuid.New(),
		WalletAddress: walletAddress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.byWallet[walletAddress] = s
	cp := *s
	return &cp, nil
}

func (r *fakeStudentRepo) GetByWallet(_ context.Context, walletAddress string) (*domain.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byWallet[walletAddress]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.byWallet {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) UpdateProfile(_ context.Context, walletAddress string, upd ports.ProfileUpdate) (*domain.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byWallet[walletAddress]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		s.Name = upd.Name
	}
	if upd.HostelBlock != nil {
		s.HostelBlock = upd.HostelBlock
	}
	if upd.RoomNumber != nil {
		s.RoomNumber = upd.RoomNumber
	}
	if upd.ClearAvatar {
		s.AvatarURL = nil
	} else if upd.AvatarURL != nil {
		s.AvatarURL = upd.AvatarURL
	}
	s.UpdatedAt = time.Now().UTC()
	cp := *s
	return &cp, nil
}

type fakeRedemptionRepo struct {
	mu   sync.RWMutex
	byTx map[string]domain.Redemption
	err  error
}

func newFakeRedemptionRepo() *fakeRedemptionRepo {
	return &fakeRedemptionRepo{byTx: make(map[string]domain.Redemption)}
}

func (r *fakeRedemptionRepo) Create(_ context.Context, red *domain.Redemption) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byTx[red.TxHash]; ok {
		return domain.ErrDuplicateTxHash
	}
	r.byTx[red.TxHash] = *red
	return nil
}

func (r *fakeRedemptionRepo) forStudent(studentID uuid.UUID) []domain.Redemption {
	var reds []domain.Redemption
	for _, red := range r.byTx {
		if red.StudentID == studentID {
			reds = append(reds, red)
		}
	}
	sort.Slice(reds, func(i, j int) bool {
		return reds[i].BlockTimestamp.After(reds[j].BlockTimestamp)
	})
	return reds
}

func (r *fakeRedemptionRepo) ListByStudent(_ context.Context, studentID uuid.UUID, params ports.ListParams) ([]domain.Redemption, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	reds := r.forStudent(studentID)
	total := int64(len(reds))
	if params.Offset >= len(reds) {
		return nil, total, nil
	}
	reds = reds[params.Offset:]
	if params.Limit > 0 && params.Limit < len(reds) {
		reds = reds[:params.Limit]
	}
	return reds, total, nil
}

func (r *fakeRedemptionRepo) ListAllByStudent(_ context.Context, studentID uuid.UUID) ([]domain.Redemption, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forStudent(studentID), nil
}

func (r *fakeRedemptionRepo) SumMealCount(_ context.Context, studentID uuid.UUID) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, red := range r.forStudent(studentID) {
		sum += int64(red.MealCount)
	}
	return sum, nil
}

func (r *fakeRedemptionRepo) SumMealCountSince(_ context.Context, studentID uuid.UUID, since time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, red := range r.forStudent(studentID) {
		if !red.BlockTimestamp.Before(since) { // lower bound inclusive
			sum += int64(red.MealCount)
		}
	}
	return sum, nil
}

type fakeStatsCache struct {
	mu            sync.Mutex
	snapshots     map[string]*domain.AttendanceStats
	sets          int
	invalidations int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{snapshots: make(map[string]*domain.AttendanceStats)}
}

func (c *fakeStatsCache) Get(_ context.Context, walletAddress string) (*domain.AttendanceStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.snapshots[walletAddress]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (c *fakeStatsCache) Set(_ context.Context, walletAddress string, stats *domain.AttendanceStats, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *stats
	c.snapshots[walletAddress] = &cp
	c.sets++
	return nil
}

func (c *fakeStatsCache) Invalidate(_ context.Context, walletAddress string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, walletAddress)
	c.invalidations++
	return nil
}
