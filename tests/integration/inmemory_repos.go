package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"

	"github.com/google/uuid"
)

// In-memory repositories implementing the storage ports. Uniqueness is
// enforced under the same lock that performs the write, mirroring the
// unique constraints the real schema relies on.

// --- In-Memory Student Repo ---

type inMemoryStudentRepo struct {
	mu       sync.RWMutex
	byWallet map[string]*domain.Student
}

func newInMemoryStudentRepo() *inMemoryStudentRepo {
	return &inMemoryStudentRepo{byWallet: make(map[string]*domain.Student)}
}

func (r *inMemoryStudentRepo) GetOrCreate(ctx context.Context, walletAddress string) (*domain.Student, error) {
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

func (r *inMemoryStudentRepo) GetByWallet(ctx context.Context, walletAddress string) (*domain.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byWallet[walletAddress]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *inMemoryStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
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

func (r *inMemoryStudentRepo) UpdateProfile(ctx context.Context, walletAddress string, upd ports.ProfileUpdate) (*domain.Student, error) {
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

// --- In-Memory Redemption Repo ---

type inMemoryRedemptionRepo struct {
	mu   sync.RWMutex
	byTx map[string]domain.Redemption
}

func newInMemoryRedemptionRepo() *inMemoryRedemptionRepo {
	return &inMemoryRedemptionRepo{byTx: make(map[string]domain.Redemption)}
}

func (r *inMemoryRedemptionRepo) Create(ctx context.Context, red *domain.Redemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byTx[red.TxHash]; ok {
		return domain.ErrDuplicateTxHash
	}
	r.byTx[red.TxHash] = *red
	return nil
}

func (r *inMemoryRedemptionRepo) forStudent(studentID uuid.UUID) []domain.Redemption {
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

func (r *inMemoryRedemptionRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, params ports.ListParams) ([]domain.Redemption, int64, error) {
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

func (r *inMemoryRedemptionRepo) ListAllByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Redemption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forStudent(studentID), nil
}

func (r *inMemoryRedemptionRepo) SumMealCount(ctx context.Context, studentID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, red := range r.forStudent(studentID) {
		sum += int64(red.MealCount)
	}
	return sum, nil
}

func (r *inMemoryRedemptionRepo) SumMealCountSince(ctx context.Context, studentID uuid.UUID, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, red := range r.forStudent(studentID) {
		if !red.BlockTimestamp.Before(since) {
			sum += int64(red.MealCount)
		}
	}
	return sum, nil
}
