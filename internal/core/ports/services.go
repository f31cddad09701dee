package ports

import (
	"context"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
)

// StudentWithHistory is the combined read of a profile with embedded
// redemptions, newest first. The auto-creating read carries a bounded
// recent slice; the strict lookup carries the full ledger.
type StudentWithHistory struct {
	Student     domain.Student      `json:"student"`
	Redemptions []domain.Redemption `json:"redemptions"`
}

// RecordRedemptionRequest holds one redemption event reported by the
// external source of truth. The wallet address arrives already verified
// and the tx hash is assumed to reference a real confirmed transaction.
type RecordRedemptionRequest struct {
	TxHash         string
	WalletAddress  string
	MealCount      int
	MealType       domain.MealType
	BlockNumber    int64
	BlockTimestamp time.Time
}

// LedgerService is the write and read surface of the redemption ledger.
type LedgerService interface {
	// GetOrCreateStudent returns the student for the wallet address,
	// creating a bare profile on first contact.
	GetOrCreateStudent(ctx context.Context, walletAddress string) (*StudentWithHistory, error)
	// GetStudent is the strict lookup: no implicit creation.
	GetStudent(ctx context.Context, walletAddress string) (*StudentWithHistory, error)
	// UpdateProfile partially updates an existing profile.
	UpdateProfile(ctx context.Context, walletAddress string, upd ProfileUpdate) (*domain.Student, error)
	// UpsertProfile creates the profile if missing, then applies the
	// update. Used by onboarding flows.
	UpsertProfile(ctx context.Context, walletAddress string, upd ProfileUpdate) (*domain.Student, error)
	// RecordRedemption persists one redemption event exactly once.
	RecordRedemption(ctx context.Context, req RecordRedemptionRequest) (*domain.Redemption, error)
	// ListRedemptions pages through a student's history, newest first.
	ListRedemptions(ctx context.Context, walletAddress string, params ListParams) ([]domain.Redemption, int64, error)
}

// StatsService derives attendance statistics from the recorded history.
type StatsService interface {
	ComputeStats(ctx context.Context, walletAddress string, now time.Time) (*domain.AttendanceStats, error)
}

// StatsCache caches computed stats snapshots per wallet address.
type StatsCache interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, walletAddress string) (*domain.AttendanceStats, error)
	Set(ctx context.Context, walletAddress string, stats *domain.AttendanceStats, ttl time.Duration) error
	// Invalidate drops the snapshot after a new redemption is recorded.
	Invalidate(ctx context.Context, walletAddress string) error
}
