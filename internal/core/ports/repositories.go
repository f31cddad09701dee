package ports

import (
	"context"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"

	"github.com/google/uuid"
)

// ProfileUpdate holds a partial profile change. A nil pointer leaves the
// field unchanged. ClearAvatar sets avatar_url to NULL; the service layer
// uses it when an oversized avatar payload is dropped.
type ProfileUpdate struct {
	Name        *string
	HostelBlock *string
	RoomNumber  *string
	AvatarURL   *string
	ClearAvatar bool
}

// IsEmpty returns true if the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.HostelBlock == nil && u.RoomNumber == nil &&
		u.AvatarURL == nil && !u.ClearAvatar
}

// ListParams holds pagination for redemption listings.
type ListParams struct {
	Limit  int
	Offset int
}

// StudentRepository defines persistence operations for students.
type StudentRepository interface {
	// GetOrCreate returns the student for the wallet address, inserting a
	// bare row first if none exists. Concurrent first-touch callers all
	// observe the same row.
	GetOrCreate(ctx context.Context, walletAddress string) (*domain.Student, error)
	// GetByWallet returns nil, nil when no student exists.
	GetByWallet(ctx context.Context, walletAddress string) (*domain.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
	// UpdateProfile applies a partial update and returns the updated row,
	// or nil, nil when no student exists for the address.
	UpdateProfile(ctx context.Context, walletAddress string, upd ProfileUpdate) (*domain.Student, error)
}

// RedemptionRepository defines persistence operations for redemption
// records. Rows are insert-only.
type RedemptionRepository interface {
	// Create inserts a redemption. Returns domain.ErrDuplicateTxHash when
	// a row with the same tx hash already exists.
	Create(ctx context.Context, r *domain.Redemption) error
	// ListByStudent returns redemptions ordered by block timestamp
	// descending, plus the total row count for the student.
	ListByStudent(ctx context.Context, studentID uuid.UUID, params ListParams) ([]domain.Redemption, int64, error)
	// ListAllByStudent returns the student's entire history ordered by
	// block timestamp descending.
	ListAllByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Redemption, error)
	// SumMealCount totals meal_count over the student's full history.
	SumMealCount(ctx context.Context, studentID uuid.UUID) (int64, error)
	// SumMealCountSince totals meal_count over rows with
	// block_timestamp >= since (lower bound inclusive).
	SumMealCountSince(ctx context.Context, studentID uuid.UUID, since time.Time) (int64, error)
}
