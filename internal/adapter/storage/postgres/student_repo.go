package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const studentColumns = `id, wallet_address, name, hostel_block, room_number, avatar_url, created_at, updated_at`

// StudentRepo implements ports.StudentRepository.
type StudentRepo struct {
	pool Pool
}

// NewStudentRepo creates a new StudentRepo.
func NewStudentRepo(pool Pool) *StudentRepo {
	return &StudentRepo{pool: pool}
}

// GetOrCreate returns the student for the wallet address, inserting a
// bare row first if none exists. ON CONFLICT DO NOTHING plus a re-read
// keeps concurrent first-touch callers on one row without surfacing a
// constraint error.
func (r *StudentRepo) GetOrCreate(ctx context.Context, walletAddress string) (*domain.Student, error) {
	now := time.Now().UTC()
	insert := `INSERT INTO students (id, wallet_address, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (wallet_address) DO NOTHING`

	if _, err := r.pool.Exec(ctx, insert, uuid.New(), walletAddress, now); err != nil {
		return nil, fmt.Errorf("insert student: %w", err)
	}

	student, err := r.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	if student == nil {
		// The row was inserted or already present, so it must be readable.
		return nil, fmt.Errorf("student missing after upsert: %s", walletAddress)
	}
	return student, nil
}

// GetByWallet fetches a student by wallet address. Returns nil, nil when
// no student exists.
func (r *StudentRepo) GetByWallet(ctx context.Context, walletAddress string) (*domain.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE wallet_address = $1`, studentColumns)
	return scanStudent(r.pool.QueryRow(ctx, query, walletAddress))
}

// GetByID fetches a student by its UUID.
func (r *StudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

// UpdateProfile applies a partial update. Nil fields stay untouched;
// ClearAvatar nulls avatar_url. Returns nil, nil when no student exists
// for the address.
func (r *StudentRepo) UpdateProfile(ctx context.Context, walletAddress string, upd ports.ProfileUpdate) (*domain.Student, error) {
	sets := []string{"updated_at = $2"}
	args := []any{walletAddress, time.Now().UTC()}
	argIdx := 3

	addSet := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, *value)
		argIdx++
	}
	addSet("name", upd.Name)
	addSet("hostel_block", upd.HostelBlock)
	addSet("room_number", upd.RoomNumber)

	if upd.ClearAvatar {
		sets = append(sets, "avatar_url = NULL")
	} else {
		addSet("avatar_url", upd.AvatarURL)
	}

	query := fmt.Sprintf(`UPDATE students SET %s WHERE wallet_address = $1 RETURNING %s`,
		strings.Join(sets, ", "), studentColumns)

	return scanStudent(r.pool.QueryRow(ctx, query, args...))
}

// scanStudent is a helper to scan a single row into a Student.
func scanStudent(row pgx.Row) (*domain.Student, error) {
	s := &domain.Student{}
	err := row.Scan(
		&s.ID, &s.WalletAddress, &s.Name, &s.HostelBlock,
		&s.RoomNumber, &s.AvatarURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan student: %w", err)
	}
	return s, nil
}
