package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const redemptionColumns = `id, tx_hash, student_id, meal_count, meal_type, block_number, block_timestamp, created_at`

// RedemptionRepo implements ports.RedemptionRepository.
type RedemptionRepo struct {
	pool Pool
}

// NewRedemptionRepo creates a new RedemptionRepo.
func NewRedemptionRepo(pool Pool) *RedemptionRepo {
	return &RedemptionRepo{pool: pool}
}

// Create inserts a redemption. The unique constraint on tx_hash is the
// idempotency guarantee: a duplicate insert, including one racing a
// concurrent submission of the same event, surfaces as
// domain.ErrDuplicateTxHash instead of a raw constraint fault.
func (r *RedemptionRepo) Create(ctx context.Context, red *domain.Redemption) error {
	query := `INSERT INTO redemptions (id, tx_hash, student_id, meal_count, meal_type, block_number, block_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		red.ID, red.TxHash, red.StudentID, red.MealCount,
		red.MealType, red.BlockNumber, red.BlockTimestamp, red.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "redemptions_tx_hash_key") {
			return domain.ErrDuplicateTxHash
		}
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

// ListByStudent fetches a page of redemptions ordered by block timestamp
// descending, plus the student's total row count.
func (r *RedemptionRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, params ports.ListParams) ([]domain.Redemption, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM redemptions WHERE student_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, studentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count redemptions: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT %s FROM redemptions
		WHERE student_id = $1
		ORDER BY block_timestamp DESC
		LIMIT $2 OFFSET $3`, redemptionColumns)

	rows, err := r.pool.Query(ctx, dataQuery, studentID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list redemptions: %w", err)
	}

	reds, err := scanRedemptionRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return reds, total, nil
}

// ListAllByStudent fetches the student's entire history ordered by block
// timestamp descending. Used for profile reads, which embed the full
// ledger rather than a page of it.
func (r *RedemptionRepo) ListAllByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Redemption, error) {
	query := fmt.Sprintf(`SELECT %s FROM redemptions
		WHERE student_id = $1
		ORDER BY block_timestamp DESC`, redemptionColumns)

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list all redemptions: %w", err)
	}
	return scanRedemptionRows(rows)
}

func scanRedemptionRows(rows pgx.Rows) ([]domain.Redemption, error) {
	defer rows.Close()

	var reds []domain.Redemption
	for rows.Next() {
		red := domain.Redemption{}
		err := rows.Scan(
			&red.ID, &red.TxHash, &red.StudentID, &red.MealCount,
			&red.MealType, &red.BlockNumber, &red.BlockTimestamp, &red.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan redemption row: %w", err)
		}
		reds = append(reds, red)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemption rows: %w", err)
	}
	return reds, nil
}

// SumMealCount totals meal_count over the student's full history.
func (r *RedemptionRepo) SumMealCount(ctx context.Context, studentID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(meal_count), 0) FROM redemptions WHERE student_id = $1`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, studentID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum meal count: %w", err)
	}
	return sum, nil
}

// SumMealCountSince totals meal_count over rows with block_timestamp at
// or after since. The lower bound is inclusive.
func (r *RedemptionRepo) SumMealCountSince(ctx context.Context, studentID uuid.UUID, since time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(meal_count), 0) FROM redemptions
		WHERE student_id = $1 AND block_timestamp >= $2`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, studentID, since).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum meal count since: %w", err)
	}
	return sum, nil
}
