package postgres

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Schema is applied at startup. Statements are idempotent so repeated
// boots against the same database are safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY,
		wallet_address TEXT NOT NULL,
		name TEXT,
		hostel_block TEXT,
		room_number TEXT,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

		CONSTRAINT students_wallet_address_key UNIQUE (wallet_address),
		CONSTRAINT students_avatar_url_len CHECK (char_length(avatar_url) <= 255)
	)`,

	`CREATE TABLE IF NOT EXISTS redemptions (
		id UUID PRIMARY KEY,
		tx_hash TEXT NOT NULL,
		student_id UUID NOT NULL REFERENCES students(id),
		meal_count INTEGER NOT NULL,
		meal_type TEXT NOT NULL,
		block_number BIGINT NOT NULL,
		block_timestamp TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

		CONSTRAINT redemptions_tx_hash_key UNIQUE (tx_hash),
		CONSTRAINT redemptions_meal_count_positive CHECK (meal_count >= 1),
		CONSTRAINT redemptions_meal_type_valid CHECK (
			meal_type IN ('BREAKFAST', 'LUNCH', 'DINNER', 'SPECIAL_MEAL')
		)
	)`,

	// Serves the newest-first history scans and the streak lookback.
	`CREATE INDEX IF NOT EXISTS idx_redemptions_student_time
		ON redemptions (student_id, block_timestamp DESC)`,
}

// Migrate applies the embedded schema.
func Migrate(ctx context.Context, pool Pool, log zerolog.Logger) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration %d: %w", i+1, err)
		}
	}
	log.Info().Int("statements", len(migrations)).Msg("database schema up to date")
	return nil
}
