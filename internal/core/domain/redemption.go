package domain

import (
	"time"

	"github.com/google/uuid"
)

// MealType represents the meal slot a token was redeemed for.
type MealType string

const (
	MealTypeBreakfast   MealType = "BREAKFAST"
	MealTypeLunch       MealType = "LUNCH"
	MealTypeDinner      MealType = "DINNER"
	MealTypeSpecialMeal MealType = "SPECIAL_MEAL"
)

// IsValid returns true if the meal type is a member of the enumeration.
func (m MealType) IsValid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSpecialMeal:
		return true
	}
	return false
}

// Redemption is an immutable ledger entry for one confirmed token
// redemption. TxHash is the idempotency key: exactly one row exists per
// distinct transaction hash, and rows are never updated or deleted.
// BlockTimestamp is the canonical ordering key for all analytics.
type Redemption struct {
	ID             uuid.UUID `json:"id"`
	TxHash         string    `json:"tx_hash"`
	StudentID      uuid.UUID `json:"student_id"`
	MealCount      int       `json:"meal_count"`
	MealType       MealType  `json:"meal_type"`
	BlockNumber    int64     `json:"block_number"`
	BlockTimestamp time.Time `json:"block_timestamp"`
	CreatedAt      time.Time `json:"created_at"`
}
