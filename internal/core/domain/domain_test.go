package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMealType_IsValid(t *testing.T) {
	tests := []struct {
		name string
		mt   MealType
		want bool
	}{
		{"breakfast", MealTypeBreakfast, true},
		{"lunch", MealTypeLunch, true},
		{"dinner", MealTypeDinner, true},
		{"special meal", MealTypeSpecialMeal, true},
		{"empty", MealType(""), false},
		{"unknown", MealType("BRUNCH"), false},
		{"lowercase", MealType("lunch"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mt.IsValid())
		})
	}
}
