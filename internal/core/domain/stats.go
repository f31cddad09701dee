package domain

// AttendanceStats is a point-in-time snapshot of a student's attendance,
// derived from the redemption history. Given the same history and the
// same "now" the snapshot is deterministic.
type AttendanceStats struct {
	TotalMeals    int64 `json:"total_meals"`
	ThisWeek      int64 `json:"this_week"`
	CurrentStreak int   `json:"current_streak"`
}
