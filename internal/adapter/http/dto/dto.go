package dto

import (
	"time"

	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/domain"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"
)

// UpsertStudentRequest is the request body for student upsert. Only the
// wallet address is required; absent profile fields stay untouched.
type UpsertStudentRequest struct {
	WalletAddress string  `json:"wallet_address" binding:"required,max=100"`
	Name          *string `json:"name,omitempty" binding:"omitempty,max=100"`
	HostelBlock   *string `json:"hostel_block,omitempty" binding:"omitempty,max=20"`
	RoomNumber    *string `json:"room_number,omitempty" binding:"omitempty,max=20"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	ClearAvatar   bool    `json:"clear_avatar,omitempty"`
}

// UpdateProfileRequest is the request body for partial profile updates.
// A nil field means "leave unchanged"; ClearAvatar resets the avatar.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	HostelBlock *string `json:"hostel_block,omitempty" binding:"omitempty,max=20"`
	RoomNumber  *string `json:"room_number,omitempty" binding:"omitempty,max=20"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	ClearAvatar bool    `json:"clear_avatar,omitempty"`
}

// ToProfileUpdate converts the request into the service-level update.
func (r *UpdateProfileRequest) ToProfileUpdate() ports.ProfileUpdate {
	return ports.ProfileUpdate{
		Name:        r.Name,
		HostelBlock: r.HostelBlock,
		RoomNumber:  r.RoomNumber,
		AvatarURL:   r.AvatarURL,
		ClearAvatar: r.ClearAvatar,
	}
}

// ToProfileUpdate extracts the profile portion of an upsert request.
func (r *UpsertStudentRequest) ToProfileUpdate() ports.ProfileUpdate {
	return ports.ProfileUpdate{
		Name:        r.Name,
		HostelBlock: r.HostelBlock,
		RoomNumber:  r.RoomNumber,
		AvatarURL:   r.AvatarURL,
		ClearAvatar: r.ClearAvatar,
	}
}

// RecordRedemptionRequest is the request body for recording a meal token
// redemption observed on chain.
type RecordRedemptionRequest struct {
	TxHash         string    `json:"tx_hash" binding:"required,max=100"`
	WalletAddress  string    `json:"wallet_address" binding:"required,max=100"`
	MealCount      int       `json:"meal_count" binding:"required,gte=1"`
	MealType       string    `json:"meal_type" binding:"required,meal_type"`
	BlockNumber    int64     `json:"block_number" binding:"required,gt=0"`
	BlockTimestamp time.Time `json:"block_timestamp" binding:"required"`
}

// ToServiceRequest converts the request into the service-level form.
func (r *RecordRedemptionRequest) ToServiceRequest() ports.RecordRedemptionRequest {
	return ports.RecordRedemptionRequest{
		TxHash:         r.TxHash,
		WalletAddress:  r.WalletAddress,
		MealCount:      r.MealCount,
		MealType:       domain.MealType(r.MealType),
		BlockNumber:    r.BlockNumber,
		BlockTimestamp: r.BlockTimestamp,
	}
}

// RedemptionResponse is the wire form of a recorded redemption.
type RedemptionResponse struct {
	ID             string    `json:"id"`
	TxHash         string    `json:"tx_hash"`
	MealCount      int       `json:"meal_count"`
	MealType       string    `json:"meal_type"`
	BlockNumber    int64     `json:"block_number"`
	BlockTimestamp time.Time `json:"block_timestamp"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewRedemptionResponse maps a domain redemption to its wire form.
func NewRedemptionResponse(red *domain.Redemption) RedemptionResponse {
	return RedemptionResponse{
		ID:             red.ID.String(),
		TxHash:         red.TxHash,
		MealCount:      red.MealCount,
		MealType:       string(red.MealType),
		BlockNumber:    red.BlockNumber,
		BlockTimestamp: red.BlockTimestamp,
		CreatedAt:      red.CreatedAt,
	}
}

// NewRedemptionList maps a slice of redemptions, never returning nil so
// empty histories serialize as [] rather than null.
func NewRedemptionList(reds []domain.Redemption) []RedemptionResponse {
	out := make([]RedemptionResponse, 0, len(reds))
	for i := range reds {
		out = append(out, NewRedemptionResponse(&reds[i]))
	}
	return out
}

// StudentResponse is the wire form of a student profile, optionally
// carrying the most recent redemptions.
type StudentResponse struct {
	ID                string               `json:"id"`
	WalletAddress     string               `json:"wallet_address"`
	Name              *string              `json:"name,omitempty"`
	HostelBlock       *string              `json:"hostel_block,omitempty"`
	RoomNumber        *string              `json:"room_number,omitempty"`
	AvatarURL         *string              `json:"avatar_url,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	RecentRedemptions []RedemptionResponse `json:"recent_redemptions,omitempty"`
}

// NewStudentResponse maps a bare profile without history.
func NewStudentResponse(st *domain.Student) StudentResponse {
	return StudentResponse{
		ID:            st.ID.String(),
		WalletAddress: st.WalletAddress,
		Name:          st.Name,
		HostelBlock:   st.HostelBlock,
		RoomNumber:    st.RoomNumber,
		AvatarURL:     st.AvatarURL,
		CreatedAt:     st.CreatedAt,
		UpdatedAt:     st.UpdatedAt,
	}
}

// NewStudentWithHistory maps a profile together with its recent history.
func NewStudentWithHistory(sh *ports.StudentWithHistory) StudentResponse {
	resp := NewStudentResponse(&sh.Student)
	resp.RecentRedemptions = NewRedemptionList(sh.Redemptions)
	return resp
}

// StatsResponse is the wire form of an attendance snapshot.
type StatsResponse struct {
	TotalMeals    int64 `json:"total_meals"`
	ThisWeek      int64 `json:"this_week"`
	CurrentStreak int   `json:"current_streak"`
}

// NewStatsResponse maps a derived snapshot to its wire form.
func NewStatsResponse(stats *domain.AttendanceStats) StatsResponse {
	return StatsResponse{
		TotalMeals:    stats.TotalMeals,
		ThisWeek:      stats.ThisWeek,
		CurrentStreak: stats.CurrentStreak,
	}
}

// RedemptionListResponse wraps a paginated redemption history.
type RedemptionListResponse struct {
	Items  []RedemptionResponse `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}
