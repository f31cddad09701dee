package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxAvatarURLLen is the storage bound for avatar payloads. Values above
// this length (typically inlined base64 images) are silently dropped
// instead of stored; a real upload service owns large images.
const MaxAvatarURLLen = 255

// Student is the profile attached to a wallet address. The wallet address
// is the external identity key: globally unique, case-sensitive and
// immutable after creation. Display attributes are optional and mutable.
type Student struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Name          *string   `json:"name,omitempty"`
	HostelBlock   *string   `json:"hostel_block,omitempty"`
	RoomNumber    *string   `json:"room_number,omitempty"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
