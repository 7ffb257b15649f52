package models

import (
	"time"
)

type Room struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	StartedAt time.Time `gorm:"column:start_datetime;autoCreateTime" json:"start_datetime"`

	// Associations
	Members []RoomUser `gorm:"foreignKey:RoomID" json:"members,omitempty"`
}

// RoomUser is the membership row binding one user to one room. Messages
// reference the sender's membership row, and the per-member read cursor
// lives here: LastReadMessageID is nil until the member has read
// anything, and only ever moves forward afterwards.
type RoomUser struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	RoomID   uint      `gorm:"uniqueIndex:idx_room_user;not null" json:"room_id"`
	UserID   uint      `gorm:"uniqueIndex:idx_room_user;not null;index" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	LastReadMessageID *uint `json:"last_read_message_id"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}

type RoomResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"start_datetime"`
}

func (r *Room) ToResponse() RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		StartedAt: r.StartedAt,
	}
}
