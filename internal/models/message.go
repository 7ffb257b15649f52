package models

import (
	"time"
)

// Message is append-only: rows are never updated or deleted, and IDs are
// assigned monotonically with insertion order. The room is derivable only
// through the sender's membership row (RoomUserID).
type Message struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RoomUserID uint      `gorm:"not null;index" json:"room_user_id"`
	SentAt     time.Time `gorm:"column:sent_datetime;autoCreateTime;index" json:"sent_datetime"`
	Text       string    `gorm:"type:text;not null" json:"text"`

	RoomUser RoomUser `gorm:"foreignKey:RoomUserID" json:"-"`
}

// MessageView is a message as presented to one viewer: denormalized with
// the sender's username and room, plus the viewer-dependent unread flag.
type MessageView struct {
	ID             uint      `json:"id"`
	RoomID         uint      `json:"room_id"`
	SenderUsername string    `json:"sender_username"`
	Text           string    `json:"text"`
	SentAt         time.Time `json:"sent_datetime"`
	Unread         bool      `json:"unread"`
}
