package repository

import (
	"time"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	ListUsernames(excludeUsername string) ([]string, error)
}

// RoomRepositoryInterface defines the contract for room and membership operations
type RoomRepositoryInterface interface {
	// CreateWithCreator inserts the room and the creator's membership row in
	// one transaction: either both exist afterwards or neither does.
	CreateWithCreator(room *models.Room, creatorID uint) error
	FindByID(id uint) (*models.Room, error)
	AddMember(roomID, userID uint) error
	FindMembership(userID, roomID uint) (*models.RoomUser, error)
	IsMember(roomID, userID uint) (bool, error)
	GetMembers(roomID uint) ([]models.User, error)
	ListRoomSummaries(userID uint) ([]RoomSummaryRow, error)
}

// MessageRepositoryInterface defines the contract for the append-only message log
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	ListByRoom(roomID uint) ([]MessageRow, error)
	MaxMessageID(roomID uint) (uint, error)
	CountUnread(roomID uint, afterMessageID uint, excludeUserID uint) (int64, error)
	IsMessageInRoom(messageID, roomID uint) (bool, error)
}

// ReadCursorRepositoryInterface defines the contract for the per-membership
// read cursor stored on the room_users row
type ReadCursorRepositoryInterface interface {
	Get(userID, roomID uint) (*uint, error)
	AdvanceMonotonic(userID, roomID uint, messageID uint) error
}

// MessageRow is a message joined with its sender, independent of any viewer.
type MessageRow struct {
	ID             uint      `gorm:"column:id"`
	RoomID         uint      `gorm:"column:room_id"`
	SenderUserID   uint      `gorm:"column:sender_user_id"`
	SenderUsername string    `gorm:"column:sender_username"`
	Text           string    `gorm:"column:text"`
	SentAt         time.Time `gorm:"column:sent_at"`
}

// RoomSummaryRow is a denormalized row for the room list view: room info,
// last message, and the viewer's unread count.
type RoomSummaryRow struct {
	RoomID      uint  `gorm:"column:room_id"`
	RoomName    string `gorm:"column:room_name"`
	MemberCount int64 `gorm:"column:member_count"`
	UnreadCount int64 `gorm:"column:unread_count"`

	LastMessageID      uint       `gorm:"column:last_message_id"`
	LastMessageText    string     `gorm:"column:last_message_text"`
	LastMessageAt      *time.Time `gorm:"column:last_message_at"`
	LastSenderUsername string     `gorm:"column:last_sender_username"`
}
