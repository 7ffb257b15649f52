package repository

import (
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListByRoom returns every message in the room joined with its sender,
// oldest first. Ties on sent_datetime fall back to id, which is monotonic
// with insertion order.
func (r *MessageRepository) ListByRoom(roomID uint) ([]MessageRow, error) {
	query := `
SELECT
	m.id,
	ru.room_id,
	ru.user_id AS sender_user_id,
	u.username AS sender_username,
	m.text,
	m.sent_datetime AS sent_at
FROM messages m
JOIN room_users ru ON ru.id = m.room_user_id
JOIN users u ON u.id = ru.user_id
WHERE ru.room_id = ?
ORDER BY m.sent_datetime ASC, m.id ASC
`

	var rows []MessageRow
	if err := r.db.Raw(query, roomID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MessageRepository) MaxMessageID(roomID uint) (uint, error) {
	var maxID uint
	err := r.db.Raw(`
SELECT COALESCE(MAX(m.id), 0)
FROM messages m
JOIN room_users ru ON ru.id = m.room_user_id
WHERE ru.room_id = ?
`, roomID).Scan(&maxID).Error
	return maxID, err
}

func (r *MessageRepository) CountUnread(roomID uint, afterMessageID uint, excludeUserID uint) (int64, error) {
	var count int64
	err := r.db.Raw(`
SELECT COUNT(*)
FROM messages m
JOIN room_users ru ON ru.id = m.room_user_id
WHERE ru.room_id = ?
  AND m.id > ?
  AND ru.user_id <> ?
`, roomID, afterMessageID, excludeUserID).Scan(&count).Error
	return count, err
}

func (r *MessageRepository) IsMessageInRoom(messageID, roomID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Joins("JOIN room_users ON room_users.id = messages.room_user_id").
		Where("messages.id = ? AND room_users.room_id = ?", messageID, roomID).
		Count(&count).Error
	return count > 0, err
}
