package repository

import (
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) CreateWithCreator(room *models.Room, creatorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		membership := models.RoomUser{
			RoomID: room.ID,
			UserID: creatorID,
		}
		return tx.Create(&membership).Error
	})
}

func (r *RoomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) AddMember(roomID, userID uint) error {
	membership := models.RoomUser{
		RoomID: roomID,
		UserID: userID,
	}
	return r.db.Create(&membership).Error
}

func (r *RoomRepository) FindMembership(userID, roomID uint) (*models.RoomUser, error) {
	var membership models.RoomUser
	err := r.db.Where("user_id = ? AND room_id = ?", userID, roomID).First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *RoomRepository) IsMember(roomID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.RoomUser{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *RoomRepository) GetMembers(roomID uint) ([]models.User, error) {
	var members []models.User
	err := r.db.Joins("JOIN room_users ON room_users.user_id = users.id").
		Where("room_users.room_id = ?", roomID).
		Order("users.username ASC").
		Find(&members).Error
	return members, err
}

// ListRoomSummaries returns one row per room the user belongs to, carrying
// the latest message and the user's unread count. Unread means a message id
// above the user's cursor from a sender other than the user; a nil cursor
// counts everything.
func (r *RoomRepository) ListRoomSummaries(userID uint) ([]RoomSummaryRow, error) {
	query := `
SELECT
	rm.id AS room_id,
	rm.name AS room_name,
	(
		SELECT COUNT(*)
		FROM room_users ru2
		WHERE ru2.room_id = rm.id
	) AS member_count,
	(
		SELECT COUNT(*)
		FROM messages m
		JOIN room_users sender_ru ON sender_ru.id = m.room_user_id
		WHERE sender_ru.room_id = rm.id
		  AND m.id > COALESCE(my.last_read_message_id, 0)
		  AND sender_ru.user_id <> my.user_id
	) AS unread_count,
	COALESCE(last_m.id, 0) AS last_message_id,
	COALESCE(last_m.text, '') AS last_message_text,
	last_m.sent_datetime AS last_message_at,
	COALESCE(last_u.username, '') AS last_sender_username
FROM room_users my
JOIN rooms rm ON rm.id = my.room_id
LEFT JOIN LATERAL (
	SELECT m.id, m.text, m.sent_datetime, m.room_user_id
	FROM messages m
	JOIN room_users sender_ru ON sender_ru.id = m.room_user_id
	WHERE sender_ru.room_id = rm.id
	ORDER BY m.sent_datetime DESC, m.id DESC
	LIMIT 1
) last_m ON TRUE
LEFT JOIN room_users last_ru ON last_ru.id = last_m.room_user_id
LEFT JOIN users last_u ON last_u.id = last_ru.user_id
WHERE my.user_id = ?
ORDER BY COALESCE(last_m.sent_datetime, rm.start_datetime) DESC, rm.id DESC
`

	var rows []RoomSummaryRow
	if err := r.db.Raw(query, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
