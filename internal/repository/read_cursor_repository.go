package repository

import (
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"gorm.io/gorm"
)

type ReadCursorRepository struct {
	db *gorm.DB
}

func NewReadCursorRepository(db *gorm.DB) *ReadCursorRepository {
	return &ReadCursorRepository{db: db}
}

// Get returns the user's read cursor for the room, nil if the member has
// not read anything yet. A missing membership row is a not-found error.
func (r *ReadCursorRepository) Get(userID, roomID uint) (*uint, error) {
	var membership models.RoomUser
	err := r.db.Select("last_read_message_id").
		Where("user_id = ? AND room_id = ?", userID, roomID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return membership.LastReadMessageID, nil
}

// AdvanceMonotonic moves the cursor forward to messageID. GREATEST keeps
// the cursor monotonically non-decreasing even when calls race or arrive
// out of order; a stale advance is a no-op.
func (r *ReadCursorRepository) AdvanceMonotonic(userID, roomID uint, messageID uint) error {
	res := r.db.Exec(`
		UPDATE room_users
		SET last_read_message_id = GREATEST(COALESCE(last_read_message_id, 0), ?)
		WHERE user_id = ? AND room_id = ?
	`, messageID, userID, roomID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
