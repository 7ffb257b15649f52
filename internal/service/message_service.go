package service

import (
	"errors"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/repository"
	"gorm.io/gorm"
)

type MessageService struct {
	messageRepo repository.MessageRepositoryInterface
	roomRepo    repository.RoomRepositoryInterface
	userRepo    repository.UserRepositoryInterface
	cursorRepo  repository.ReadCursorRepositoryInterface
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	roomRepo repository.RoomRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	cursorRepo repository.ReadCursorRepositoryInterface,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		cursorRepo:  cursorRepo,
	}
}

// Send appends a message to the room log as the sender, then advances the
// sender's cursor to the new message id. The advance happens only after
// the append is durable, and targets exactly the id that was appended, so
// the sender's cursor never moves past a message they have not seen.
func (s *MessageService) Send(roomID uint, senderUsername, text string) (*models.MessageView, error) {
	sender, membership, err := s.resolveMembership(roomID, senderUsername)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		RoomUserID: membership.ID,
		Text:       text,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	if err := s.cursorRepo.AdvanceMonotonic(sender.ID, roomID, message.ID); err != nil {
		return nil, err
	}

	return &models.MessageView{
		ID:             message.ID,
		RoomID:         roomID,
		SenderUsername: sender.Username,
		Text:           message.Text,
		SentAt:         message.SentAt,
		Unread:         false,
	}, nil
}

// RoomMessageRows fetches the room's full message log, oldest first,
// independent of any viewer. Callers may cache the result.
func (s *MessageService) RoomMessageRows(roomID uint) ([]repository.MessageRow, error) {
	rows, err := s.messageRepo.ListByRoom(roomID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.MessageRow{}
	}
	return rows, nil
}

// AnnotateForViewer turns message rows into views for one viewer, marking
// each message unread when its id is above the viewer's cursor and it was
// sent by someone else. It also returns the max message id observed in the
// rows, which is the only id a subsequent cursor advance should target.
func (s *MessageService) AnnotateForViewer(roomID uint, viewerUsername string, rows []repository.MessageRow) ([]models.MessageView, uint, error) {
	viewer, _, err := s.resolveMembership(roomID, viewerUsername)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := s.cursorRepo.Get(viewer.ID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotMember
		}
		return nil, 0, err
	}

	views := AnnotateUnread(rows, cursor, viewer.Username)
	return views, MaxObservedID(rows), nil
}

// MarkRead advances the user's cursor for the room to upToMessageID. The
// id must reference a message that exists in that room; the advance is
// monotonic, so a stale id is a no-op rather than a rollback.
func (s *MessageService) MarkRead(roomID uint, username string, upToMessageID uint) error {
	user, _, err := s.resolveMembership(roomID, username)
	if err != nil {
		return err
	}

	ok, err := s.messageRepo.IsMessageInRoom(upToMessageID, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMessageNotInRoom
	}

	if err := s.cursorRepo.AdvanceMonotonic(user.ID, roomID, upToMessageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return err
	}
	return nil
}

// UnreadCount counts messages in the room above the user's cursor from
// senders other than the user. A nil cursor counts every foreign message.
func (s *MessageService) UnreadCount(roomID uint, username string) (int64, error) {
	user, _, err := s.resolveMembership(roomID, username)
	if err != nil {
		return 0, err
	}

	cursor, err := s.cursorRepo.Get(user.ID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotMember
		}
		return 0, err
	}

	var after uint
	if cursor != nil {
		after = *cursor
	}
	return s.messageRepo.CountUnread(roomID, after, user.ID)
}

func (s *MessageService) resolveMembership(roomID uint, username string) (*models.User, *models.RoomUser, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotMember
		}
		return nil, nil, err
	}

	membership, err := s.roomRepo.FindMembership(user.ID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotMember
		}
		return nil, nil, err
	}
	return user, membership, nil
}

// AnnotateUnread marks each row unread when its id is above the cursor and
// the sender is not the viewer. A nil cursor means nothing has been read.
// The viewer's own messages are never unread for themself.
func AnnotateUnread(rows []repository.MessageRow, cursor *uint, viewerUsername string) []models.MessageView {
	var after uint
	if cursor != nil {
		after = *cursor
	}

	views := make([]models.MessageView, len(rows))
	for i, row := range rows {
		views[i] = models.MessageView{
			ID:             row.ID,
			RoomID:         row.RoomID,
			SenderUsername: row.SenderUsername,
			Text:           row.Text,
			SentAt:         row.SentAt,
			Unread:         row.ID > after && row.SenderUsername != viewerUsername,
		}
	}
	return views
}

// MaxObservedID returns the highest message id in the rows, 0 when empty.
func MaxObservedID(rows []repository.MessageRow) uint {
	var maxID uint
	for _, row := range rows {
		if row.ID > maxID {
			maxID = row.ID
		}
	}
	return maxID
}
