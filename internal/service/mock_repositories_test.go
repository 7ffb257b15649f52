package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/repository"
	"gorm.io/gorm"
)

// MockUserRepository is an in-memory implementation of
// repository.UserRepositoryInterface for tests.
type MockUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) ListUsernames(excludeUsername string) ([]string, error) {
	var usernames []string
	for _, user := range m.users {
		if user.Username != excludeUsername {
			usernames = append(usernames, user.Username)
		}
	}
	sort.Strings(usernames)
	return usernames, nil
}

// MockRoomRepository is an in-memory implementation of
// repository.RoomRepositoryInterface. Membership rows get surrogate ids the
// same way the real schema does, since messages reference them.
type MockRoomRepository struct {
	rooms            map[uint]*models.Room
	memberships      map[uint]*models.RoomUser
	nextRoomID       uint
	nextMembershipID uint
}

func NewMockRoomRepository() *MockRoomRepository {
	return &MockRoomRepository{
		rooms:            make(map[uint]*models.Room),
		memberships:      make(map[uint]*models.RoomUser),
		nextRoomID:       1,
		nextMembershipID: 1,
	}
}

func (m *MockRoomRepository) CreateWithCreator(room *models.Room, creatorID uint) error {
	if room.ID == 0 {
		room.ID = m.nextRoomID
		m.nextRoomID++
	}
	room.StartedAt = time.Now()
	m.rooms[room.ID] = room
	return m.AddMember(room.ID, creatorID)
}

func (m *MockRoomRepository) FindByID(id uint) (*models.Room, error) {
	if room, ok := m.rooms[id]; ok {
		return room, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRoomRepository) AddMember(roomID, userID uint) error {
	for _, membership := range m.memberships {
		if membership.RoomID == roomID && membership.UserID == userID {
			return fmt.Errorf("duplicate membership for user %d in room %d", userID, roomID)
		}
	}
	membership := &models.RoomUser{
		ID:       m.nextMembershipID,
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	m.nextMembershipID++
	m.memberships[membership.ID] = membership
	return nil
}

func (m *MockRoomRepository) FindMembership(userID, roomID uint) (*models.RoomUser, error) {
	for _, membership := range m.memberships {
		if membership.UserID == userID && membership.RoomID == roomID {
			return membership, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRoomRepository) IsMember(roomID, userID uint) (bool, error) {
	_, err := m.FindMembership(userID, roomID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *MockRoomRepository) GetMembers(roomID uint) ([]models.User, error) {
	var members []models.User
	for _, membership := range m.memberships {
		if membership.RoomID == roomID {
			members = append(members, models.User{ID: membership.UserID})
		}
	}
	return members, nil
}

func (m *MockRoomRepository) ListRoomSummaries(userID uint) ([]repository.RoomSummaryRow, error) {
	var rows []repository.RoomSummaryRow
	for _, membership := range m.memberships {
		if membership.UserID != userID {
			continue
		}
		room := m.rooms[membership.RoomID]
		if room == nil {
			continue
		}
		var memberCount int64
		for _, other := range m.memberships {
			if other.RoomID == room.ID {
				memberCount++
			}
		}
		rows = append(rows, repository.RoomSummaryRow{
			RoomID:      room.ID,
			RoomName:    room.Name,
			MemberCount: memberCount,
		})
	}
	return rows, nil
}

// MockMessageRepository is an in-memory implementation of
// repository.MessageRepositoryInterface. It shares the room and user mocks
// so ListByRoom can join sender information the way the SQL does.
type MockMessageRepository struct {
	messages map[uint]*models.Message
	roomRepo *MockRoomRepository
	userRepo *MockUserRepository
	nextID   uint
}

func NewMockMessageRepository(roomRepo *MockRoomRepository, userRepo *MockUserRepository) *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		roomRepo: roomRepo,
		userRepo: userRepo,
		nextID:   1,
	}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now()
	}
	m.messages[message.ID] = message
	return nil
}

func (m *MockMessageRepository) roomOf(message *models.Message) (uint, uint) {
	membership, ok := m.roomRepo.memberships[message.RoomUserID]
	if !ok {
		return 0, 0
	}
	return membership.RoomID, membership.UserID
}

func (m *MockMessageRepository) ListByRoom(roomID uint) ([]repository.MessageRow, error) {
	var rows []repository.MessageRow
	for _, message := range m.messages {
		msgRoomID, senderID := m.roomOf(message)
		if msgRoomID != roomID {
			continue
		}
		var senderUsername string
		if sender, ok := m.userRepo.users[senderID]; ok {
			senderUsername = sender.Username
		}
		rows = append(rows, repository.MessageRow{
			ID:             message.ID,
			RoomID:         msgRoomID,
			SenderUserID:   senderID,
			SenderUsername: senderUsername,
			Text:           message.Text,
			SentAt:         message.SentAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SentAt.Equal(rows[j].SentAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].SentAt.Before(rows[j].SentAt)
	})
	return rows, nil
}

func (m *MockMessageRepository) MaxMessageID(roomID uint) (uint, error) {
	var maxID uint
	for _, message := range m.messages {
		msgRoomID, _ := m.roomOf(message)
		if msgRoomID == roomID && message.ID > maxID {
			maxID = message.ID
		}
	}
	return maxID, nil
}

func (m *MockMessageRepository) CountUnread(roomID uint, afterMessageID uint, excludeUserID uint) (int64, error) {
	var count int64
	for _, message := range m.messages {
		msgRoomID, senderID := m.roomOf(message)
		if msgRoomID == roomID && message.ID > afterMessageID && senderID != excludeUserID {
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) IsMessageInRoom(messageID, roomID uint) (bool, error) {
	message, ok := m.messages[messageID]
	if !ok {
		return false, nil
	}
	msgRoomID, _ := m.roomOf(message)
	return msgRoomID == roomID, nil
}

// MockReadCursorRepository is an in-memory implementation of
// repository.ReadCursorRepositoryInterface with the same monotonic
// semantics as the GREATEST upsert.
type MockReadCursorRepository struct {
	cursors  map[string]uint
	roomRepo *MockRoomRepository
}

func NewMockReadCursorRepository(roomRepo *MockRoomRepository) *MockReadCursorRepository {
	return &MockReadCursorRepository{
		cursors:  make(map[string]uint),
		roomRepo: roomRepo,
	}
}

func cursorKey(userID, roomID uint) string {
	return fmt.Sprintf("%d:%d", userID, roomID)
}

func (m *MockReadCursorRepository) Get(userID, roomID uint) (*uint, error) {
	if _, err := m.roomRepo.FindMembership(userID, roomID); err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	if cursor, ok := m.cursors[cursorKey(userID, roomID)]; ok {
		c := cursor
		return &c, nil
	}
	return nil, nil
}

func (m *MockReadCursorRepository) AdvanceMonotonic(userID, roomID uint, messageID uint) error {
	if _, err := m.roomRepo.FindMembership(userID, roomID); err != nil {
		return gorm.ErrRecordNotFound
	}
	key := cursorKey(userID, roomID)
	if current, ok := m.cursors[key]; !ok || messageID > current {
		m.cursors[key] = messageID
	}
	return nil
}
