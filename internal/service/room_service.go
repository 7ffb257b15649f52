package service

import (
	"errors"
	"log"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/repository"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/validation"
	"gorm.io/gorm"
)

type RoomService struct {
	roomRepo repository.RoomRepositoryInterface
	userRepo repository.UserRepositoryInterface
}

func NewRoomService(roomRepo repository.RoomRepositoryInterface, userRepo repository.UserRepositoryInterface) *RoomService {
	return &RoomService{
		roomRepo: roomRepo,
		userRepo: userRepo,
	}
}

type InviteStatus string

const (
	InviteAdded    InviteStatus = "added"
	InviteNotFound InviteStatus = "not_found"
	InviteFailed   InviteStatus = "failed"
)

// InviteResult is the per-invitee outcome of room creation. Unresolvable
// usernames never fail the operation as a whole.
type InviteResult struct {
	Username string       `json:"username"`
	Status   InviteStatus `json:"status"`
}

// CreateRoom creates the room and the creator's membership atomically, then
// attaches each invitee best-effort. A typo'd invitee is skipped and
// reported as not_found; only an unresolvable creator aborts the operation.
func (s *RoomService) CreateRoom(name, creatorUsername string, invitees []string) (*models.Room, []InviteResult, error) {
	creator, err := s.userRepo.FindByUsername(creatorUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCreatorNotFound
		}
		return nil, nil, err
	}

	room := &models.Room{Name: name}
	if err := s.roomRepo.CreateWithCreator(room, creator.ID); err != nil {
		return nil, nil, err
	}

	results := make([]InviteResult, 0, len(invitees))
	seen := map[string]bool{creator.Username: true}
	for _, username := range invitees {
		username = validation.NormalizeUsername(username)
		if username == "" || seen[username] {
			continue
		}
		seen[username] = true

		user, err := s.userRepo.FindByUsername(username)
		if err != nil {
			log.Printf("createRoom %d: skipping unknown invitee %q", room.ID, username)
			results = append(results, InviteResult{Username: username, Status: InviteNotFound})
			continue
		}

		if err := s.roomRepo.AddMember(room.ID, user.ID); err != nil {
			log.Printf("createRoom %d: failed to add invitee %q: %v", room.ID, username, err)
			results = append(results, InviteResult{Username: username, Status: InviteFailed})
			continue
		}

		results = append(results, InviteResult{Username: username, Status: InviteAdded})
	}

	return room, results, nil
}

// IsMember reports whether the user belongs to the room. An unknown
// username is simply not a member; no error escapes for that case.
func (s *RoomService) IsMember(username string, roomID uint) (bool, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.roomRepo.IsMember(roomID, user.ID)
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	return s.roomRepo.FindByID(roomID)
}

func (s *RoomService) GetMembers(roomID uint) ([]models.User, error) {
	return s.roomRepo.GetMembers(roomID)
}

// RoomSummaries returns the room list view data for a user: per room the
// name, member count, last message, and unread badge count. An unknown
// username degrades to an empty list.
func (s *RoomService) RoomSummaries(username string) ([]repository.RoomSummaryRow, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []repository.RoomSummaryRow{}, nil
		}
		return nil, err
	}

	rows, err := s.roomRepo.ListRoomSummaries(user.ID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.RoomSummaryRow{}
	}
	return rows, nil
}
