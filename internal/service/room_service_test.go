package service

import (
	"errors"
	"testing"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/models"
)

func newRoomServiceFixture() (*RoomService, *MockUserRepository, *MockRoomRepository) {
	userRepo := NewMockUserRepository()
	roomRepo := NewMockRoomRepository()
	return NewRoomService(roomRepo, userRepo), userRepo, roomRepo
}

func seedUser(repo *MockUserRepository, id uint, username string) *models.User {
	user := &models.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
	}
	repo.Create(user)
	return user
}

func TestCreateRoomSkipsUnknownInvitees(t *testing.T) {
	svc, userRepo, roomRepo := newRoomServiceFixture()
	alice := seedUser(userRepo, 1, "alice")
	bob := seedUser(userRepo, 2, "bob")

	room, invites, err := svc.CreateRoom("Team", "alice", []string{"bob", "nosuchuser"})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if room == nil || room.ID == 0 {
		t.Fatalf("CreateRoom did not persist a room")
	}

	wantStatuses := map[string]InviteStatus{
		"bob":        InviteAdded,
		"nosuchuser": InviteNotFound,
	}
	if len(invites) != len(wantStatuses) {
		t.Fatalf("CreateRoom returned %d invite results, want %d", len(invites), len(wantStatuses))
	}
	for _, invite := range invites {
		want, ok := wantStatuses[invite.Username]
		if !ok {
			t.Errorf("unexpected invite result for %q", invite.Username)
			continue
		}
		if invite.Status != want {
			t.Errorf("invite status for %q = %q, want %q", invite.Username, invite.Status, want)
		}
	}

	for _, tc := range []struct {
		userID uint
		want   bool
	}{
		{alice.ID, true},
		{bob.ID, true},
		{99, false},
	} {
		isMember, _ := roomRepo.IsMember(room.ID, tc.userID)
		if isMember != tc.want {
			t.Errorf("IsMember(room %d, user %d) = %v, want %v", room.ID, tc.userID, isMember, tc.want)
		}
	}
}

func TestCreateRoomCreatorNotFound(t *testing.T) {
	svc, _, roomRepo := newRoomServiceFixture()

	_, _, err := svc.CreateRoom("Team", "ghost", []string{"bob"})
	if !errors.Is(err, ErrCreatorNotFound) {
		t.Fatalf("CreateRoom error = %v, want ErrCreatorNotFound", err)
	}
	if len(roomRepo.rooms) != 0 {
		t.Errorf("CreateRoom persisted %d rooms despite unknown creator", len(roomRepo.rooms))
	}
}

func TestCreateRoomDeduplicatesInvitees(t *testing.T) {
	svc, userRepo, _ := newRoomServiceFixture()
	seedUser(userRepo, 1, "alice")
	seedUser(userRepo, 2, "bob")

	// The creator listed as an invitee and a repeated invitee are both skipped
	_, invites, err := svc.CreateRoom("Team", "alice", []string{"alice", "bob", "bob", " "})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if len(invites) != 1 {
		t.Fatalf("CreateRoom returned %d invite results, want 1: %+v", len(invites), invites)
	}
	if invites[0].Username != "bob" || invites[0].Status != InviteAdded {
		t.Errorf("invite result = %+v, want bob/added", invites[0])
	}
}

func TestIsMember(t *testing.T) {
	svc, userRepo, roomRepo := newRoomServiceFixture()
	alice := seedUser(userRepo, 1, "alice")
	seedUser(userRepo, 2, "bob")

	room := &models.Room{Name: "Team"}
	if err := roomRepo.CreateWithCreator(room, alice.ID); err != nil {
		t.Fatalf("CreateWithCreator: %v", err)
	}

	tests := []struct {
		name     string
		username string
		roomID   uint
		want     bool
	}{
		{"Member", "alice", room.ID, true},
		{"Registered non-member", "bob", room.ID, false},
		{"Unknown user", "ghost", room.ID, false},
		{"Unknown room", "alice", 999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsMember(tt.username, tt.roomID)
			if err != nil {
				t.Fatalf("IsMember(%q, %d) error = %v", tt.username, tt.roomID, err)
			}
			if got != tt.want {
				t.Errorf("IsMember(%q, %d) = %v, want %v", tt.username, tt.roomID, got, tt.want)
			}
		})
	}
}

func TestRoomSummariesUnknownUser(t *testing.T) {
	svc, _, _ := newRoomServiceFixture()

	rows, err := svc.RoomSummaries("ghost")
	if err != nil {
		t.Fatalf("RoomSummaries returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("RoomSummaries for unknown user returned %d rows, want 0", len(rows))
	}
}

func TestRoomSummariesListsMemberRooms(t *testing.T) {
	svc, userRepo, roomRepo := newRoomServiceFixture()
	alice := seedUser(userRepo, 1, "alice")
	bob := seedUser(userRepo, 2, "bob")

	teamRoom := &models.Room{Name: "Team"}
	roomRepo.CreateWithCreator(teamRoom, alice.ID)
	roomRepo.AddMember(teamRoom.ID, bob.ID)

	soloRoom := &models.Room{Name: "Solo"}
	roomRepo.CreateWithCreator(soloRoom, bob.ID)

	rows, err := svc.RoomSummaries("alice")
	if err != nil {
		t.Fatalf("RoomSummaries returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("RoomSummaries returned %d rows, want 1", len(rows))
	}
	if rows[0].RoomID != teamRoom.ID || rows[0].MemberCount != 2 {
		t.Errorf("RoomSummaries row = %+v, want room %d with 2 members", rows[0], teamRoom.ID)
	}
}
