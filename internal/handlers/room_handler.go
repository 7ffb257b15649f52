package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/cache"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/httpx"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/service"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type RoomHandler struct {
	roomService *service.RoomService
	roomCache   *cache.RoomCache
}

func NewRoomHandler(roomService *service.RoomService, roomCache *cache.RoomCache) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		roomCache:   roomCache,
	}
}

type CreateRoomRequest struct {
	Name     string   `json:"name"`
	Invitees []string `json:"invitees"`
}

type lastMessageResponse struct {
	ID             uint      `json:"id"`
	Text           string    `json:"text"`
	SenderUsername string    `json:"sender_username"`
	SentAt         time.Time `json:"sent_datetime"`
}

type roomSummaryResponse struct {
	RoomID      uint                 `json:"room_id"`
	Name        string               `json:"name"`
	MemberCount int64                `json:"member_count"`
	UnreadCount int64                `json:"unread_count"`
	LastMessage *lastMessageResponse `json:"last_message"`
}

func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	username, err := httpx.LocalString(c, "username")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	req.Name = validation.TrimAndLimit(req.Name, validation.MaxRoomNameLength())
	if !validation.ValidateRoomName(req.Name) {
		return httpx.BadRequest(c, "invalid_room_name", "Room name is required")
	}

	room, invites, err := h.roomService.CreateRoom(req.Name, username, req.Invitees)
	if err != nil {
		if errors.Is(err, service.ErrCreatorNotFound) {
			return httpx.NotFound(c, "creator_not_found", "Creator not found")
		}
		return httpx.Internal(c, "create_room_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"room":    room.ToResponse(),
		"invites": invites,
	})
}

func (h *RoomHandler) GetMyRooms(c *fiber.Ctx) error {
	username, err := httpx.LocalString(c, "username")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	rows, err := h.roomService.RoomSummaries(username)
	if err != nil {
		return httpx.Internal(c, "fetch_rooms_failed")
	}

	summaries := make([]roomSummaryResponse, len(rows))
	for i, row := range rows {
		summary := roomSummaryResponse{
			RoomID:      row.RoomID,
			Name:        row.RoomName,
			MemberCount: row.MemberCount,
			UnreadCount: row.UnreadCount,
		}
		if row.LastMessageID != 0 && row.LastMessageAt != nil {
			summary.LastMessage = &lastMessageResponse{
				ID:             row.LastMessageID,
				Text:           row.LastMessageText,
				SenderUsername: row.LastSenderUsername,
				SentAt:         *row.LastMessageAt,
			}
		}
		summaries[i] = summary
	}

	return c.JSON(fiber.Map{
		"rooms": summaries,
		"count": len(summaries),
	})
}

func (h *RoomHandler) GetRoomMembers(c *fiber.Ctx) error {
	username, err := httpx.LocalString(c, "username")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	roomID, err := parseRoomID(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_room_id", "Invalid room ID")
	}

	isMember, err := h.roomService.IsMember(username, roomID)
	if err != nil {
		return httpx.Internal(c, "membership_check_failed")
	}
	if !isMember {
		return httpx.Forbidden(c, "not_a_member", "You are not a member of this room")
	}

	if cached, ok := h.roomCache.GetMembers(roomID); ok {
		return c.JSON(fiber.Map{"members": cached})
	}

	members, err := h.roomService.GetMembers(roomID)
	if err != nil {
		return httpx.Internal(c, "fetch_members_failed")
	}

	usernames := make([]string, len(members))
	for i, member := range members {
		usernames[i] = member.Username
	}
	_ = h.roomCache.SetMembers(roomID, usernames)

	return c.JSON(fiber.Map{"members": usernames})
}

func parseRoomID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
