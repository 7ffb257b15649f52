package handlers

import (
	"errors"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/cache"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/httpx"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/service"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	messageService *service.MessageService
	roomService    *service.RoomService
	roomCache      *cache.RoomCache
}

func NewMessageHandler(messageService *service.MessageService, roomService *service.RoomService, roomCache *cache.RoomCache) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		roomService:    roomService,
		roomCache:      roomCache,
	}
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type MarkReadRequest struct {
	UpToMessageID uint `json:"up_to_message_id"`
}

// GetRoomMessages returns the room's messages annotated with the viewer's
// unread flags, then advances the viewer's cursor to the highest message id
// in the returned page. Advancing to the observed max rather than the
// room's current max keeps a message that lands mid-request unread.
func (h *MessageHandler) GetRoomMessages(c *fiber.Ctx) error {
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
		// Fail closed and explicitly; an empty list would be
		// indistinguishable from a room with no messages.
		return httpx.Forbidden(c, "not_a_member", "You are not a member of this room")
	}

	rows, ok := h.roomCache.GetRoomMessages(roomID)
	if !ok {
		rows, err = h.messageService.RoomMessageRows(roomID)
		if err != nil {
			return httpx.Internal(c, "fetch_messages_failed")
		}
		if len(rows) > 0 {
			_ = h.roomCache.SetRoomMessages(roomID, rows)
		}
	}

	views, maxSeen, err := h.messageService.AnnotateForViewer(roomID, username, rows)
	if err != nil {
		if errors.Is(err, service.ErrNotMember) {
			return httpx.Forbidden(c, "not_a_member", "You are not a member of this room")
		}
		return httpx.Internal(c, "fetch_messages_failed")
	}

	if maxSeen > 0 {
		if err := h.messageService.MarkRead(roomID, username, maxSeen); err != nil {
			return httpx.Internal(c, "advance_cursor_failed")
		}
	}

	return c.JSON(fiber.Map{
		"messages": views,
		"count":    len(views),
	})
}

func (h *MessageHandler) SendRoomMessage(c *fiber.Ctx) error {
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

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	req.Text = validation.TrimAndLimit(req.Text, validation.MaxMessageLength())
	if req.Text == "" {
		return httpx.BadRequest(c, "missing_text", "Text is required")
	}

	view, err := h.messageService.Send(roomID, username, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrNotMember) {
			return httpx.Forbidden(c, "not_a_member", "You are not a member of this room")
		}
		return httpx.Internal(c, "send_message_failed")
	}

	_ = h.roomCache.InvalidateRoomMessages(roomID)

	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *MessageHandler) MarkRoomRead(c *fiber.Ctx) error {
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

	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if req.UpToMessageID == 0 {
		return httpx.BadRequest(c, "missing_message_id", "up_to_message_id is required")
	}

	if err := h.messageService.MarkRead(roomID, username, req.UpToMessageID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotMember):
			return httpx.Forbidden(c, "not_a_member", "You are not a member of this room")
		case errors.Is(err, service.ErrMessageNotInRoom):
			return httpx.BadRequest(c, "message_not_in_room", "Message does not belong to this room")
		}
		return httpx.Internal(c, "advance_cursor_failed")
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
