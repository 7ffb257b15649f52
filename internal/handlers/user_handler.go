package handlers

import (
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/httpx"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/service"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CheckUsername checks if a username is available
func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return httpx.BadRequest(c, "missing_username", "Username is required")
	}
	username = validation.NormalizeUsername(username)
	if !validation.ValidateUsername(username) {
		return httpx.BadRequest(c, "invalid_username", "Invalid username")
	}

	available, err := h.userService.IsUsernameAvailable(username)
	if err != nil {
		return httpx.Internal(c, "check_username_failed")
	}

	return c.JSON(fiber.Map{
		"available": available,
	})
}

// GetCurrentUser gets the authenticated user's profile
func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}

	return c.JSON(fiber.Map{
		"user": user.ToResponse(),
	})
}

// ListUsers returns every username except the caller's, for picking
// invitees when creating a room.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	username, err := httpx.LocalString(c, "username")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	usernames, err := h.userService.ListOtherUsernames(username)
	if err != nil {
		return httpx.Internal(c, "list_users_failed")
	}

	return c.JSON(fiber.Map{
		"usernames": usernames,
	})
}
