package handlers

import (
	"errors"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/httpx"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/service"
	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Username = validation.NormalizeUsername(input.Username)
	input.Email = validation.NormalizeEmail(input.Email)

	if !validation.ValidateUsername(input.Username) {
		return httpx.BadRequest(c, "invalid_username", "Invalid username")
	}
	if !validation.ValidateEmail(input.Email) {
		return httpx.BadRequest(c, "invalid_email", "Invalid email")
	}
	if !validation.ValidatePassword(input.Password) {
		return httpx.BadRequest(c, "invalid_password", "Password is too short")
	}

	result, err := h.authService.Register(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return httpx.BadRequest(c, "email_taken", "Email already exists")
		case errors.Is(err, service.ErrUsernameTaken):
			return httpx.BadRequest(c, "username_taken", "Username already exists")
		}
		return httpx.Internal(c, "register_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	input.Username = validation.NormalizeUsername(input.Username)
	if input.Username == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_credentials", "Username and password are required")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return httpx.Unauthorized(c, "invalid_credentials", "Invalid username/password combination")
		}
		return httpx.Internal(c, "login_failed")
	}

	return c.JSON(result)
}
