package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/service"
	"github.com/staffroom/logbook-api/internal/utils"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth   service.AuthService
	logger zerolog.Logger
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(auth service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register mounts the auth routes on the given router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/challenge", h.Challenge)
	router.Post("/register", h.SignUp)
	router.Post("/login", h.Login)
	router.Post("/oauth", h.OAuthLogin)
	router.Post("/forgot-password", h.ForgotPassword)
	router.Post("/resend-verification", h.ResendVerification)
}

// Challenge issues a fresh arithmetic challenge for the auth forms.
func (h *AuthHandler) Challenge(c *fiber.Ctx) error {
	challenge, err := h.auth.Challenge(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue challenge")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to issue challenge")
	}
	return utils.SendSuccess(c, "challenge issued", challenge)
}

// SignUp registers a new account and provisions its local profile.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.Register(c.Context(), req)
	if err != nil {
		return h.sendAuthError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created, verification email sent", user)
}

// Login exchanges credentials for an API token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.auth.Login(c.Context(), req)
	if err != nil {
		return h.sendAuthError(c, err)
	}
	return utils.SendSuccess(c, "login successful", resp)
}

// OAuthLogin exchanges a federated identity token for an API token.
func (h *AuthHandler) OAuthLogin(c *fiber.Ctx) error {
	var req dto.OAuthLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.auth.OAuthLogin(c.Context(), req)
	if err != nil {
		return h.sendAuthError(c, err)
	}
	return utils.SendSuccess(c, "login successful", resp)
}

// ForgotPassword triggers a password-reset email.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.ForgotPassword(c.Context(), req); err != nil {
		return h.sendAuthError(c, err)
	}
	return utils.SendSuccess(c, "password reset email sent", nil)
}

// ResendVerification requests a fresh verification email.
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.ResendVerification(c.Context(), req); err != nil {
		return h.sendAuthError(c, err)
	}
	return utils.SendSuccess(c, "verification email sent", nil)
}

func (h *AuthHandler) sendAuthError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+err.Error())
	case errors.Is(err, service.ErrChallengeFailed):
		return utils.SendError(c, fiber.StatusBadRequest, "challenge answer is wrong or expired")
	case errors.Is(err, service.ErrEmailNotVerified):
		return utils.SendError(c, fiber.StatusUnauthorized, "Please verify your email address before logging in.")
	case errors.Is(err, service.ErrRoleMismatch):
		return utils.SendError(c, fiber.StatusUnauthorized, "Incorrect role selected for this account.")
	}

	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		return utils.SendError(c, fiber.StatusUnauthorized, authErr.Message)
	}

	h.logger.Error().Err(err).Msg("auth operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "authentication failed")
}
