package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/service"
	"github.com/staffroom/logbook-api/internal/utils"
)

// ProfileHandler exposes the caller's own profile.
type ProfileHandler struct {
	profiles service.ProfileService
	logger   zerolog.Logger
}

// NewProfileHandler constructs the profile handler.
func NewProfileHandler(profiles service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register mounts the profile routes on the given router group.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/", h.Get)
	router.Put("/", h.Update)
}

// Get returns the authenticated user's profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	profile, err := h.profiles.Get(c.Context(), actor.ID)
	if err != nil {
		return h.sendProfileError(c, err)
	}
	return utils.SendSuccess(c, "profile retrieved", profile)
}

// Update patches the optional fields of the authenticated user's profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profiles.Update(c.Context(), actor.ID, req)
	if err != nil {
		return h.sendProfileError(c, err)
	}
	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *ProfileHandler) sendProfileError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user profile not found")
	case errors.Is(err, service.ErrInvalidAvatar):
		return utils.SendError(c, fiber.StatusBadRequest, "avatar must be a base64-encoded image")
	}

	h.logger.Error().Err(err).Msg("profile operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "profile operation failed")
}
