package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/service"
)

// actorFromContext builds the acting identity from the claims bound by the
// JWT middleware. The display name is resolved lazily by handlers that
// need it.
func actorFromContext(c *fiber.Ctx) (service.Actor, bool) {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(string)
	if userID == "" || role == "" {
		return service.Actor{}, false
	}
	return service.Actor{ID: userID, Role: models.Role(role)}, true
}

func isValidationError(err error) bool {
	var vErrs validator.ValidationErrors
	return errors.As(err, &vErrs)
}
