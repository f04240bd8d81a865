package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffroom/logbook-api/internal/config"
	"github.com/staffroom/logbook-api/internal/utils"
)

// HealthCheck reports basic liveness for load balancers and probes.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "ok", fiber.Map{
			"app": cfg.AppName,
			"env": cfg.AppEnv,
		})
	}
}
