package http

import (
	"github.com/LerianStudio/lib-resilience/resilience/circuitbreaker"
	"github.com/gofiber/fiber/v2"
)

// Ping returns HTTP Status 200 with response "pong".
func Ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Health returns a handler reporting circuit breaker health. It responds
// 200 with per-service breaker metrics while every breaker is CLOSED, and
// 503 with the unhealthy services and their reasons otherwise.
func Health(manager circuitbreaker.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unhealthy := manager.UnhealthyServices()

		if len(unhealthy) > 0 {
			return ServiceUnavailable(c, fiber.Map{
				"status":   "degraded",
				"services": unhealthy,
			})
		}

		return OK(c, fiber.Map{
			"status":   "available",
			"services": manager.Snapshot(),
		})
	}
}
