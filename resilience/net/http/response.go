package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// OK sends an HTTP 200 OK response with a custom body.
func OK(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusOK).JSON(s)
}

// ServiceUnavailable sends an HTTP 503 Service Unavailable response with a
// custom body.
func ServiceUnavailable(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusServiceUnavailable).JSON(s)
}
