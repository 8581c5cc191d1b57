package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Hello serves the unauthenticated surface: no identity, no persistence.
func Hello(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Clean and Checked API",
		"data":    nil,
	})
}
