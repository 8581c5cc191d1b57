package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cleanandchecked/backend/database"
	"github.com/cleanandchecked/backend/middleware"
	"github.com/cleanandchecked/backend/models"
)

// GetMe returns the signed-in account's profile.
func GetMe(c *fiber.Ctx) error {
	type UserResponse struct {
		Email    string `json:"email"`
		FullName string `json:"name"`
		Provider string `json:"provider"`
	}

	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "No user found with ID",
				"data":    nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
			"data":    nil,
		})
	}

	userResponse := UserResponse{
		Email:    user.Email,
		FullName: user.FullName,
		Provider: user.Provider,
	}

	return c.JSON(fiber.Map{"status": "success", "message": "User found", "data": userResponse})
}
