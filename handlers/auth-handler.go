package handler

import (
	"log"
	"strconv"
	"time"

	"github.com/go-pkgz/auth/v2/token"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cleanandchecked/backend/auth"
	"github.com/cleanandchecked/backend/database"
	"github.com/cleanandchecked/backend/middleware"
	"github.com/cleanandchecked/backend/models"
)

// Account deletion is permanent: rows go for real so the same provider
// identity can sign up again later.
var deleteUserData = func(userID uint) error {
	return database.GetDB().Unscoped().Where("user_id = ?", userID).Delete(&models.Analysis{}).Error
}

var deleteUser = func(userID uint) error {
	return database.GetDB().Unscoped().Delete(&models.User{}, userID).Error
}

// Login exchanges an identity-provider credential for a backend session token
// and upserts the profile record.
func Login(c *fiber.Ctx) error {
	type LoginData struct {
		Provider   string `json:"provider"`
		Credential string `json:"credential"`
		// Apple only discloses the display name on the very first sign-in;
		// the client forwards it here so the profile still gets one.
		Name string `json:"name"`
	}

	type UserResponse struct {
		ID       uint   `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"name"`
		Token    string `json:"token"`
	}

	input := new(LoginData)
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"status":  "error",
			"data":    nil,
		})
	}

	idProvider, err := auth.LookupProvider(input.Provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported sign-in provider",
			"status":  "error",
			"data":    nil,
		})
	}

	ident, err := idProvider.Verify(c.Context(), input.Credential)
	if err != nil {
		log.Printf("Sign-in with %s failed: %v", idProvider.Name(), err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": err.Error(),
			"status":  "error",
			"data":    nil,
		})
	}

	if ident.Name == "" {
		ident.Name = input.Name
	}

	userModel, err := auth.UpsertProfile(idProvider.Name(), ident)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Database error",
			"status":  "error",
			"data":    nil,
		})
	}

	// Create JWT token using go-pkgz/auth
	authService := auth.GetAuthService()
	user := token.User{
		ID:    strconv.FormatUint(uint64(userModel.ID), 10),
		Name:  userModel.FullName,
		Email: userModel.Email,
		Attributes: map[string]interface{}{
			"provider": idProvider.Name(),
		},
	}

	claims := token.Claims{
		User: &user,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    authService.TokenService().Issuer,
			Audience:  []string{"cleanandchecked"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// Generate JWT token
	tokenStr, err := authService.TokenService().Token(claims)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate token",
			"status":  "error",
			"data":    nil,
		})
	}

	// Set JWT cookie (optional, for web clients)
	c.Cookie(&fiber.Cookie{
		Name:     "JWT",
		Value:    tokenStr,
		Expires:  time.Now().Add(time.Hour * 24 * 7),
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
	})

	response := UserResponse{
		ID:       userModel.ID,
		Email:    userModel.Email,
		FullName: userModel.FullName,
		Token:    tokenStr,
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"status":  "success",
		"data":    response,
	})
}

func Logout(c *fiber.Ctx) error {
	// Clear JWT cookie
	c.Cookie(&fiber.Cookie{
		Name:     "JWT",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logout successful",
		"status":  "success",
		"data":    nil,
	})
}

// DeleteAccount removes the account's history and then the account itself.
// There is no compensation when the second phase fails: the history is
// already gone by then.
func DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	if err := deleteUserData(userID); err != nil {
		log.Printf("Error deleting data for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to delete account data",
			"data":    nil,
		})
	}

	if err := deleteUser(userID); err != nil {
		log.Printf("Error deleting account %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to delete account",
			"data":    nil,
		})
	}

	// Clear JWT cookie
	c.Cookie(&fiber.Cookie{
		Name:     "JWT",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Account deleted successfully",
		"data":    nil,
	})
}
