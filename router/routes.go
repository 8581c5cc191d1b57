package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	handler "github.com/cleanandchecked/backend/handlers"
	"github.com/cleanandchecked/backend/middleware"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())

	// Public routes: what anonymous browsing gets to see.
	api.Get("/hello", handler.Hello)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Delete("/account", middleware.AuthMiddleware(), handler.DeleteAccount)

	// User
	user := api.Group("/user", middleware.AuthMiddleware())
	user.Get("/me", handler.GetMe)

	// Analysis pipeline + history
	api.Post("/analyze", middleware.AuthMiddleware(), handler.AnalyzePhoto)
	history := api.Group("/history", middleware.AuthMiddleware())
	history.Get("/", handler.GetHistory)
	history.Get("/:id", handler.GetHistoryItem)
}
