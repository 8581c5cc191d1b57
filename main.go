package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/cleanandchecked/backend/analyzer"
	"github.com/cleanandchecked/backend/auth"
	"github.com/cleanandchecked/backend/config"
	"github.com/cleanandchecked/backend/database"
	handler "github.com/cleanandchecked/backend/handlers"
	"github.com/cleanandchecked/backend/models"
	"github.com/cleanandchecked/backend/router"
	"github.com/cleanandchecked/backend/storage"
)

func main() {
	_ = database.GetDB()

	// Run migrations
	err := database.MigrateModels(&models.User{}, &models.Analysis{}, &models.AnalysisIngredient{})
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// close the database connection
	defer func() {
		if err := database.CloseDB(); err != nil {
			log.Printf("Error closing the database connection: %v", err)
		}
	}()

	auth.SetupAuthService()
	auth.SetupProviders()

	uploader, err := storage.NewClientUploader(context.Background(),
		config.Config("GCS_PROJECT_ID"),
		config.Config("GCS_BUCKET_NAME"),
	)
	if err != nil {
		log.Fatalf("Failed to create uploader: %v", err)
	}
	defer uploader.Close()

	analysisClient := analyzer.New(config.Config("ANALYZE_FUNCTION_URL"))
	handler.Setup(uploader, analysisClient)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // phone photos
	})
	router.SetupRoutes(app)

	fmt.Println("Server is listening at the port 3000")
	log.Fatal(app.Listen(":3000"))
}
