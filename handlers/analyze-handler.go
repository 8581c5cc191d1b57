package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/cleanandchecked/backend/database"
	"github.com/cleanandchecked/backend/middleware"
	"github.com/cleanandchecked/backend/models"
	"github.com/cleanandchecked/backend/storage"
)

// PhotoUploader stores photo bytes and returns a public retrieval URL.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, accountID string, data []byte) (string, error)
}

// AnalysisClient sends an image URL to the analyze function.
type AnalysisClient interface {
	Analyze(ctx context.Context, imageURL string) (*models.PhotoAnalysis, error)
}

// Collaborators are wired once from main. Tests swap them.
var (
	uploader PhotoUploader
	analysis AnalysisClient

	saveAnalysis = func(record *models.Analysis) error {
		return database.GetDB().Create(record).Error
	}
)

func Setup(u PhotoUploader, a AnalysisClient) {
	uploader = u
	analysis = a
}

// AnalyzePhoto runs one capture-to-result pass: receive the photo, normalize
// it, upload it, send the URL for analysis, store the history copy, return
// the result. Each step aborts the run on failure; only the history write is
// allowed to fail silently.
func AnalyzePhoto(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "No photo provided",
			"data":    nil,
		})
	}

	blobFile, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Error opening the file",
			"data":    nil,
		})
	}
	defer blobFile.Close()

	raw, err := io.ReadAll(blobFile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Error reading the file",
			"data":    nil,
		})
	}

	normalized, err := storage.NormalizeJPEG(raw)
	if err != nil {
		log.Printf("Rejecting photo from user %d: %v", userID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Could not read the captured photo",
			"data":    nil,
		})
	}

	imageURL, err := uploader.UploadPhoto(c.Context(), strconv.FormatUint(uint64(userID), 10), normalized)
	if err != nil {
		log.Printf("Error uploading image for user %d: %v", userID, err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, storage.ErrNotAuthenticated) {
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to upload the image. Please try again.",
			"data":    nil,
		})
	}

	result, err := analysis.Analyze(c.Context(), imageURL)
	if err != nil {
		// Network and decode failures are logged with full detail but the
		// caller gets one generic message either way.
		log.Printf("Analysis failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to analyze the image. Please try again.",
			"data":    nil,
		})
	}

	// History write failure never blocks the result the user is waiting on.
	record := models.NewAnalysisRecord(userID, imageURL, *result)
	if err := saveAnalysis(&record); err != nil {
		log.Printf("Error saving analysis for user %d: %v", userID, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Analysis complete",
		"data": fiber.Map{
			"analysis": result,
			"imageURL": imageURL,
		},
	})
}
