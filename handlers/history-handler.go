package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cleanandchecked/backend/database"
	"github.com/cleanandchecked/backend/middleware"
	"github.com/cleanandchecked/backend/models"
)

var fetchAnalyses = func(userID uint) ([]models.Analysis, error) {
	var records []models.Analysis
	err := database.GetDB().
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("analysis_ingredients.position ASC")
		}).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&records).Error
	return records, err
}

var fetchAnalysis = func(userID, id uint) (*models.Analysis, error) {
	var record models.Analysis
	err := database.GetDB().
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("analysis_ingredients.position ASC")
		}).
		Where("user_id = ?", userID).
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetHistory returns all of the account's analyses, newest first. A fetch
// error is logged and the caller just sees an empty list.
func GetHistory(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	records, err := fetchAnalyses(userID)
	if err != nil {
		log.Printf("Error fetching history for user %d: %v", userID, err)
		records = nil
	}

	items := make([]models.AnalysisItem, 0, len(records))
	for _, record := range records {
		items = append(items, record.Item())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "History fetched",
		"data":    items,
	})
}

// GetHistoryItem returns one history record in full, for the detail view.
func GetHistoryItem(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid analysis ID",
			"data":    nil,
		})
	}

	record, err := fetchAnalysis(userID, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "No analysis found with ID",
				"data":    nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
			"data":    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Analysis found",
		"data":    record.Item(),
	})
}
