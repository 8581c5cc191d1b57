package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoAnalysis is the result of one analysis request as returned by the
// analyze function. Immutable once decoded.
type PhotoAnalysis struct {
	Title          string               `json:"title"`
	Score          int                  `json:"score"`
	Ingredients    []IngredientAnalysis `json:"ingredients"`
	OverallSources []string             `json:"overallSources"`
}

// IngredientAnalysis is a single ingredient verdict. The ID is generated
// locally for list identity and is not part of the wire format.
type IngredientAnalysis struct {
	ID          uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	IsHealthy   bool      `json:"isHealthy"`
	Explanation string    `json:"explanation"`
	Sources     []string  `json:"sources"`
}

func (i *IngredientAnalysis) UnmarshalJSON(data []byte) error {
	type wire IngredientAnalysis
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*i = IngredientAnalysis(w)
	i.ID = uuid.New()
	return nil
}

// AnalysisItem is a persisted history record in its wire shape. Timestamp is
// raw seconds since epoch.
type AnalysisItem struct {
	ID          string               `json:"id,omitempty"`
	ImageURL    string               `json:"imageURL"`
	Title       string               `json:"title"`
	Score       *int                 `json:"score,omitempty"`
	Ingredients []IngredientAnalysis `json:"ingredients"`
	Timestamp   int64                `json:"timestamp"`
}

// Analysis is the stored copy of a completed analysis. It is created once as
// a side effect of a successful analyze run and never updated afterwards.
// Source URLs are deliberately not persisted.
type Analysis struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"not null;index"`
	ImageURL  string `json:"image_url" gorm:"not null"`
	Title     string `json:"title" gorm:"not null"`
	Score     *int   `json:"score"`
	Timestamp int64  `json:"timestamp" gorm:"not null;index"`

	Ingredients []AnalysisIngredient `json:"ingredients" gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE"`

	// Relationship
	User User `gorm:"foreignKey:UserID" json:"user"`
}

type AnalysisIngredient struct {
	gorm.Model
	AnalysisID  uint   `json:"analysis_id" gorm:"not null;index"`
	Position    int    `json:"position" gorm:"not null"`
	Name        string `json:"name" gorm:"not null"`
	IsHealthy   bool   `json:"is_healthy"`
	Explanation string `json:"explanation" gorm:"type:text"`
}

// NewAnalysisRecord builds the stored copy of an analysis result. The
// timestamp is assigned server-side at creation time.
func NewAnalysisRecord(userID uint, imageURL string, analysis PhotoAnalysis) Analysis {
	score := analysis.Score
	record := Analysis{
		UserID:    userID,
		ImageURL:  imageURL,
		Title:     analysis.Title,
		Score:     &score,
		Timestamp: time.Now().Unix(),
	}
	for pos, ing := range analysis.Ingredients {
		record.Ingredients = append(record.Ingredients, AnalysisIngredient{
			Position:    pos,
			Name:        ing.Name,
			IsHealthy:   ing.IsHealthy,
			Explanation: ing.Explanation,
		})
	}
	return record
}

// Item converts a stored analysis to its wire shape. Persisted ingredients
// carry no sources, so the wire copy gets empty source lists.
func (a Analysis) Item() AnalysisItem {
	item := AnalysisItem{
		ID:          strconv.FormatUint(uint64(a.ID), 10),
		ImageURL:    a.ImageURL,
		Title:       a.Title,
		Score:       a.Score,
		Ingredients: make([]IngredientAnalysis, 0, len(a.Ingredients)),
		Timestamp:   a.Timestamp,
	}
	for _, ing := range a.Ingredients {
		item.Ingredients = append(item.Ingredients, IngredientAnalysis{
			ID:          uuid.New(),
			Name:        ing.Name,
			IsHealthy:   ing.IsHealthy,
			Explanation: ing.Explanation,
			Sources:     []string{},
		})
	}
	return item
}
