package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestIngredientListRoundTrip(t *testing.T) {
	wire := `[{"name":"Sugar","isHealthy":false,"explanation":"High glycemic impact","sources":["https://example.com/sugar"]},{"name":"Oats","isHealthy":true,"explanation":"Whole grain","sources":[]}]`

	var ingredients []IngredientAnalysis
	if err := json.Unmarshal([]byte(wire), &ingredients); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	if len(ingredients) != 2 {
		t.Fatalf("len = %d, want 2", len(ingredients))
	}
	for i, ing := range ingredients {
		if ing.ID == uuid.Nil {
			t.Errorf("ingredient %d got no local id on decode", i)
		}
	}

	encoded, err := json.Marshal(ingredients)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	// The local id never leaves the process.
	if strings.Contains(string(encoded), ingredients[0].ID.String()) {
		t.Errorf("local id leaked into wire output: %s", encoded)
	}

	var again []IngredientAnalysis
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("re-decoding: %v", err)
	}
	for i := range ingredients {
		a, b := ingredients[i], again[i]
		if a.Name != b.Name || a.IsHealthy != b.IsHealthy || a.Explanation != b.Explanation || !reflect.DeepEqual(a.Sources, b.Sources) {
			t.Errorf("wire fields changed across round trip: %+v vs %+v", a, b)
		}
	}
}

func TestPhotoAnalysisDecode(t *testing.T) {
	wire := `{"title":"Snack Bar","score":72,"ingredients":[{"name":"Sugar","isHealthy":false,"explanation":"High glycemic impact","sources":["https://example.com/sugar"]}],"overallSources":["https://example.com"]}`

	var analysis PhotoAnalysis
	if err := json.Unmarshal([]byte(wire), &analysis); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	if analysis.Title != "Snack Bar" || analysis.Score != 72 {
		t.Errorf("got title %q score %d", analysis.Title, analysis.Score)
	}
	if len(analysis.Ingredients) != 1 || analysis.Ingredients[0].Name != "Sugar" || analysis.Ingredients[0].IsHealthy {
		t.Errorf("ingredients = %+v", analysis.Ingredients)
	}
}

func TestNewAnalysisRecordDropsSources(t *testing.T) {
	analysis := PhotoAnalysis{
		Title: "Snack Bar",
		Score: 72,
		Ingredients: []IngredientAnalysis{
			{Name: "Sugar", IsHealthy: false, Explanation: "High glycemic impact", Sources: []string{"https://example.com/sugar"}},
			{Name: "Oats", IsHealthy: true, Explanation: "Whole grain", Sources: []string{"https://example.com/oats"}},
		},
		OverallSources: []string{"https://example.com"},
	}

	record := NewAnalysisRecord(7, "https://storage.example.com/images/7/x.jpg", analysis)

	if record.UserID != 7 || record.Title != "Snack Bar" {
		t.Errorf("record = %+v", record)
	}
	if record.Score == nil || *record.Score != 72 {
		t.Errorf("Score = %v, want 72", record.Score)
	}
	if record.Timestamp <= 0 {
		t.Errorf("Timestamp = %d, want server-assigned epoch seconds", record.Timestamp)
	}
	if len(record.Ingredients) != 2 {
		t.Fatalf("len(Ingredients) = %d, want 2", len(record.Ingredients))
	}
	for i, ing := range record.Ingredients {
		if ing.Position != i {
			t.Errorf("ingredient %d has position %d", i, ing.Position)
		}
	}
	if record.Ingredients[1].Name != "Oats" || !record.Ingredients[1].IsHealthy {
		t.Errorf("order not preserved: %+v", record.Ingredients)
	}
}

func TestAnalysisItemWireShape(t *testing.T) {
	score := 72
	record := Analysis{
		UserID:    7,
		ImageURL:  "https://storage.example.com/images/7/x.jpg",
		Title:     "Snack Bar",
		Score:     &score,
		Timestamp: 1724112000,
		Ingredients: []AnalysisIngredient{
			{Position: 0, Name: "Sugar", IsHealthy: false, Explanation: "High glycemic impact"},
		},
	}
	record.ID = 31

	item := record.Item()
	encoded, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	// Timestamp goes over the wire as a raw integer.
	if ts, ok := decoded["timestamp"].(float64); !ok || int64(ts) != 1724112000 {
		t.Errorf("timestamp = %v, want 1724112000", decoded["timestamp"])
	}
	if decoded["id"] != "31" {
		t.Errorf("id = %v, want %q", decoded["id"], "31")
	}
	if decoded["imageURL"] != record.ImageURL {
		t.Errorf("imageURL = %v", decoded["imageURL"])
	}
}
