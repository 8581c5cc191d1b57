package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cleanandchecked/backend/models"
)

// Client calls the remote analyze function. The function takes a publicly
// resolvable image URL and returns the analysis as JSON.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type analyzeRequest struct {
	ImageURL string `json:"image_url"`
}

type analyzeResponse struct {
	Analysis *models.PhotoAnalysis `json:"analysis"`
}

// Analyze sends the image URL for analysis and decodes the result. Errors are
// either ErrNetwork-wrapped or a *DecodeError; no retry is attempted.
func (c *Client) Analyze(ctx context.Context, imageURL string) (*models.PhotoAnalysis, error) {
	payload, err := json.Marshal(analyzeRequest{ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("encoding analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrNetwork)
	}

	var decoded analyzeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, classifyDecodeError(err)
	}
	if decoded.Analysis == nil {
		return nil, &DecodeError{Kind: DecodeMissingKey, Detail: `response has no "analysis" key`}
	}
	if decoded.Analysis.Ingredients == nil {
		return nil, &DecodeError{Kind: DecodeMissingKey, Detail: `analysis has no "ingredients" key`}
	}

	return decoded.Analysis, nil
}

func classifyDecodeError(err error) *DecodeError {
	switch e := err.(type) {
	case *json.UnmarshalTypeError:
		return &DecodeError{
			Kind:   DecodeTypeMismatch,
			Detail: fmt.Sprintf("field %q: got %s, want %s", e.Field, e.Value, e.Type),
		}
	case *json.SyntaxError:
		return &DecodeError{
			Kind:   DecodeCorrupted,
			Detail: fmt.Sprintf("offset %d: %v", e.Offset, e),
		}
	default:
		return &DecodeError{Kind: DecodeCorrupted, Detail: err.Error()}
	}
}
