package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleProvider verifies a Google Sign-In ID token via the tokeninfo
// endpoint and checks it was minted for our client.
type GoogleProvider struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

func NewGoogleProvider(clientID string) *GoogleProvider {
	return &GoogleProvider{
		clientID:     clientID,
		tokenInfoURL: googleTokenInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

type googleTokenInfo struct {
	Aud   string `json:"aud"`
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (p *GoogleProvider) Verify(ctx context.Context, idToken string) (*Identity, error) {
	endpoint := fmt.Sprintf("%s?id_token=%s", p.tokenInfoURL, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google rejected the token (status %d)", res.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding tokeninfo response: %w", err)
	}

	if info.Aud != p.clientID {
		return nil, errors.New("google token was issued for a different client")
	}
	if info.Sub == "" {
		return nil, errors.New("google token has no subject")
	}

	return &Identity{Subject: info.Sub, Email: info.Email, Name: info.Name}, nil
}
