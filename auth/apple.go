package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	appleKeysURL = "https://appleid.apple.com/auth/keys"
	appleIssuer  = "https://appleid.apple.com"
)

// AppleProvider verifies a Sign in with Apple identity token against Apple's
// published signing keys. Apple puts the email in the token itself; there is
// no userinfo endpoint to call.
type AppleProvider struct {
	clientID   string
	keysURL    string
	httpClient *http.Client

	mu   sync.Mutex
	keys map[string]*rsa.PublicKey
}

func NewAppleProvider(clientID string) *AppleProvider {
	return &AppleProvider{
		clientID:   clientID,
		keysURL:    appleKeysURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       map[string]*rsa.PublicKey{},
	}
}

func (p *AppleProvider) Name() string { return "apple" }

func (p *AppleProvider) Verify(ctx context.Context, identityToken string) (*Identity, error) {
	parsed, err := jwt.Parse(identityToken, p.keyFunc(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(appleIssuer),
		jwt.WithAudience(p.clientID),
	)
	if err != nil {
		return nil, fmt.Errorf("verifying apple identity token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("apple token has unexpected claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("apple token has no subject")
	}
	email, _ := claims["email"].(string)

	// Apple never includes the display name in the token; the client passes
	// it separately on first sign-in and we pick it up at profile upsert.
	return &Identity{Subject: sub, Email: email}, nil
}

func (p *AppleProvider) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token header has no key id")
		}
		return p.signingKey(ctx, kid)
	}
}

func (p *AppleProvider) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	p.mu.Lock()
	key, ok := p.keys[kid]
	p.mu.Unlock()
	if ok {
		return key, nil
	}

	// Unknown kid: Apple rotates keys, refresh the whole set.
	if err := p.refreshKeys(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	key, ok = p.keys[kid]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("apple signing key %q not found", kid)
	}
	return key, nil
}

type appleJWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (p *AppleProvider) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.keysURL, nil)
	if err != nil {
		return err
	}

	res, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching apple signing keys: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching apple signing keys: status %d", res.StatusCode)
	}

	var payload struct {
		Keys []appleJWK `json:"keys"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decoding apple signing keys: %w", err)
	}

	fresh := make(map[string]*rsa.PublicKey, len(payload.Keys))
	for _, jwk := range payload.Keys {
		key, err := parseRSAJWK(jwk)
		if err != nil {
			return err
		}
		fresh[jwk.Kid] = key
	}

	p.mu.Lock()
	p.keys = fresh
	p.mu.Unlock()
	return nil
}

func parseRSAJWK(jwk appleJWK) (*rsa.PublicKey, error) {
	if jwk.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q", jwk.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("decoding key modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("decoding key exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
