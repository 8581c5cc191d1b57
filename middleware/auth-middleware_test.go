package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-pkgz/auth/v2/token"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cleanandchecked/backend/auth"
)

func issueToken(t *testing.T) string {
	t.Helper()

	svc := auth.GetAuthService()
	claims := token.Claims{
		User: &token.User{ID: "42", Name: "Jane Doe", Email: "jane@example.com"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    svc.TokenService().Issuer,
			Audience:  []string{"cleanandchecked"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tokenStr, err := svc.TokenService().Token(claims)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return tokenStr
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(), func(c *fiber.Ctx) error {
		id, err := CheckUserLoggedIn(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	auth.SetupAuthService()
	app := newProtectedApp()
	tokenStr := issueToken(t)

	t.Run("bearer token accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)

		res, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", res.StatusCode)
		}

		raw, _ := io.ReadAll(res.Body)
		var body map[string]interface{}
		json.Unmarshal(raw, &body)
		if id, ok := body["id"].(float64); !ok || uint(id) != 42 {
			t.Errorf("id = %v, want 42", body["id"])
		}
	})

	t.Run("JWT cookie accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "JWT", Value: tokenStr})

		res, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", res.StatusCode)
		}
	})

	t.Run("missing token rejected", func(t *testing.T) {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil), -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", res.StatusCode)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")

		res, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", res.StatusCode)
		}
	})
}
