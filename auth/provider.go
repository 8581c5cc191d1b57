package auth

import (
	"context"
	"errors"

	"github.com/cleanandchecked/backend/config"
	"github.com/cleanandchecked/backend/database"
	"github.com/cleanandchecked/backend/models"
	"gorm.io/gorm"
)

var ErrUnknownProvider = errors.New("unknown identity provider")

// Identity is what a provider attests about the signed-in person.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Provider verifies an identity-provider credential. One implementation per
// supported provider.
type Provider interface {
	Name() string
	Verify(ctx context.Context, credential string) (*Identity, error)
}

var enabledProviders map[string]Provider

// SetupProviders registers the identity providers the app supports.
func SetupProviders() {
	google := NewGoogleProvider(config.Config("GOOGLE_CLIENT_ID"))
	apple := NewAppleProvider(config.Config("APPLE_CLIENT_ID"))

	enabledProviders = map[string]Provider{
		google.Name(): google,
		apple.Name():  apple,
	}
}

// LookupProvider resolves a provider by the name the client sent.
func LookupProvider(name string) (Provider, error) {
	p, ok := enabledProviders[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// UpsertProfile records the verified identity's profile, creating the account
// on first sign-in and refreshing email/name on later ones.
func UpsertProfile(providerName string, ident *Identity) (*models.User, error) {
	db := database.GetDB()

	var user models.User
	err := db.Where("provider = ? AND subject = ?", providerName, ident.Subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Provider: providerName,
			Subject:  ident.Subject,
			Email:    ident.Email,
			FullName: ident.Name,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if ident.Email != "" && ident.Email != user.Email {
		updates["email"] = ident.Email
	}
	if ident.Name != "" && ident.Name != user.FullName {
		updates["full_name"] = ident.Name
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}
