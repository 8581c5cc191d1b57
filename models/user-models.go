package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Provider string `json:"provider" gorm:"not null;uniqueIndex:idx_provider_subject"`
	Subject  string `json:"subject" gorm:"not null;uniqueIndex:idx_provider_subject"`
	Email    string `json:"email" gorm:"index"`
	FullName string `json:"name"`
	// Password is a bcrypt hash, set only for local-credential accounts.
	Password string `json:"-"`
}
