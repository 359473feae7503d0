package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthRecord is the credential row for one account. Email is stored as given.
type AuthRecord struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	RefreshToken    *string   `gorm:"type:text" json:"-"`
	LoginAttempts   int       `gorm:"not null;default:0" json:"loginAttempts"`
	IsEmailVerified bool      `gorm:"not null;default:false" json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (a *AuthRecord) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
