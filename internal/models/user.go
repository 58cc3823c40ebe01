package models

import (
	"net/mail"
	"strings"
	"time"
)

// User is an account in the identity registry. Passwords are stored as
// bcrypt hashes and never serialized.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// ValidateUserName rejects empty names.
func ValidateUserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return Validationf("Name is required")
	}
	return nil
}

// ValidateEmail rejects missing or malformed addresses.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return Validationf("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Validationf("Please enter a valid email address")
	}
	return nil
}

// ValidatePassword enforces a minimal password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return Validationf("Password must be at least 6 characters long")
	}
	return nil
}
