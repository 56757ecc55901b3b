// Package entity defines the domain entities for the auth feature.
package entity

import (
	"regexp"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength     = 50
	MaxUsernameLength = 30
)

var (
	// namePattern allows letters and spaces only.
	namePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
	// usernamePattern requires a leading letter followed by letters, digits, '.' or '_'.
	usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._]*$`)
)

// User represents a registered user in the system.
type User struct {
	// ID is assigned by storage on creation.
	ID uint `gorm:"primaryKey"`

	// Name is the display name.
	Name string `gorm:"size:50;not null"`

	// Username is the login handle. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:30;not null"`

	// PasswordHash is the stored digest. It never holds the plaintext.
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidName reports whether name is letters and spaces only and at most MaxNameLength characters.
func ValidName(name string) bool {
	return utf8.RuneCountInString(name) <= MaxNameLength && namePattern.MatchString(name)
}

// ValidUsername reports whether username matches the handle rules and is at most MaxUsernameLength characters.
func ValidUsername(username string) bool {
	return len(username) <= MaxUsernameLength && usernamePattern.MatchString(username)
}
