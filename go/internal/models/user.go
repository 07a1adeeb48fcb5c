package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType separates auction hosts from bidders.
type UserType string

const (
	UserTypeHost  UserType = "host"
	UserTypeBuyer UserType = "buyer"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeHost || t == UserTypeBuyer
}

// User represents an account on the platform
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Type      UserType  `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

// IsHost reports whether the user may create items and rooms.
func (u User) IsHost() bool {
	return u.Type == UserTypeHost
}

// Profile holds a bidder's preferred item categories.
type Profile struct {
	UserID      uuid.UUID  `json:"user_id"`
	Preferences []Category `json:"preferences"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
