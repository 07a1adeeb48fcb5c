package users

import "github.com/mcdev12/auctionpro/go/internal/models"

// CreateUserRequest represents the data needed to create a new user
type CreateUserRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Type     models.UserType `json:"user_type"`
}

// UpsertProfileRequest replaces a bidder's category preferences
type UpsertProfileRequest struct {
	Preferences []models.Category `json:"preferences"`
}
