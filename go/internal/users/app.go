package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// App handles users business logic
type App struct {
	repo  UsersRepository
	clock clockwork.Clock
}

// NewApp creates a new users App
func NewApp(repo UsersRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// CreateUser creates a new user with validation
func (a *App) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Type == "" {
		req.Type = models.UserTypeBuyer
	}
	if err := validateCreateUserRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if user with same username already exists
	if existing, err := a.repo.GetUserByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("user with username %s already exists: %w", req.Username, apperr.ErrInvalidInput)
	}

	// Check if user with same email already exists
	if existing, err := a.repo.GetUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("user with email %s already exists: %w", req.Email, apperr.ErrInvalidInput)
	}

	user, err := a.repo.CreateUser(ctx, models.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     req.Email,
		Type:      req.Type,
		CreatedAt: a.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Str("user_type", string(user.Type)).
		Msg("created user")
	return user, nil
}

// GetUser retrieves a user by ID
func (a *App) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return a.repo.GetUser(ctx, id)
}

// Authenticate resolves the account registered under email.
func (a *App) Authenticate(ctx context.Context, email string) (*models.User, error) {
	user, err := a.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrForbidden)
		}
		return nil, err
	}
	return user, nil
}

// RequireHost returns the user if they exist and are a host.
func (a *App) RequireHost(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsHost() {
		return nil, fmt.Errorf("user %s is not a host: %w", id, apperr.ErrForbidden)
	}
	return user, nil
}

// UpsertProfile stores a bidder's category preferences.
func (a *App) UpsertProfile(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*models.Profile, error) {
	if _, err := a.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	prefs := make([]models.Category, 0, len(req.Preferences))
	seen := make(map[models.Category]bool)
	for _, c := range req.Preferences {
		parsed, err := models.ParseCategory(string(c))
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput)
		}
		if !seen[parsed] {
			seen[parsed] = true
			prefs = append(prefs, parsed)
		}
	}

	profile, err := a.repo.UpsertProfile(ctx, models.Profile{
		UserID:      userID,
		Preferences: prefs,
		UpdatedAt:   a.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("user_id", userID.String()).
		Int("preferences", len(prefs)).
		Msg("profile updated")
	return profile, nil
}

// GetProfile returns the bidder's profile, or an empty one if none was saved.
func (a *App) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if _, err := a.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := a.repo.GetProfile(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &models.Profile{UserID: userID, Preferences: []models.Category{}}, nil
	}
	return profile, err
}

// Preferences returns the bidder's saved categories, empty when unset.
// Unknown accounts yield apperr.ErrNotFound.
func (a *App) Preferences(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	if _, err := a.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := a.repo.GetProfile(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile.Preferences, nil
}

// validateCreateUserRequest validates create user request
func validateCreateUserRequest(req CreateUserRequest) error {
	if req.Username == "" {
		return fmt.Errorf("username is required: %w", apperr.ErrInvalidInput)
	}
	if req.Email == "" {
		return fmt.Errorf("email is required: %w", apperr.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("email format is invalid: %w", apperr.ErrInvalidInput)
	}
	if !req.Type.Valid() {
		return fmt.Errorf("unknown user type %q: %w", req.Type, apperr.ErrInvalidInput)
	}
	return nil
}
