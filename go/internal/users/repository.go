package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
	"github.com/mcdev12/auctionpro/go/internal/sqlutil"
	"github.com/mcdev12/auctionpro/go/internal/users/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (db.User, error)
	GetUserByUsername(ctx context.Context, username string) (db.User, error)
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	UpsertProfile(ctx context.Context, arg db.UpsertProfileParams) (db.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (db.Profile, error)
}

// Repository implements user data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new users repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	row, err := r.queries.CreateUser(ctx, db.CreateUserParams{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		UserType:  string(user.Type),
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user already exists: %w", apperr.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return dbUserToModel(row), nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return dbUserToModel(row), nil
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row, err := r.queries.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user by username", err)
	}
	return dbUserToModel(row), nil
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, notFound("user by email", err)
	}
	return dbUserToModel(row), nil
}

// UpsertProfile creates or replaces a bidder profile
func (r *Repository) UpsertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	prefs, err := sqlutil.MarshalNullJSON(profile.Preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	row, err := r.queries.UpsertProfile(ctx, db.UpsertProfileParams{
		UserID:      profile.UserID,
		Preferences: prefs,
		UpdatedAt:   profile.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return dbProfileToModel(row)
}

// GetProfile retrieves a bidder profile
func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	row, err := r.queries.GetProfile(ctx, userID)
	if err != nil {
		return nil, notFound("profile", err)
	}
	return dbProfileToModel(row)
}

func notFound(what string, err error) error {
	if sqlutil.IsNoRows(err) {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// dbUserToModel converts a database user to domain model
func dbUserToModel(row db.User) *models.User {
	return &models.User{
		ID:        row.ID,
		Username:  row.Username,
		Email:     row.Email,
		Type:      models.UserType(row.UserType),
		CreatedAt: row.CreatedAt,
	}
}

func dbProfileToModel(row db.Profile) (*models.Profile, error) {
	prefs := []models.Category{}
	if raw := sqlutil.FromNullRawMessage(row.Preferences); len(raw) > 0 {
		if err := json.Unmarshal(raw, &prefs); err != nil {
			return nil, fmt.Errorf("failed to decode preferences: %w", err)
		}
	}
	return &models.Profile{
		UserID:      row.UserID,
		Preferences: prefs,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
