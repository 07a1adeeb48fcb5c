package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

func newTestApp() *App {
	return NewApp(NewMemoryRepository(), clockwork.NewFakeClock())
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	app := newTestApp()

	tests := []struct {
		name          string
		req           CreateUserRequest
		expectedError error
	}{
		{name: "valid_host", req: CreateUserRequest{Username: "host", Email: "host@example.com", Type: models.UserTypeHost}},
		{name: "defaults_to_buyer", req: CreateUserRequest{Username: "buyer", Email: "Buyer@Example.com"}},
		{name: "empty_username", req: CreateUserRequest{Email: "x@example.com"}, expectedError: apperr.ErrInvalidInput},
		{name: "bad_email", req: CreateUserRequest{Username: "x", Email: "not-an-email"}, expectedError: apperr.ErrInvalidInput},
		{name: "unknown_type", req: CreateUserRequest{Username: "y", Email: "y@example.com", Type: "admin"}, expectedError: apperr.ErrInvalidInput},
		{name: "duplicate_username", req: CreateUserRequest{Username: "host", Email: "other@example.com"}, expectedError: apperr.ErrInvalidInput},
		{name: "duplicate_email", req: CreateUserRequest{Username: "other", Email: "buyer@example.com"}, expectedError: apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := app.CreateUser(ctx, tt.req)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID)
		})
	}

	buyer, err := app.Authenticate(ctx, "BUYER@example.com ")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeBuyer, buyer.Type)
	assert.Equal(t, "buyer@example.com", buyer.Email)

	_, err = app.Authenticate(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestRequireHost(t *testing.T) {
	ctx := context.Background()
	app := newTestApp()
	host, err := app.CreateUser(ctx, CreateUserRequest{Username: "h", Email: "h@example.com", Type: models.UserTypeHost})
	require.NoError(t, err)
	buyer, err := app.CreateUser(ctx, CreateUserRequest{Username: "b", Email: "b@example.com"})
	require.NoError(t, err)

	_, err = app.RequireHost(ctx, host.ID)
	assert.NoError(t, err)
	_, err = app.RequireHost(ctx, buyer.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = app.RequireHost(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	app := newTestApp()
	buyer, err := app.CreateUser(ctx, CreateUserRequest{Username: "b", Email: "b@example.com"})
	require.NoError(t, err)

	profile, err := app.GetProfile(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Preferences)

	prefs, err := app.Preferences(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	profile, err = app.UpsertProfile(ctx, buyer.ID, UpsertProfileRequest{
		Preferences: []models.Category{"Bowler", models.CategoryBatsman, models.CategoryBowler},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Category{models.CategoryBowler, models.CategoryBatsman}, profile.Preferences)

	prefs, err = app.Preferences(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{models.CategoryBowler, models.CategoryBatsman}, prefs)

	_, err = app.UpsertProfile(ctx, buyer.ID, UpsertProfileRequest{Preferences: []models.Category{"goalkeeper"}})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = app.UpsertProfile(ctx, uuid.New(), UpsertProfileRequest{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = app.Preferences(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
