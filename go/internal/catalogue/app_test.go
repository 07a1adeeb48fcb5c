package catalogue

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

type stubHosts map[uuid.UUID]bool

func (s stubHosts) RequireHost(_ context.Context, id uuid.UUID) (*models.User, error) {
	isHost, ok := s[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if !isHost {
		return nil, apperr.ErrForbidden
	}
	return &models.User{ID: id, Type: models.UserTypeHost}, nil
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()
	host, buyer := uuid.New(), uuid.New()
	app := NewApp(NewMemoryRepository(), stubHosts{host: true, buyer: false}, clockwork.NewFakeClock())

	tests := []struct {
		name          string
		hostID        uuid.UUID
		req           CreateItemRequest
		expectedError error
	}{
		{name: "valid", hostID: host, req: CreateItemRequest{Name: "Virat Kohli", Category: "Batsman", PerformanceScore: 92.5}},
		{name: "with_stats", hostID: host, req: CreateItemRequest{Name: "Jasprit Bumrah", Category: models.CategoryBowler, Stats: json.RawMessage(`{"wickets":150}`)}},
		{name: "buyer_forbidden", hostID: buyer, req: CreateItemRequest{Name: "A", Category: models.CategoryBowler}, expectedError: apperr.ErrForbidden},
		{name: "unknown_host", hostID: uuid.New(), req: CreateItemRequest{Name: "B", Category: models.CategoryBowler}, expectedError: apperr.ErrNotFound},
		{name: "markup_only_name", hostID: host, req: CreateItemRequest{Name: "<b></b>", Category: models.CategoryBowler}, expectedError: apperr.ErrInvalidInput},
		{name: "bad_category", hostID: host, req: CreateItemRequest{Name: "C", Category: "umpire"}, expectedError: apperr.ErrInvalidInput},
		{name: "negative_score", hostID: host, req: CreateItemRequest{Name: "D", Category: models.CategoryBowler, PerformanceScore: -1}, expectedError: apperr.ErrInvalidInput},
		{name: "nan_score", hostID: host, req: CreateItemRequest{Name: "E", Category: models.CategoryBowler, PerformanceScore: math.NaN()}, expectedError: apperr.ErrInvalidInput},
		{name: "bad_stats", hostID: host, req: CreateItemRequest{Name: "F", Category: models.CategoryBowler, Stats: json.RawMessage(`{`)}, expectedError: apperr.ErrInvalidInput},
		{name: "duplicate_name", hostID: host, req: CreateItemRequest{Name: "Virat Kohli", Category: models.CategoryBatsman}, expectedError: apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := app.CreateItem(ctx, tt.hostID, tt.req)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, item.ID)
			assert.Equal(t, tt.hostID, item.CreatedBy)
			assert.True(t, item.Category.Valid())
		})
	}
}

func TestCreateItemKeepsPlainText(t *testing.T) {
	ctx := context.Background()
	host := uuid.New()
	app := NewApp(NewMemoryRepository(), stubHosts{host: true}, clockwork.NewFakeClock())

	item, err := app.CreateItem(ctx, host, CreateItemRequest{
		Name:     "D'Arcy Short & <b>Co</b>",
		Category: models.CategoryAllRounder,
	})
	require.NoError(t, err)
	assert.Equal(t, "D'Arcy Short & Co", item.Name)

	got, err := app.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "D'Arcy Short & Co", got.Name)
}

func TestImportAndList(t *testing.T) {
	ctx := context.Background()
	app := NewApp(NewMemoryRepository(), stubHosts{}, clockwork.NewFakeClock())

	reqs, err := Parse([]byte(`
items:
  - name: Rohit Sharma
    category: batsman
    performance_score: 88
    stats:
      runs: 9000
  - name: Ravindra Jadeja
    category: all-rounder
    performance_score: 85
  - name: MS Dhoni
    category: wicket-keeper
    performance_score: 90
`))
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.JSONEq(t, `{"runs":9000}`, string(reqs[0].Stats))

	n, err := app.Import(ctx, reqs)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = app.Import(ctx, reqs[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, n, "import skips names already present")

	all, err := app.ListItems(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Rohit Sharma", all[0].Name)

	keepers, err := app.ListItems(ctx, "Wicket-Keeper")
	require.NoError(t, err)
	require.Len(t, keepers, 1)
	assert.Equal(t, "MS Dhoni", keepers[0].Name)

	_, err = app.ListItems(ctx, "umpire")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = app.Import(ctx, []CreateItemRequest{{Name: "X", Category: "umpire"}})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestItemsByID(t *testing.T) {
	ctx := context.Background()
	host := uuid.New()
	app := NewApp(NewMemoryRepository(), stubHosts{host: true}, clockwork.NewFakeClock())

	a, err := app.CreateItem(ctx, host, CreateItemRequest{Name: "A", Category: models.CategoryBatsman})
	require.NoError(t, err)
	b, err := app.CreateItem(ctx, host, CreateItemRequest{Name: "B", Category: models.CategoryBowler})
	require.NoError(t, err)

	missing := uuid.New()
	got, err := app.ItemsByID(ctx, []uuid.UUID{a.ID, missing, b.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "B", got[b.ID].Name)

	ordered, err := app.Resolve(ctx, []uuid.UUID{b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, []string{ordered[0].Name, ordered[1].Name})

	_, err = app.Resolve(ctx, []uuid.UUID{missing})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
