package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/auction/audit"
	auditdb "github.com/mcdev12/auctionpro/go/internal/auction/audit/db"
	"github.com/mcdev12/auctionpro/go/internal/auction/ledger"
	ledgerdb "github.com/mcdev12/auctionpro/go/internal/auction/ledger/db"
	"github.com/mcdev12/auctionpro/go/internal/catalogue"
	"github.com/mcdev12/auctionpro/go/internal/dbconfig"
	"github.com/mcdev12/auctionpro/go/internal/models"
	"github.com/mcdev12/auctionpro/go/internal/users"
	usersdb "github.com/mcdev12/auctionpro/go/internal/users/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	cfg := dbconfig.Config{Driver: dbconfig.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "auction.db")}

	database, err := Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, Migrate(ctx, database, cfg.Driver))
	require.NoError(t, Migrate(ctx, database, cfg.Driver), "migrations are idempotent")
	return database
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), dbconfig.Config{Driver: "oracle"})
	assert.Error(t, err)
	assert.Error(t, Migrate(context.Background(), nil, "oracle"))
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()
	repo := users.NewRepository(usersdb.New(openTestDB(t)))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	host := models.User{ID: uuid.New(), Username: "host", Email: "host@example.com", Type: models.UserTypeHost, CreatedAt: now}
	created, err := repo.CreateUser(ctx, host)
	require.NoError(t, err)
	assert.Equal(t, host.ID, created.ID)

	_, err = repo.CreateUser(ctx, models.User{ID: uuid.New(), Username: "host", Email: "x@example.com", Type: models.UserTypeBuyer, CreatedAt: now})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	byEmail, err := repo.GetUserByEmail(ctx, "host@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeHost, byEmail.Type)
	assert.True(t, byEmail.CreatedAt.Equal(now))

	_, err = repo.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.GetProfile(ctx, host.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	for _, prefs := range [][]models.Category{
		{models.CategoryBowler},
		{models.CategoryBatsman, models.CategoryWicketKeeper},
	} {
		_, err = repo.UpsertProfile(ctx, models.Profile{UserID: host.ID, Preferences: prefs, UpdatedAt: now})
		require.NoError(t, err)
	}
	profile, err := repo.GetProfile(ctx, host.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{models.CategoryBatsman, models.CategoryWicketKeeper}, profile.Preferences)
}

func TestCatalogueRepository(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := catalogue.NewRepository(database)
	app := catalogue.NewApp(repo, nil, clockwork.NewFakeClock())

	n, err := app.Import(ctx, []catalogue.CreateItemRequest{
		{Name: "Bat", Category: models.CategoryBatsman, PerformanceScore: 90, Stats: json.RawMessage(`{"runs":500}`)},
		{Name: "Bowl", Category: models.CategoryBowler, PerformanceScore: 70},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = app.Import(ctx, []catalogue.CreateItemRequest{
		{Name: "Bat", Category: models.CategoryBatsman},
		{Name: "Keeper", Category: models.CategoryWicketKeeper},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "existing names are skipped")

	all, err := app.ListItems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bowlers, err := app.ListItems(ctx, models.CategoryBowler)
	require.NoError(t, err)
	require.Len(t, bowlers, 1)

	got, err := app.GetItem(ctx, bowlers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bowl", got.Name)
	assert.Equal(t, 70.0, got.PerformanceScore)

	bat, err := app.ListItems(ctx, models.CategoryBatsman)
	require.NoError(t, err)
	require.Len(t, bat, 1)
	assert.JSONEq(t, `{"runs":500}`, string(bat[0].Stats))

	_, err = app.GetItem(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSettlementAndBidRepositories(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	settlements := ledger.NewRepository(ledgerdb.New(database))
	bids := audit.NewRepository(auditdb.New(database))
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	roomID, itemID, bidder := uuid.New(), uuid.New(), uuid.New()
	for i, amount := range []int64{10, 15} {
		require.NoError(t, bids.Append(ctx, models.Bid{
			ID:         uuid.New(),
			RoomID:     roomID,
			ItemID:     itemID,
			BidderID:   bidder,
			Amount:     decimal.NewFromInt(amount),
			AcceptedAt: clock.Now().Add(time.Duration(i) * time.Second),
		}))
	}
	history, err := bids.ListByRoom(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[1].Amount.Equal(decimal.NewFromInt(15)))

	// the ledger records through the SQL store and refuses a second settlement
	led := ledger.New(settlements, decimal.NewFromInt(120), clock)
	require.NoError(t, led.OpenEntry(roomID, bidder, nil))
	require.NoError(t, led.Settle(ctx, roomID, itemID, bidder, decimal.NewFromInt(15)))
	assert.ErrorIs(t, led.Settle(ctx, roomID, itemID, bidder, decimal.NewFromInt(15)), apperr.ErrAlreadySettled)

	err = settlements.Record(ctx, models.Settlement{RoomID: roomID, ItemID: itemID, WinnerID: bidder, Amount: decimal.NewFromInt(1), SettledAt: clock.Now()})
	assert.ErrorIs(t, err, apperr.ErrAlreadySettled)

	recorded, err := settlements.ListByRoom(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.True(t, recorded[0].Amount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, bidder, recorded[0].WinnerID)

	snap, err := led.RoomSnapshot(roomID, bidder)
	require.NoError(t, err)
	assert.True(t, snap.RemainingBudget.Equal(decimal.NewFromInt(105)))
}
