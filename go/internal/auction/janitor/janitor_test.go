package janitor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/auction/broadcast"
	"github.com/mcdev12/auctionpro/go/internal/auction/coordinator"
	"github.com/mcdev12/auctionpro/go/internal/auction/ledger"
	"github.com/mcdev12/auctionpro/go/internal/auction/room"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

func TestSweepArchivesCompletedRooms(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	clock := clockwork.NewFakeClock()

	led := ledger.New(ledger.NewMemoryStore(), decimal.NewFromInt(120), clock)
	reg := room.NewRegistry(led, nil, clock)
	hub := broadcast.NewHub(0, clock)
	defer hub.Close()
	coord := coordinator.New(reg, led, hub, nil, clock, coordinator.Config{BidDuration: 5 * time.Second})
	defer coord.Close()

	j := New(reg, led, coord, hub, clock, Config{Schedule: "@every 1m", ArchiveAfter: 10 * time.Minute})

	host, bidder := uuid.New(), uuid.New()
	done, err := reg.CreateRoom(ctx, room.CreateRoomRequest{HostID: host, Name: "done", ItemIDs: []uuid.UUID{uuid.New()}})
	require.NoError(t, err)
	waiting, err := reg.CreateRoom(ctx, room.CreateRoomRequest{HostID: host, Name: "waiting"})
	require.NoError(t, err)
	_, err = reg.JoinRoom(ctx, done.Code, bidder)
	require.NoError(t, err)
	sub := hub.Subscribe(done.ID, bidder)

	require.NoError(t, coord.Start(ctx, done.ID, host))
	clock.Advance(5 * time.Second)
	require.NoError(t, coord.OnTimerExpiry(ctx, done.ID))

	finished, err := reg.Get(done.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoomStatusCompleted, finished.Status)

	assert.Equal(t, 0, j.Sweep(), "completed too recently")

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, j.Sweep())

	_, err = reg.Get(done.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = reg.ResolveCode(done.Code)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = led.Entry(done.ID, bidder)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// drain the events, then the channel must be closed
	for range sub.Events() {
	}

	_, err = reg.Get(waiting.ID)
	assert.NoError(t, err, "rooms that are not completed stay")
	assert.Equal(t, 0, j.Sweep())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	j := New(nil, nil, nil, nil, clockwork.NewFakeClock(), Config{Schedule: "not a schedule"})
	assert.Error(t, j.Start())
}

func TestStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	j := New(nil, nil, nil, nil, clockwork.NewFakeClock(), DefaultConfig())
	require.NoError(t, j.Start())
	j.Stop()
}
