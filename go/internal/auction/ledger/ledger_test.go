package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

func newTestLedger(t *testing.T) (*Ledger, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(store, decimal.NewFromInt(120), clockwork.NewFakeClock()), store
}

func TestOpenEntry(t *testing.T) {
	l, _ := newTestLedger(t)
	room, bidder := uuid.New(), uuid.New()

	require.NoError(t, l.OpenEntry(room, bidder, []models.Category{models.CategoryBowler}))
	// opening twice keeps the original entry
	require.NoError(t, l.OpenEntry(room, bidder, nil))

	ent, err := l.Entry(room, bidder)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(ent.RemainingBudget))
	assert.True(t, decimal.NewFromInt(120).Equal(ent.StartingBudget))
	assert.Empty(t, ent.WonItems)
	assert.Equal(t, []models.Category{models.CategoryBowler}, ent.Preferences)

	err = l.OpenEntry(uuid.Nil, bidder, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestValidateBid(t *testing.T) {
	l, _ := newTestLedger(t)
	room, bidder := uuid.New(), uuid.New()
	require.NoError(t, l.OpenEntry(room, bidder, nil))

	tests := []struct {
		name          string
		bidder        uuid.UUID
		amount        int64
		highest       int64
		expectedError error
	}{
		{name: "valid_first_bid", bidder: bidder, amount: 10, highest: 0},
		{name: "beats_standing_bid", bidder: bidder, amount: 25, highest: 20},
		{name: "whole_budget", bidder: bidder, amount: 120, highest: 100},
		{name: "equal_to_standing_bid", bidder: bidder, amount: 20, highest: 20, expectedError: apperr.ErrBidTooLow},
		{name: "below_standing_bid", bidder: bidder, amount: 5, highest: 20, expectedError: apperr.ErrBidTooLow},
		{name: "zero_amount", bidder: bidder, amount: 0, highest: 0, expectedError: apperr.ErrBidTooLow},
		{name: "over_budget", bidder: bidder, amount: 130, highest: 0, expectedError: apperr.ErrInsufficientBudget},
		{name: "no_entry", bidder: uuid.New(), amount: 10, highest: 0, expectedError: apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.ValidateBid(room, tt.bidder, decimal.NewFromInt(tt.amount), decimal.NewFromInt(tt.highest))
			if tt.expectedError == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedError), "expected %v, got %v", tt.expectedError, err)
		})
	}

	// validation never mutates
	ent, err := l.Entry(room, bidder)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(ent.RemainingBudget))
}

func TestSettle(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	room, bidder, item := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, l.OpenEntry(room, bidder, nil))

	require.NoError(t, l.Settle(ctx, room, item, bidder, decimal.NewFromInt(20)))

	snap, err := l.Snapshot(bidder)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(snap.RemainingBudget))
	assert.Equal(t, []uuid.UUID{item}, snap.WonItems)

	err = l.Settle(ctx, room, item, bidder, decimal.NewFromInt(20))
	assert.ErrorIs(t, err, apperr.ErrAlreadySettled)

	snap, err = l.Snapshot(bidder)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(snap.RemainingBudget), "a repeat settle must not debit twice")
	assert.Len(t, snap.WonItems, 1)

	recorded, err := store.ListByRoom(ctx, room)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, bidder, recorded[0].WinnerID)
}

func TestSettleOverBudgetLeavesItemUnsettled(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	room, bidder, item := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, l.OpenEntry(room, bidder, nil))

	err := l.Settle(ctx, room, item, bidder, decimal.NewFromInt(500))
	assert.ErrorIs(t, err, apperr.ErrInsufficientBudget)

	require.NoError(t, l.Settle(ctx, room, item, bidder, decimal.NewFromInt(50)))
}

func TestConcurrentSettleOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	room, item := uuid.New(), uuid.New()
	bidders := make([]uuid.UUID, 8)
	for i := range bidders {
		bidders[i] = uuid.New()
		require.NoError(t, l.OpenEntry(room, bidders[i], nil))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, b := range bidders {
		wg.Add(1)
		go func(b uuid.UUID) {
			defer wg.Done()
			if err := l.Settle(ctx, room, item, b, decimal.NewFromInt(10)); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(b)
	}
	wg.Wait()
	assert.Equal(t, 1, success)

	total := decimal.Zero
	for _, b := range bidders {
		ent, err := l.Entry(room, b)
		require.NoError(t, err)
		total = total.Add(ent.StartingBudget.Sub(ent.RemainingBudget))
	}
	assert.True(t, decimal.NewFromInt(10).Equal(total))
}

func TestReleaseRoom(t *testing.T) {
	l, _ := newTestLedger(t)
	room, other, bidder := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, l.OpenEntry(room, bidder, nil))
	require.NoError(t, l.OpenEntry(other, uuid.New(), nil))

	assert.Equal(t, 1, l.ReleaseRoom(room))
	_, err := l.Entry(room, bidder)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = l.Snapshot(bidder)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Len(t, l.Entries(other), 1)
}
