package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// SettlementStore persists settlements. Record must return
// apperr.ErrAlreadySettled when the (room, item) pair is already recorded.
type SettlementStore interface {
	Record(ctx context.Context, s models.Settlement) error
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Settlement, error)
}

// Snapshot is a bidder's view of their own ledger entry.
type Snapshot struct {
	RoomID          uuid.UUID       `json:"room_id"`
	BidderID        uuid.UUID       `json:"bidder_id"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
	WonItems        []uuid.UUID     `json:"won_items"`
}

type entryKey struct {
	roomID   uuid.UUID
	bidderID uuid.UUID
}

type settlementKey struct {
	roomID uuid.UUID
	itemID uuid.UUID
}

type entry struct {
	mu sync.Mutex
	models.LedgerEntry
}

// Ledger holds per-room bidder budgets and the items each bidder has won.
type Ledger struct {
	mu      sync.RWMutex
	entries map[entryKey]*entry
	latest  map[uuid.UUID]uuid.UUID
	settled map[settlementKey]struct{}
	store   SettlementStore
	budget  decimal.Decimal
	clock   clockwork.Clock
}

// New creates a ledger that opens every entry with startingBudget.
func New(store SettlementStore, startingBudget decimal.Decimal, clock clockwork.Clock) *Ledger {
	return &Ledger{
		entries: make(map[entryKey]*entry),
		latest:  make(map[uuid.UUID]uuid.UUID),
		settled: make(map[settlementKey]struct{}),
		store:   store,
		budget:  startingBudget,
		clock:   clock,
	}
}

// StartingBudget returns the budget every entry is opened with.
func (l *Ledger) StartingBudget() decimal.Decimal {
	return l.budget
}

// OpenEntry materializes the bidder's entry for a room. Opening an entry
// that already exists is a no-op.
func (l *Ledger) OpenEntry(roomID, bidderID uuid.UUID, prefs []models.Category) error {
	if roomID == uuid.Nil || bidderID == uuid.Nil {
		return fmt.Errorf("open entry: %w", apperr.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := entryKey{roomID, bidderID}
	if _, ok := l.entries[key]; ok {
		return nil
	}
	l.entries[key] = &entry{LedgerEntry: models.LedgerEntry{
		RoomID:          roomID,
		BidderID:        bidderID,
		StartingBudget:  l.budget,
		RemainingBudget: l.budget,
		WonItems:        []uuid.UUID{},
		Preferences:     append([]models.Category(nil), prefs...),
		OpenedAt:        l.clock.Now(),
	}}
	l.latest[bidderID] = roomID
	return nil
}

func (l *Ledger) lookup(roomID, bidderID uuid.UUID) (*entry, error) {
	l.mu.RLock()
	e, ok := l.entries[entryKey{roomID, bidderID}]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("ledger entry for bidder %s in room %s: %w", bidderID, roomID, apperr.ErrNotFound)
	}
	return e, nil
}

// Entry returns a copy of the bidder's entry in a room.
func (l *Ledger) Entry(roomID, bidderID uuid.UUID) (models.LedgerEntry, error) {
	e, err := l.lookup(roomID, bidderID)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.LedgerEntry.Clone(), nil
}

// Entries returns copies of every entry opened in a room.
func (l *Ledger) Entries(roomID uuid.UUID) []models.LedgerEntry {
	l.mu.RLock()
	var found []*entry
	for key, e := range l.entries {
		if key.roomID == roomID {
			found = append(found, e)
		}
	}
	l.mu.RUnlock()

	out := make([]models.LedgerEntry, 0, len(found))
	for _, e := range found {
		e.mu.Lock()
		out = append(out, e.LedgerEntry.Clone())
		e.mu.Unlock()
	}
	return out
}

// ValidateBid checks a bid against the standing high bid and the bidder's
// remaining budget. It never mutates the ledger.
func (l *Ledger) ValidateBid(roomID, bidderID uuid.UUID, amount, currentHighest decimal.Decimal) error {
	if !amount.GreaterThan(currentHighest) {
		return fmt.Errorf("bid %s does not beat %s: %w", amount, currentHighest, apperr.ErrBidTooLow)
	}
	e, err := l.lookup(roomID, bidderID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if amount.GreaterThan(e.RemainingBudget) {
		return fmt.Errorf("bid %s exceeds remaining budget %s: %w", amount, e.RemainingBudget, apperr.ErrInsufficientBudget)
	}
	return nil
}

// Settle debits the winner and records the won item. Each (room, item)
// pair settles at most once; repeats return apperr.ErrAlreadySettled.
func (l *Ledger) Settle(ctx context.Context, roomID, itemID, winnerID uuid.UUID, amount decimal.Decimal) error {
	e, err := l.lookup(roomID, winnerID)
	if err != nil {
		return err
	}

	sk := settlementKey{roomID, itemID}
	l.mu.Lock()
	if _, done := l.settled[sk]; done {
		l.mu.Unlock()
		return fmt.Errorf("settle item %s in room %s: %w", itemID, roomID, apperr.ErrAlreadySettled)
	}
	// reserve the key so a concurrent settle of the same item loses
	l.settled[sk] = struct{}{}
	l.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if amount.GreaterThan(e.RemainingBudget) {
		l.release(sk)
		return fmt.Errorf("settle %s against remaining %s: %w", amount, e.RemainingBudget, apperr.ErrInsufficientBudget)
	}

	settlement := models.Settlement{
		RoomID:    roomID,
		ItemID:    itemID,
		WinnerID:  winnerID,
		Amount:    amount,
		SettledAt: l.clock.Now(),
	}
	if l.store != nil {
		if err := l.store.Record(ctx, settlement); err != nil {
			if !errors.Is(err, apperr.ErrAlreadySettled) {
				l.release(sk)
			}
			return fmt.Errorf("record settlement: %w", err)
		}
	}

	e.RemainingBudget = e.RemainingBudget.Sub(amount)
	e.WonItems = append(e.WonItems, itemID)

	log.Info().
		Str("room_id", roomID.String()).
		Str("item_id", itemID.String()).
		Str("winner_id", winnerID.String()).
		Str("amount", amount.String()).
		Str("remaining", e.RemainingBudget.String()).
		Msg("item settled")
	return nil
}

func (l *Ledger) release(sk settlementKey) {
	l.mu.Lock()
	delete(l.settled, sk)
	l.mu.Unlock()
}

// Snapshot returns the bidder's budget and winnings in the room they most
// recently joined.
func (l *Ledger) Snapshot(bidderID uuid.UUID) (Snapshot, error) {
	l.mu.RLock()
	roomID, ok := l.latest[bidderID]
	l.mu.RUnlock()
	if !ok {
		return Snapshot{}, fmt.Errorf("ledger for bidder %s: %w", bidderID, apperr.ErrNotFound)
	}
	return l.RoomSnapshot(roomID, bidderID)
}

// RoomSnapshot returns the bidder's budget and winnings in a specific room.
func (l *Ledger) RoomSnapshot(roomID, bidderID uuid.UUID) (Snapshot, error) {
	ent, err := l.Entry(roomID, bidderID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		RoomID:          ent.RoomID,
		BidderID:        ent.BidderID,
		RemainingBudget: ent.RemainingBudget,
		WonItems:        ent.WonItems,
	}, nil
}

// ReleaseRoom drops every entry and settlement marker held for a room.
func (l *Ledger) ReleaseRoom(roomID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key := range l.entries {
		if key.roomID != roomID {
			continue
		}
		delete(l.entries, key)
		if l.latest[key.bidderID] == roomID {
			delete(l.latest, key.bidderID)
		}
		removed++
	}
	for key := range l.settled {
		if key.roomID == roomID {
			delete(l.settled, key)
		}
	}
	return removed
}
