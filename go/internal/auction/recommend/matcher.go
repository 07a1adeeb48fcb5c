package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/models"
)

// RoomReader reads room snapshots.
type RoomReader interface {
	Get(roomID uuid.UUID) (models.Room, error)
}

// EntryReader reads a bidder's ledger entry.
type EntryReader interface {
	Entry(roomID, bidderID uuid.UUID) (models.LedgerEntry, error)
}

// ItemReader resolves catalogue items.
type ItemReader interface {
	ItemsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error)
}

// Matcher ranks the items still to come in a room for one bidder.
type Matcher struct {
	rooms   RoomReader
	entries EntryReader
	items   ItemReader
}

func NewMatcher(rooms RoomReader, entries EntryReader, items ItemReader) *Matcher {
	return &Matcher{rooms: rooms, entries: entries, items: items}
}

// Recommend returns the room's upcoming item ids, preferred categories
// first, then by performance score, then in queue order. Nothing is cached.
func (m *Matcher) Recommend(ctx context.Context, bidderID, roomID uuid.UUID) ([]uuid.UUID, error) {
	room, err := m.rooms.Get(roomID)
	if err != nil {
		return nil, err
	}
	entry, err := m.entries.Entry(roomID, bidderID)
	if err != nil {
		return nil, err
	}

	upcoming := Upcoming(&room)
	if len(upcoming) == 0 {
		return []uuid.UUID{}, nil
	}

	byID, err := m.items.ItemsByID(ctx, upcoming)
	if err != nil {
		return nil, fmt.Errorf("resolve items: %w", err)
	}
	candidates := make([]models.Item, 0, len(upcoming))
	for _, id := range upcoming {
		if item, ok := byID[id]; ok {
			candidates = append(candidates, item)
		}
	}
	return Rank(candidates, entry.Preferences), nil
}

// Upcoming lists the items not yet passed by the cursor, including the one
// currently up for bidding. A completed room has none.
func Upcoming(room *models.Room) []uuid.UUID {
	if room.Status == models.RoomStatusCompleted {
		return nil
	}
	from := 0
	if pos, ok := room.Cursor.Get(); ok {
		from = pos
	}
	if from >= len(room.ItemIDs) {
		return nil
	}
	return append([]uuid.UUID(nil), room.ItemIDs[from:]...)
}

// Rank orders items by preference match, then score descending. items must
// be in queue order; the sort is stable so ties keep that order.
func Rank(items []models.Item, prefs []models.Category) []uuid.UUID {
	preferred := make(map[models.Category]bool, len(prefs))
	for _, c := range prefs {
		preferred[c] = true
	}

	ranked := append([]models.Item(nil), items...)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := preferred[ranked[i].Category], preferred[ranked[j].Category]
		if pi != pj {
			return pi
		}
		return ranked[i].PerformanceScore > ranked[j].PerformanceScore
	})

	ids := make([]uuid.UUID, len(ranked))
	for i, item := range ranked {
		ids[i] = item.ID
	}
	return ids
}
