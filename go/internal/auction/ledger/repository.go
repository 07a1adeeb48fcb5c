package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/auction/ledger/db"
	"github.com/mcdev12/auctionpro/go/internal/models"
	"github.com/mcdev12/auctionpro/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	InsertSettlement(ctx context.Context, arg db.InsertSettlementParams) error
	ListSettlementsByRoom(ctx context.Context, roomID uuid.UUID) ([]db.Settlement, error)
}

// Repository persists settlements to SQL
type Repository struct {
	queries Querier
}

// NewRepository creates a new settlement repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// Record inserts a settlement, mapping duplicate keys to ErrAlreadySettled
func (r *Repository) Record(ctx context.Context, s models.Settlement) error {
	err := r.queries.InsertSettlement(ctx, db.InsertSettlementParams{
		RoomID:    s.RoomID,
		ItemID:    s.ItemID,
		WinnerID:  s.WinnerID,
		Amount:    s.Amount,
		SettledAt: s.SettledAt,
	})
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return fmt.Errorf("settlement for item %s: %w", s.ItemID, apperr.ErrAlreadySettled)
		}
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// ListByRoom returns every settlement recorded for a room
func (r *Repository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Settlement, error) {
	rows, err := r.queries.ListSettlementsByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	out := make([]models.Settlement, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Settlement{
			RoomID:    row.RoomID,
			ItemID:    row.ItemID,
			WinnerID:  row.WinnerID,
			Amount:    row.Amount,
			SettledAt: row.SettledAt,
		})
	}
	return out, nil
}

// MemoryStore keeps settlements in process
type MemoryStore struct {
	mu     sync.Mutex
	byRoom map[uuid.UUID][]models.Settlement
}

// NewMemoryStore creates an empty in-process settlement store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byRoom: make(map[uuid.UUID][]models.Settlement)}
}

func (m *MemoryStore) Record(_ context.Context, s models.Settlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byRoom[s.RoomID] {
		if existing.ItemID == s.ItemID {
			return fmt.Errorf("settlement for item %s: %w", s.ItemID, apperr.ErrAlreadySettled)
		}
	}
	m.byRoom[s.RoomID] = append(m.byRoom[s.RoomID], s)
	return nil
}

func (m *MemoryStore) ListByRoom(_ context.Context, roomID uuid.UUID) ([]models.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Settlement(nil), m.byRoom[roomID]...), nil
}
