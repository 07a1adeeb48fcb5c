package audit

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/auction/audit/db"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	InsertBid(ctx context.Context, arg db.InsertBidParams) error
	ListBidsByRoom(ctx context.Context, roomID uuid.UUID) ([]db.Bid, error)
}

// Repository is the append-only SQL bid log
type Repository struct {
	queries Querier
}

// NewRepository creates a new bid log repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// Append records an accepted bid
func (r *Repository) Append(ctx context.Context, bid models.Bid) error {
	err := r.queries.InsertBid(ctx, db.InsertBidParams{
		ID:         bid.ID,
		RoomID:     bid.RoomID,
		ItemID:     bid.ItemID,
		BidderID:   bid.BidderID,
		Amount:     bid.Amount,
		AcceptedAt: bid.AcceptedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

// ListByRoom returns a room's accepted bids in acceptance order
func (r *Repository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Bid, error) {
	rows, err := r.queries.ListBidsByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	out := make([]models.Bid, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Bid{
			ID:         row.ID,
			RoomID:     row.RoomID,
			ItemID:     row.ItemID,
			BidderID:   row.BidderID,
			Amount:     row.Amount,
			AcceptedAt: row.AcceptedAt,
		})
	}
	return out, nil
}

// MemoryLog keeps the bid log in process
type MemoryLog struct {
	mu     sync.Mutex
	byRoom map[uuid.UUID][]models.Bid
}

// NewMemoryLog creates an empty in-process bid log
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{byRoom: make(map[uuid.UUID][]models.Bid)}
}

func (m *MemoryLog) Append(_ context.Context, bid models.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byRoom[bid.RoomID] = append(m.byRoom[bid.RoomID], bid)
	return nil
}

func (m *MemoryLog) ListByRoom(_ context.Context, roomID uuid.UUID) ([]models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Bid(nil), m.byRoom[roomID]...), nil
}
