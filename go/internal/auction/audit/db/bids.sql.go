package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Bid struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	ItemID     uuid.UUID
	BidderID   uuid.UUID
	Amount     decimal.Decimal
	AcceptedAt time.Time
}

const insertBid = `INSERT INTO bids (id, room_id, item_id, bidder_id, amount, accepted_at)
VALUES ($1, $2, $3, $4, $5, $6)`

type InsertBidParams struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	ItemID     uuid.UUID
	BidderID   uuid.UUID
	Amount     decimal.Decimal
	AcceptedAt time.Time
}

func (q *Queries) InsertBid(ctx context.Context, arg InsertBidParams) error {
	_, err := q.db.ExecContext(ctx, insertBid,
		arg.ID,
		arg.RoomID,
		arg.ItemID,
		arg.BidderID,
		arg.Amount,
		arg.AcceptedAt,
	)
	return err
}

const listBidsByRoom = `SELECT id, room_id, item_id, bidder_id, amount, accepted_at
FROM bids
WHERE room_id = $1
ORDER BY accepted_at, id`

func (q *Queries) ListBidsByRoom(ctx context.Context, roomID uuid.UUID) ([]Bid, error) {
	rows, err := q.db.QueryContext(ctx, listBidsByRoom, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Bid
	for rows.Next() {
		var i Bid
		if err := rows.Scan(
			&i.ID,
			&i.RoomID,
			&i.ItemID,
			&i.BidderID,
			&i.Amount,
			&i.AcceptedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
