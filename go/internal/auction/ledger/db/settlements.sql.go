package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Settlement struct {
	RoomID    uuid.UUID
	ItemID    uuid.UUID
	WinnerID  uuid.UUID
	Amount    decimal.Decimal
	SettledAt time.Time
}

const insertSettlement = `INSERT INTO settlements (room_id, item_id, winner_id, amount, settled_at)
VALUES ($1, $2, $3, $4, $5)`

type InsertSettlementParams struct {
	RoomID    uuid.UUID
	ItemID    uuid.UUID
	WinnerID  uuid.UUID
	Amount    decimal.Decimal
	SettledAt time.Time
}

func (q *Queries) InsertSettlement(ctx context.Context, arg InsertSettlementParams) error {
	_, err := q.db.ExecContext(ctx, insertSettlement,
		arg.RoomID,
		arg.ItemID,
		arg.WinnerID,
		arg.Amount,
		arg.SettledAt,
	)
	return err
}

const listSettlementsByRoom = `SELECT room_id, item_id, winner_id, amount, settled_at
FROM settlements
WHERE room_id = $1
ORDER BY settled_at, item_id`

func (q *Queries) ListSettlementsByRoom(ctx context.Context, roomID uuid.UUID) ([]Settlement, error) {
	rows, err := q.db.QueryContext(ctx, listSettlementsByRoom, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Settlement
	for rows.Next() {
		var i Settlement
		if err := rows.Scan(
			&i.RoomID,
			&i.ItemID,
			&i.WinnerID,
			&i.Amount,
			&i.SettledAt,
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
