package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Item struct {
	ID               uuid.UUID
	Name             string
	Category         string
	PerformanceScore float64
	Stats            pqtype.NullRawMessage
	CreatedBy        uuid.NullUUID
	CreatedAt        time.Time
}

const itemColumns = `id, name, category, performance_score, stats, created_by, created_at`

const createItem = `INSERT INTO items (` + itemColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + itemColumns

type CreateItemParams struct {
	ID               uuid.UUID
	Name             string
	Category         string
	PerformanceScore float64
	Stats            pqtype.NullRawMessage
	CreatedBy        uuid.NullUUID
	CreatedAt        time.Time
}

func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (Item, error) {
	row := q.db.QueryRowContext(ctx, createItem,
		arg.ID,
		arg.Name,
		arg.Category,
		arg.PerformanceScore,
		arg.Stats,
		arg.CreatedBy,
		arg.CreatedAt,
	)
	return scanItem(row)
}

const insertItemIfAbsent = `INSERT INTO items (` + itemColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (name) DO NOTHING`

func (q *Queries) InsertItemIfAbsent(ctx context.Context, arg CreateItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertItemIfAbsent,
		arg.ID,
		arg.Name,
		arg.Category,
		arg.PerformanceScore,
		arg.Stats,
		arg.CreatedBy,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getItem = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

func (q *Queries) GetItem(ctx context.Context, id uuid.UUID) (Item, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItem, id))
}

const listItems = `SELECT ` + itemColumns + ` FROM items ORDER BY created_at, name`

func (q *Queries) ListItems(ctx context.Context) ([]Item, error) {
	return q.queryItems(ctx, listItems)
}

const listItemsByCategory = `SELECT ` + itemColumns + ` FROM items WHERE category = $1 ORDER BY created_at, name`

func (q *Queries) ListItemsByCategory(ctx context.Context, category string) ([]Item, error) {
	return q.queryItems(ctx, listItemsByCategory, category)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (Item, error) {
	var i Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.PerformanceScore,
		&i.Stats,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) queryItems(ctx context.Context, query string, args ...interface{}) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
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
