package catalogue

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/catalogue/db"
	"github.com/mcdev12/auctionpro/go/internal/models"
	"github.com/mcdev12/auctionpro/go/internal/sqlutil"
)

// Repository implements item data access on SQL
type Repository struct {
	db      *sql.DB
	queries *db.Queries
}

// NewRepository creates a new items repository
func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		db:      database,
		queries: db.New(database),
	}
}

// CreateItem inserts an item
func (r *Repository) CreateItem(ctx context.Context, item models.Item) (*models.Item, error) {
	row, err := r.queries.CreateItem(ctx, itemParams(item))
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return nil, fmt.Errorf("item %q already exists: %w", item.Name, apperr.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return dbItemToModel(row), nil
}

// ImportItems inserts items in one transaction, skipping names already present
func (r *Repository) ImportItems(ctx context.Context, items []models.Item) (int, error) {
	inserted := 0
	err := sqlutil.Run(ctx, r.db, r.queries.WithTx, func(q *db.Queries) error {
		for _, item := range items {
			n, err := q.InsertItemIfAbsent(ctx, itemParams(item))
			if err != nil {
				return fmt.Errorf("insert %q: %w", item.Name, err)
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import items: %w", err)
	}
	return inserted, nil
}

// GetItem retrieves an item by ID
func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row, err := r.queries.GetItem(ctx, id)
	if err != nil {
		if sqlutil.IsNoRows(err) {
			return nil, fmt.Errorf("item %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return dbItemToModel(row), nil
}

// ListItems lists the catalogue, optionally filtered to one category
func (r *Repository) ListItems(ctx context.Context, category models.Category) ([]models.Item, error) {
	var (
		rows []db.Item
		err  error
	)
	if category == "" {
		rows, err = r.queries.ListItems(ctx)
	} else {
		rows, err = r.queries.ListItemsByCategory(ctx, string(category))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	out := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, *dbItemToModel(row))
	}
	return out, nil
}

func itemParams(item models.Item) db.CreateItemParams {
	var createdBy *uuid.UUID
	if item.CreatedBy != uuid.Nil {
		createdBy = &item.CreatedBy
	}
	return db.CreateItemParams{
		ID:               item.ID,
		Name:             item.Name,
		Category:         string(item.Category),
		PerformanceScore: item.PerformanceScore,
		Stats:            sqlutil.ToNullRawMessage(item.Stats),
		CreatedBy:        sqlutil.ToNullUUID(createdBy),
		CreatedAt:        item.CreatedAt,
	}
}

// dbItemToModel converts a database item to domain model
func dbItemToModel(row db.Item) *models.Item {
	item := &models.Item{
		ID:               row.ID,
		Name:             row.Name,
		Category:         models.Category(row.Category),
		PerformanceScore: row.PerformanceScore,
		Stats:            sqlutil.FromNullRawMessage(row.Stats),
		CreatedAt:        row.CreatedAt,
	}
	if by := sqlutil.FromNullUUID(row.CreatedBy); by != nil {
		item.CreatedBy = *by
	}
	return item
}
