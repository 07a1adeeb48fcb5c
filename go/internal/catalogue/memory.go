package catalogue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// MemoryRepository keeps the catalogue in process, in insertion order
type MemoryRepository struct {
	mu     sync.RWMutex
	items  map[uuid.UUID]models.Item
	order  []uuid.UUID
	byName map[string]uuid.UUID
}

// NewMemoryRepository creates an empty in-process catalogue
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:  make(map[uuid.UUID]models.Item),
		byName: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) CreateItem(_ context.Context, item models.Item) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byName[item.Name]; taken {
		return nil, fmt.Errorf("item %q already exists: %w", item.Name, apperr.ErrInvalidInput)
	}
	m.putLocked(item)
	return &item, nil
}

func (m *MemoryRepository) ImportItems(_ context.Context, items []models.Item) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, item := range items {
		if _, taken := m.byName[item.Name]; taken {
			continue
		}
		m.putLocked(item)
		inserted++
	}
	return inserted, nil
}

func (m *MemoryRepository) putLocked(item models.Item) {
	m.items[item.ID] = item
	m.byName[item.Name] = item.ID
	m.order = append(m.order, item.ID)
}

func (m *MemoryRepository) GetItem(_ context.Context, id uuid.UUID) (*models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, apperr.ErrNotFound)
	}
	return &item, nil
}

func (m *MemoryRepository) ListItems(_ context.Context, category models.Category) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Item, 0, len(m.order))
	for _, id := range m.order {
		item := m.items[id]
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}
