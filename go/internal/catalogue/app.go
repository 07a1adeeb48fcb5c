package catalogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// ItemsRepository defines what the app layer needs from the repository
type ItemsRepository interface {
	CreateItem(ctx context.Context, item models.Item) (*models.Item, error)
	ImportItems(ctx context.Context, items []models.Item) (int, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context, category models.Category) ([]models.Item, error)
}

// HostChecker confirms a user may create catalogue entries
type HostChecker interface {
	RequireHost(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CreateItemRequest represents the data needed to create an item
type CreateItemRequest struct {
	Name             string          `json:"name" yaml:"name"`
	Category         models.Category `json:"category" yaml:"category"`
	PerformanceScore float64         `json:"performance_score" yaml:"performance_score"`
	Stats            json.RawMessage `json:"stats,omitempty" yaml:"-"`
}

// App handles catalogue business logic
type App struct {
	repo      ItemsRepository
	hosts     HostChecker
	clock     clockwork.Clock
	sanitizer *bluemonday.Policy
}

// NewApp creates a new catalogue App
func NewApp(repo ItemsRepository, hosts HostChecker, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		hosts:     hosts,
		clock:     clock,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// CreateItem adds an item on behalf of a host
func (a *App) CreateItem(ctx context.Context, hostID uuid.UUID, req CreateItemRequest) (*models.Item, error) {
	if _, err := a.hosts.RequireHost(ctx, hostID); err != nil {
		return nil, err
	}
	item, err := a.newItem(req, hostID)
	if err != nil {
		return nil, err
	}
	created, err := a.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("item_id", created.ID.String()).
		Str("name", created.Name).
		Str("category", string(created.Category)).
		Msg("created item")
	return created, nil
}

// Import loads items without an owning host, skipping names already present
func (a *App) Import(ctx context.Context, reqs []CreateItemRequest) (int, error) {
	items := make([]models.Item, 0, len(reqs))
	for i, req := range reqs {
		item, err := a.newItem(req, uuid.Nil)
		if err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	n, err := a.repo.ImportItems(ctx, items)
	if err != nil {
		return 0, err
	}
	log.Info().Int("inserted", n).Int("total", len(items)).Msg("catalogue imported")
	return n, nil
}

func (a *App) newItem(req CreateItemRequest, createdBy uuid.UUID) (models.Item, error) {
	name := strings.TrimSpace(html.UnescapeString(a.sanitizer.Sanitize(req.Name)))
	if name == "" {
		return models.Item{}, fmt.Errorf("item name is required: %w", apperr.ErrInvalidInput)
	}
	category, err := models.ParseCategory(string(req.Category))
	if err != nil {
		return models.Item{}, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput)
	}
	if math.IsNaN(req.PerformanceScore) || math.IsInf(req.PerformanceScore, 0) || req.PerformanceScore < 0 {
		return models.Item{}, fmt.Errorf("performance score must be a non-negative number: %w", apperr.ErrInvalidInput)
	}
	if len(req.Stats) > 0 && !json.Valid(req.Stats) {
		return models.Item{}, fmt.Errorf("stats must be valid JSON: %w", apperr.ErrInvalidInput)
	}
	return models.Item{
		ID:               uuid.New(),
		Name:             name,
		Category:         category,
		PerformanceScore: req.PerformanceScore,
		Stats:            req.Stats,
		CreatedBy:        createdBy,
		CreatedAt:        a.clock.Now(),
	}, nil
}

// GetItem retrieves an item by ID
func (a *App) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return a.repo.GetItem(ctx, id)
}

// ListItems lists the catalogue, optionally by category
func (a *App) ListItems(ctx context.Context, category models.Category) ([]models.Item, error) {
	if category != "" {
		parsed, err := models.ParseCategory(string(category))
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput)
		}
		category = parsed
	}
	return a.repo.ListItems(ctx, category)
}

// ItemsByID resolves several items, silently skipping unknown ids
func (a *App) ItemsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	out := make(map[uuid.UUID]models.Item, len(ids))
	for _, id := range ids {
		item, err := a.repo.GetItem(ctx, id)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = *item
	}
	return out, nil
}

// Resolve returns items in the order of ids, failing on any unknown id
func (a *App) Resolve(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	out := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		item, err := a.repo.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}
