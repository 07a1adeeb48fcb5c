package catalogue

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/api"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// CatalogueApp defines what the service layer needs from the catalogue application
type CatalogueApp interface {
	CreateItem(ctx context.Context, hostID uuid.UUID, req CreateItemRequest) (*models.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context, category models.Category) ([]models.Item, error)
}

// Service implements the CatalogueService RPCs
type Service struct {
	app CatalogueApp
}

// NewService creates a new catalogue service
func NewService(app CatalogueApp) *Service {
	return &Service{app: app}
}

// Register mounts the service's handlers on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(api.Unary(api.CreateItemProcedure, s.CreateItem))
	mux.Handle(api.Unary(api.GetItemProcedure, s.GetItem))
	mux.Handle(api.Unary(api.ListItemsProcedure, s.ListItems))
}

func (s *Service) CreateItem(ctx context.Context, req *api.CreateItemRequest) (*api.CreateItemResponse, error) {
	item, err := s.app.CreateItem(ctx, req.HostID, CreateItemRequest{
		Name:             req.Name,
		Category:         req.Category,
		PerformanceScore: req.PerformanceScore,
		Stats:            req.Stats,
	})
	if err != nil {
		return nil, err
	}
	return &api.CreateItemResponse{Item: item}, nil
}

func (s *Service) GetItem(ctx context.Context, req *api.GetItemRequest) (*api.GetItemResponse, error) {
	item, err := s.app.GetItem(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &api.GetItemResponse{Item: item}, nil
}

func (s *Service) ListItems(ctx context.Context, req *api.ListItemsRequest) (*api.ListItemsResponse, error) {
	items, err := s.app.ListItems(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	return &api.ListItemsResponse{Items: items}, nil
}
