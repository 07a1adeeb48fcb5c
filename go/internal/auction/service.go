package auction

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/api"
	"github.com/mcdev12/auctionpro/go/internal/auction/coordinator"
	"github.com/mcdev12/auctionpro/go/internal/auction/ledger"
	"github.com/mcdev12/auctionpro/go/internal/auction/room"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// Rooms is the registry surface the service drives
type Rooms interface {
	CreateRoom(ctx context.Context, req room.CreateRoomRequest) (*models.Room, error)
	JoinRoom(ctx context.Context, code string, bidderID uuid.UUID) (*models.Room, error)
	AddItem(roomID, hostID, itemID uuid.UUID) (*models.Room, error)
	ResolveCode(code string) (uuid.UUID, error)
	RoomOf(bidderID uuid.UUID) (uuid.UUID, error)
	ListOpen() []models.Room
}

// Coordinator drives a room's live auction
type Coordinator interface {
	Start(ctx context.Context, roomID, hostID uuid.UUID) error
	SubmitBid(ctx context.Context, req coordinator.PlaceBidRequest) (*models.Bid, error)
	State(roomID uuid.UUID) (coordinator.RoomState, error)
}

// Ledger exposes bidder budgets
type Ledger interface {
	RoomSnapshot(roomID, bidderID uuid.UUID) (ledger.Snapshot, error)
	Snapshot(bidderID uuid.UUID) (ledger.Snapshot, error)
}

// Recommender ranks a room's upcoming items for a bidder
type Recommender interface {
	Recommend(ctx context.Context, bidderID, roomID uuid.UUID) ([]uuid.UUID, error)
}

// Items resolves catalogue entries
type Items interface {
	Resolve(ctx context.Context, ids []uuid.UUID) ([]models.Item, error)
}

// Hosts confirms a user is a host
type Hosts interface {
	RequireHost(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// BidHistory lists a room's accepted bids
type BidHistory interface {
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Bid, error)
}

// SettlementHistory lists a room's settlements
type SettlementHistory interface {
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Settlement, error)
}

// Deps groups the collaborators of the auction service
type Deps struct {
	Rooms       Rooms
	Coordinator Coordinator
	Ledger      Ledger
	Recommender Recommender
	Items       Items
	Hosts       Hosts
	Bids        BidHistory
	Settlements SettlementHistory
}

// Service implements the AuctionService RPCs
type Service struct {
	rooms       Rooms
	coordinator Coordinator
	ledger      Ledger
	recommender Recommender
	items       Items
	hosts       Hosts
	bids        BidHistory
	settlements SettlementHistory
}

// NewService creates a new auction service
func NewService(d Deps) *Service {
	return &Service{
		rooms:       d.Rooms,
		coordinator: d.Coordinator,
		ledger:      d.Ledger,
		recommender: d.Recommender,
		items:       d.Items,
		hosts:       d.Hosts,
		bids:        d.Bids,
		settlements: d.Settlements,
	}
}

// Register mounts the service's handlers on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(api.Unary(api.CreateRoomProcedure, s.CreateRoom))
	mux.Handle(api.Unary(api.AddItemProcedure, s.AddItem))
	mux.Handle(api.Unary(api.JoinRoomProcedure, s.JoinRoom))
	mux.Handle(api.Unary(api.GetRoomProcedure, s.GetRoom))
	mux.Handle(api.Unary(api.ListRoomsProcedure, s.ListRooms))
	mux.Handle(api.Unary(api.StartAuctionProcedure, s.StartAuction))
	mux.Handle(api.Unary(api.PlaceBidProcedure, s.PlaceBid))
	mux.Handle(api.Unary(api.GetLedgerProcedure, s.GetLedger))
	mux.Handle(api.Unary(api.GetRecommendationsProcedure, s.GetRecommendations))
	mux.Handle(api.Unary(api.ListBidsProcedure, s.ListBids))
	mux.Handle(api.Unary(api.ListSettlementsProcedure, s.ListSettlements))
}

// CreateRoom opens a room for a host with an optional initial item queue
func (s *Service) CreateRoom(ctx context.Context, req *api.CreateRoomRequest) (*api.CreateRoomResponse, error) {
	if _, err := s.hosts.RequireHost(ctx, req.HostID); err != nil {
		return nil, err
	}
	if _, err := s.items.Resolve(ctx, req.ItemIDs); err != nil {
		return nil, err
	}
	r, err := s.rooms.CreateRoom(ctx, room.CreateRoomRequest{
		HostID:  req.HostID,
		Name:    req.Name,
		ItemIDs: req.ItemIDs,
	})
	if err != nil {
		return nil, err
	}
	return &api.CreateRoomResponse{RoomID: r.ID, Code: r.Code, Room: r}, nil
}

// AddItem appends a catalogue item to a waiting room's queue
func (s *Service) AddItem(ctx context.Context, req *api.AddItemRequest) (*api.AddItemResponse, error) {
	roomID, err := s.rooms.ResolveCode(req.Code)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.Resolve(ctx, []uuid.UUID{req.ItemID}); err != nil {
		return nil, err
	}
	r, err := s.rooms.AddItem(roomID, req.HostID, req.ItemID)
	if err != nil {
		return nil, err
	}
	return &api.AddItemResponse{Room: r}, nil
}

func (s *Service) JoinRoom(ctx context.Context, req *api.JoinRoomRequest) (*api.JoinRoomResponse, error) {
	r, err := s.rooms.JoinRoom(ctx, req.Code, req.BidderID)
	if err != nil {
		return nil, err
	}
	return &api.JoinRoomResponse{Room: r}, nil
}

// GetRoom returns the room snapshot with its resolved items and countdown
func (s *Service) GetRoom(ctx context.Context, req *api.GetRoomRequest) (*api.GetRoomResponse, error) {
	roomID, err := s.rooms.ResolveCode(req.Code)
	if err != nil {
		return nil, err
	}
	state, err := s.coordinator.State(roomID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.Resolve(ctx, state.Room.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &api.GetRoomResponse{
		Room:            &state.Room,
		Items:           items,
		Phase:           string(state.Phase),
		Deadline:        state.Deadline,
		TimeRemainingMs: state.TimeRemainingMs,
	}, nil
}

func (s *Service) ListRooms(_ context.Context, _ *api.ListRoomsRequest) (*api.ListRoomsResponse, error) {
	return &api.ListRoomsResponse{Rooms: s.rooms.ListOpen()}, nil
}

func (s *Service) StartAuction(ctx context.Context, req *api.StartAuctionRequest) (*api.StartAuctionResponse, error) {
	roomID, err := s.rooms.ResolveCode(req.Code)
	if err != nil {
		return nil, err
	}
	if err := s.coordinator.Start(ctx, roomID, req.HostID); err != nil {
		return nil, err
	}
	state, err := s.coordinator.State(roomID)
	if err != nil {
		return nil, err
	}
	return &api.StartAuctionResponse{Room: &state.Room}, nil
}

// PlaceBid submits a bid over the request channel. Rejections are returned
// to the caller only.
func (s *Service) PlaceBid(ctx context.Context, req *api.PlaceBidRequest) (*api.PlaceBidResponse, error) {
	roomID, err := s.rooms.ResolveCode(req.Code)
	if err != nil {
		return nil, err
	}
	bid, err := s.coordinator.SubmitBid(ctx, coordinator.PlaceBidRequest{
		RoomID:   roomID,
		ItemID:   req.ItemID,
		BidderID: req.BidderID,
		Amount:   req.Amount,
	})
	if err != nil {
		log.Debug().
			Err(err).
			Str("room_id", roomID.String()).
			Str("bidder_id", req.BidderID.String()).
			Msg("bid rejected")
		return nil, err
	}
	return &api.PlaceBidResponse{Bid: bid}, nil
}

func (s *Service) GetLedger(_ context.Context, req *api.GetLedgerRequest) (*api.GetLedgerResponse, error) {
	var (
		snap ledger.Snapshot
		err  error
	)
	if req.Code == "" {
		snap, err = s.ledger.Snapshot(req.BidderID)
	} else {
		var roomID uuid.UUID
		if roomID, err = s.rooms.ResolveCode(req.Code); err != nil {
			return nil, err
		}
		snap, err = s.ledger.RoomSnapshot(roomID, req.BidderID)
	}
	if err != nil {
		return nil, err
	}
	return &api.GetLedgerResponse{
		RoomID:          snap.RoomID,
		RemainingBudget: snap.RemainingBudget,
		WonItems:        snap.WonItems,
	}, nil
}

func (s *Service) GetRecommendations(ctx context.Context, req *api.GetRecommendationsRequest) (*api.GetRecommendationsResponse, error) {
	roomID, err := s.roomFor(req.Code, req.BidderID)
	if err != nil {
		return nil, err
	}
	ids, err := s.recommender.Recommend(ctx, req.BidderID, roomID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &api.GetRecommendationsResponse{ItemIDs: ids, Items: items}, nil
}

func (s *Service) ListBids(ctx context.Context, req *api.ListBidsRequest) (*api.ListBidsResponse, error) {
	roomID, err := s.rooms.ResolveCode(req.Code)
	if err != nil {
		return nil, err
	}
	bids, err := s.bids.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &api.ListBidsResponse{Bids: bids}, nil
}

func (s *Service) ListSettlements(ctx context.Context, req *api.ListSettlementsRequest) (*api.ListSettlementsResponse, error) {
	roomID, err := s.rooms.ResolveCode(req.Code)
	if err != nil {
		return nil, err
	}
	settlements, err := s.settlements.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &api.ListSettlementsResponse{Settlements: settlements}, nil
}

// roomFor resolves an explicit code, falling back to the bidder's current room.
func (s *Service) roomFor(code string, bidderID uuid.UUID) (uuid.UUID, error) {
	if code != "" {
		return s.rooms.ResolveCode(code)
	}
	return s.rooms.RoomOf(bidderID)
}
