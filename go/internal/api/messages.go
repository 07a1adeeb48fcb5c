package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/auctionpro/go/internal/models"
)

// Account messages

type CreateAccountRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	UserType models.UserType `json:"user_type"`
}

type CreateAccountResponse struct {
	User *models.User `json:"user"`
}

type AuthenticateRequest struct {
	Email string `json:"email"`
}

type AuthenticateResponse struct {
	User *models.User `json:"user"`
}

type GetUserRequest struct {
	ID uuid.UUID `json:"id"`
}

type GetUserResponse struct {
	User *models.User `json:"user"`
}

type UpsertProfileRequest struct {
	UserID      uuid.UUID         `json:"user_id"`
	Preferences []models.Category `json:"preferences"`
}

type GetProfileRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// ProfileResponse carries the profile plus the platform-wide budget every
// bidder starts a room with.
type ProfileResponse struct {
	Profile        *models.Profile `json:"profile"`
	StartingBudget decimal.Decimal `json:"starting_budget"`
}

// Catalogue messages

type CreateItemRequest struct {
	HostID           uuid.UUID       `json:"host_id"`
	Name             string          `json:"name"`
	Category         models.Category `json:"category"`
	PerformanceScore float64         `json:"performance_score"`
	Stats            json.RawMessage `json:"stats,omitempty"`
}

type CreateItemResponse struct {
	Item *models.Item `json:"item"`
}

type GetItemRequest struct {
	ID uuid.UUID `json:"id"`
}

type GetItemResponse struct {
	Item *models.Item `json:"item"`
}

type ListItemsRequest struct {
	Category models.Category `json:"category,omitempty"`
}

type ListItemsResponse struct {
	Items []models.Item `json:"items"`
}

// Auction messages

type CreateRoomRequest struct {
	HostID  uuid.UUID   `json:"host_id"`
	Name    string      `json:"name"`
	ItemIDs []uuid.UUID `json:"item_ids,omitempty"`
}

type CreateRoomResponse struct {
	RoomID uuid.UUID    `json:"room_id"`
	Code   string       `json:"code"`
	Room   *models.Room `json:"room"`
}

type AddItemRequest struct {
	Code   string    `json:"code"`
	HostID uuid.UUID `json:"host_id"`
	ItemID uuid.UUID `json:"item_id"`
}

type AddItemResponse struct {
	Room *models.Room `json:"room"`
}

type JoinRoomRequest struct {
	Code     string    `json:"code"`
	BidderID uuid.UUID `json:"bidder_id"`
}

type JoinRoomResponse struct {
	Room *models.Room `json:"room"`
}

type GetRoomRequest struct {
	Code string `json:"code"`
}

type GetRoomResponse struct {
	Room            *models.Room  `json:"room"`
	Items           []models.Item `json:"items"`
	Phase           string        `json:"phase"`
	Deadline        *time.Time    `json:"deadline,omitempty"`
	TimeRemainingMs int64         `json:"time_remaining_ms"`
}

type ListRoomsRequest struct{}

type ListRoomsResponse struct {
	Rooms []models.Room `json:"rooms"`
}

type StartAuctionRequest struct {
	Code   string    `json:"code"`
	HostID uuid.UUID `json:"host_id"`
}

type StartAuctionResponse struct {
	Room *models.Room `json:"room"`
}

type PlaceBidRequest struct {
	Code     string          `json:"code"`
	ItemID   uuid.UUID       `json:"item_id"`
	BidderID uuid.UUID       `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type PlaceBidResponse struct {
	Bid *models.Bid `json:"bid"`
}

// GetLedgerRequest reads a bidder's ledger. Code is optional and defaults
// to the room the bidder most recently joined.
type GetLedgerRequest struct {
	BidderID uuid.UUID `json:"bidder_id"`
	Code     string    `json:"code,omitempty"`
}

type GetLedgerResponse struct {
	RoomID          uuid.UUID       `json:"room_id"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
	WonItems        []uuid.UUID     `json:"won_items"`
}

// GetRecommendationsRequest ranks a room's upcoming items for a bidder.
// Code is optional and defaults to the bidder's current room.
type GetRecommendationsRequest struct {
	BidderID uuid.UUID `json:"bidder_id"`
	Code     string    `json:"code,omitempty"`
}

type GetRecommendationsResponse struct {
	ItemIDs []uuid.UUID   `json:"item_ids"`
	Items   []models.Item `json:"items"`
}

type ListBidsRequest struct {
	Code string `json:"code"`
}

type ListBidsResponse struct {
	Bids []models.Bid `json:"bids"`
}

type ListSettlementsRequest struct {
	Code string `json:"code"`
}

type ListSettlementsResponse struct {
	Settlements []models.Settlement `json:"settlements"`
}
