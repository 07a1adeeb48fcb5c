package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionStartedPayload is sent once when the host starts the auction
type AuctionStartedPayload struct {
	RoomCode  string    `json:"room_code"`
	ItemIndex int       `json:"item_index"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemCount int       `json:"item_count"`
}

// NewBidPayload is sent for every accepted bid
type NewBidPayload struct {
	ItemID   uuid.UUID       `json:"item_id"`
	BidderID uuid.UUID       `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// NextPlayerPayload is sent when the hammer moves to the next item
type NextPlayerPayload struct {
	ItemIndex int       `json:"item_index"`
	ItemID    uuid.UUID `json:"item_id"`
}

// BidTimerEndPayload is what clients send when their local countdown hits
// zero. The server only uses it for logging.
type BidTimerEndPayload struct {
	ItemID uuid.UUID `json:"item_id"`
}

// AuctionCompletedPayload is sent once the queue is exhausted
type AuctionCompletedPayload struct {
	ItemsSold   int `json:"items_sold"`
	ItemsUnsold int `json:"items_unsold"`
}
