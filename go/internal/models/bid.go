package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is an accepted bid on the item currently under the hammer.
type Bid struct {
	ID         uuid.UUID       `json:"id"`
	RoomID     uuid.UUID       `json:"room_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	BidderID   uuid.UUID       `json:"bidder_id"`
	Amount     decimal.Decimal `json:"amount"`
	AcceptedAt time.Time       `json:"accepted_at"`
}

// Settlement records the sale of one item to its winning bidder.
type Settlement struct {
	RoomID    uuid.UUID       `json:"room_id"`
	ItemID    uuid.UUID       `json:"item_id"`
	WinnerID  uuid.UUID       `json:"winner_id"`
	Amount    decimal.Decimal `json:"amount"`
	SettledAt time.Time       `json:"settled_at"`
}

// LedgerEntry tracks one bidder's budget and winnings within a room.
type LedgerEntry struct {
	RoomID          uuid.UUID       `json:"room_id"`
	BidderID        uuid.UUID       `json:"bidder_id"`
	StartingBudget  decimal.Decimal `json:"starting_budget"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
	WonItems        []uuid.UUID     `json:"won_items"`
	Preferences     []Category      `json:"preferences"`
	OpenedAt        time.Time       `json:"opened_at"`
}

// Clone returns a copy that shares no slices with e.
func (e LedgerEntry) Clone() LedgerEntry {
	e.WonItems = append([]uuid.UUID(nil), e.WonItems...)
	e.Preferences = append([]Category(nil), e.Preferences...)
	return e
}
