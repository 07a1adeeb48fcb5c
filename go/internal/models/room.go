package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomStatus defines the lifecycle state of an auction room.
type RoomStatus string

const (
	RoomStatusWaiting   RoomStatus = "waiting"
	RoomStatusActive    RoomStatus = "active"
	RoomStatusCompleted RoomStatus = "completed"
)

// Cursor is the index of the item under the hammer. The zero value means
// no item has been put up yet.
type Cursor struct {
	pos   int
	valid bool
}

// CursorAt returns a cursor positioned at i.
func CursorAt(i int) Cursor {
	return Cursor{pos: i, valid: true}
}

// Get returns the index and whether the cursor has been set.
func (c Cursor) Get() (int, bool) {
	return c.pos, c.valid
}

func (c Cursor) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.pos)
}

func (c *Cursor) UnmarshalJSON(data []byte) error {
	var pos *int
	if err := json.Unmarshal(data, &pos); err != nil {
		return err
	}
	if pos == nil {
		*c = Cursor{}
		return nil
	}
	*c = CursorAt(*pos)
	return nil
}

// Room is a live auction: an ordered item queue, its members and the
// standing high bid on the current item.
type Room struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	HostID        uuid.UUID       `json:"host_id"`
	ItemIDs       []uuid.UUID     `json:"item_ids"`
	Cursor        Cursor          `json:"current_item_index"`
	Status        RoomStatus      `json:"status"`
	HighestBid    decimal.Decimal `json:"current_highest_bid"`
	HighestBidder *uuid.UUID      `json:"current_highest_bidder,omitempty"`
	Members       []uuid.UUID     `json:"members"`
	BidDeadline   *time.Time      `json:"bid_deadline,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// CurrentItem returns the item under the hammer, if any.
func (r *Room) CurrentItem() (uuid.UUID, bool) {
	pos, ok := r.Cursor.Get()
	if !ok || pos < 0 || pos >= len(r.ItemIDs) {
		return uuid.Nil, false
	}
	return r.ItemIDs[pos], true
}

// IsMember reports whether bidderID has joined the room.
func (r *Room) IsMember(bidderID uuid.UUID) bool {
	for _, m := range r.Members {
		if m == bidderID {
			return true
		}
	}
	return false
}

// HasItem reports whether itemID is already queued.
func (r *Room) HasItem(itemID uuid.UUID) bool {
	for _, id := range r.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of the room's lock.
func (r *Room) Clone() Room {
	c := *r
	c.ItemIDs = append([]uuid.UUID(nil), r.ItemIDs...)
	c.Members = append([]uuid.UUID(nil), r.Members...)
	if r.HighestBidder != nil {
		b := *r.HighestBidder
		c.HighestBidder = &b
	}
	c.BidDeadline = copyTime(r.BidDeadline)
	c.StartedAt = copyTime(r.StartedAt)
	c.CompletedAt = copyTime(r.CompletedAt)
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
