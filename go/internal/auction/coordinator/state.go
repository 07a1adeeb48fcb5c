package coordinator

import (
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/models"
)

// RoomState is a point-in-time view of a room for clients that connect
// mid-auction.
type RoomState struct {
	Room            models.Room `json:"room"`
	Phase           Phase       `json:"phase"`
	CurrentItemID   *uuid.UUID  `json:"current_item_id,omitempty"`
	Deadline        *time.Time  `json:"deadline,omitempty"`
	TimeRemainingMs int64       `json:"time_remaining_ms"`
	ServerTime      time.Time   `json:"server_time"`
}

// State returns the room snapshot plus the countdown as seen by the server.
func (c *Coordinator) State(roomID uuid.UUID) (RoomState, error) {
	r, err := c.rooms.Get(roomID)
	if err != nil {
		return RoomState{}, err
	}

	now := c.clock.Now()
	state := RoomState{
		Room:       r,
		Phase:      phaseOf(&r),
		ServerTime: now,
	}
	if id, ok := r.CurrentItem(); ok && r.Status == models.RoomStatusActive {
		state.CurrentItemID = &id
	}
	if r.BidDeadline != nil {
		d := *r.BidDeadline
		state.Deadline = &d
		if remaining := d.Sub(now); remaining > 0 {
			state.TimeRemainingMs = remaining.Milliseconds()
		}
	}
	return state, nil
}
