package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope broadcast to every subscriber of a room
type Event struct {
	ID        uuid.UUID       `json:"id"`                 // Event UUID
	RoomID    uuid.UUID       `json:"room_id"`            // Room UUID
	Type      EventType       `json:"type"`               // Event type
	Seq       uint64          `json:"seq"`                // Per-room sequence, starts at 1
	Timestamp time.Time       `json:"timestamp"`          // Event creation time
	Deadline  *time.Time      `json:"deadline,omitempty"` // Countdown deadline when a bid phase is open
	Data      json.RawMessage `json:"data"`               // Event-specific payload
}

// EventType represents the type of room event
type EventType string

const (
	EventTypeAuctionStarted   EventType = "auction_started"
	EventTypeNewBid           EventType = "new_bid"
	EventTypeNextPlayer       EventType = "next_player"
	EventTypeBidTimerEnd      EventType = "bid_timer_end"
	EventTypeAuctionCompleted EventType = "auction_completed"
)

// New builds an envelope around payload.
func New(roomID uuid.UUID, typ EventType, seq uint64, at time.Time, deadline *time.Time, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Event{
		ID:        uuid.New(),
		RoomID:    roomID,
		Type:      typ,
		Seq:       seq,
		Timestamp: at,
		Deadline:  deadline,
		Data:      data,
	}, nil
}

// ParsePayload decodes the event data into its typed payload
func ParsePayload(event *Event) (interface{}, error) {
	switch event.Type {
	case EventTypeAuctionStarted:
		var payload AuctionStartedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeNewBid:
		var payload NewBidPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeNextPlayer:
		var payload NextPlayerPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeBidTimerEnd:
		var payload BidTimerEndPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeAuctionCompleted:
		var payload AuctionCompletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown event type: %s", event.Type)
	}
}
