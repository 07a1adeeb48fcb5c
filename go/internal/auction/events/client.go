package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
)

// ClientAction names an intent sent by a connected client
type ClientAction string

const (
	ActionPlaceBid     ClientAction = "place_bid"
	ActionStartAuction ClientAction = "start_auction"
	ActionBidTimerEnd  ClientAction = "bid_timer_end"
)

// ClientMessage is an inbound websocket frame. RoomID is optional; when
// set it must name the room the connection joined.
type ClientMessage struct {
	Type   ClientAction    `json:"type"`
	RoomID uuid.UUID       `json:"room_id"`
	ItemID uuid.UUID       `json:"item_id"`
	Amount decimal.Decimal `json:"amount"`
}

// CheckRoom rejects a message addressed to a room other than roomID.
func (m ClientMessage) CheckRoom(roomID uuid.UUID) error {
	if m.RoomID != uuid.Nil && m.RoomID != roomID {
		return fmt.Errorf("message for room %s sent on room %s: %w", m.RoomID, roomID, apperr.ErrInvalidInput)
	}
	return nil
}

// DecodeClientMessage parses and validates an inbound frame.
func DecodeClientMessage(raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %v: %w", err, apperr.ErrInvalidInput)
	}
	switch msg.Type {
	case ActionPlaceBid:
		if msg.ItemID == uuid.Nil {
			return ClientMessage{}, fmt.Errorf("place_bid requires item_id: %w", apperr.ErrInvalidInput)
		}
	case ActionStartAuction, ActionBidTimerEnd:
	default:
		return ClientMessage{}, fmt.Errorf("unknown message type %q: %w", msg.Type, apperr.ErrInvalidInput)
	}
	return msg, nil
}

// ReplyType names a direct response to the connection that sent a message
type ReplyType string

const (
	ReplyAccepted ReplyType = "accepted"
	ReplyRejected ReplyType = "rejected"
)

// Reply is sent only to the submitting connection, never broadcast
type Reply struct {
	Type    ReplyType    `json:"type"`
	Action  ClientAction `json:"action,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Rejected builds a reply describing why an action failed.
func Rejected(action ClientAction, err error) Reply {
	return Reply{
		Type:    ReplyRejected,
		Action:  action,
		Reason:  apperr.Kind(err),
		Message: err.Error(),
	}
}

// Accepted builds a reply acknowledging an action.
func Accepted(action ClientAction) Reply {
	return Reply{Type: ReplyAccepted, Action: action}
}
