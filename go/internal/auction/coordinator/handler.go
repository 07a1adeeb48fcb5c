package coordinator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/auction/events"
)

// Session identifies the connection a client message arrived on.
type Session struct {
	ConnectionID string
	UserID       uuid.UUID
	RoomID       uuid.UUID
}

// HandleClientMessage dispatches an inbound frame and returns the reply for
// the sending connection alone.
func (c *Coordinator) HandleClientMessage(ctx context.Context, sess Session, raw []byte) events.Reply {
	msg, err := events.DecodeClientMessage(raw)
	if err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", sess.ConnectionID).
			Msg("rejected malformed client message")
		return events.Rejected("", err)
	}
	if err := msg.CheckRoom(sess.RoomID); err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", sess.ConnectionID).
			Str("room_id", sess.RoomID.String()).
			Msg("rejected message for another room")
		return events.Rejected(msg.Type, err)
	}

	switch msg.Type {
	case events.ActionPlaceBid:
		_, err = c.SubmitBid(ctx, PlaceBidRequest{
			RoomID:   sess.RoomID,
			ItemID:   msg.ItemID,
			BidderID: sess.UserID,
			Amount:   msg.Amount,
		})

	case events.ActionStartAuction:
		err = c.Start(ctx, sess.RoomID, sess.UserID)

	case events.ActionBidTimerEnd:
		// client countdowns are advisory; the server clock decides
		log.Debug().
			Str("connection_id", sess.ConnectionID).
			Str("room_id", sess.RoomID.String()).
			Str("item_id", msg.ItemID.String()).
			Msg("client reported countdown end")

	default:
		err = fmt.Errorf("unhandled message type %q: %w", msg.Type, apperr.ErrInvalidInput)
	}

	if err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", sess.ConnectionID).
			Str("user_id", sess.UserID.String()).
			Str("action", string(msg.Type)).
			Msg("client action rejected")
		return events.Rejected(msg.Type, err)
	}
	return events.Accepted(msg.Type)
}
