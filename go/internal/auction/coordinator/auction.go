package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/auction/events"
	"github.com/mcdev12/auctionpro/go/internal/auction/room"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// PlaceBidRequest is a bid on the item currently under the hammer.
type PlaceBidRequest struct {
	RoomID   uuid.UUID
	ItemID   uuid.UUID
	BidderID uuid.UUID
	Amount   decimal.Decimal
}

// Start opens bidding on the first queued item. Only the room's host may
// start it and only while the room is waiting.
func (c *Coordinator) Start(ctx context.Context, roomID, hostID uuid.UUID) error {
	return c.rooms.WithRoom(roomID, func(r *models.Room) error {
		if r.HostID != hostID {
			return fmt.Errorf("only the host may start the auction: %w", apperr.ErrForbidden)
		}
		if r.Status != models.RoomStatusWaiting {
			return fmt.Errorf("room %s is %s: %w", r.Code, r.Status, apperr.ErrInvalidState)
		}
		if len(r.ItemIDs) == 0 {
			return fmt.Errorf("room %s has no items queued: %w", r.Code, apperr.ErrInvalidState)
		}

		now := c.clock.Now()
		r.Status = models.RoomStatusActive
		r.StartedAt = &now
		r.HighestBid = decimal.Zero
		r.HighestBidder = nil
		itemID, _ := room.AdvanceCursor(r)

		deadline := c.armCountdown(r.ID)
		r.BidDeadline = &deadline

		c.emit(r, events.EventTypeAuctionStarted, &deadline, events.AuctionStartedPayload{
			RoomCode:  r.Code,
			ItemIndex: 0,
			ItemID:    itemID,
			ItemCount: len(r.ItemIDs),
		})

		log.Info().
			Str("room_id", r.ID.String()).
			Str("host_id", hostID.String()).
			Int("items", len(r.ItemIDs)).
			Msg("auction started")
		return nil
	})
}

// SubmitBid validates and applies a bid. A rejected bid changes nothing and
// is not broadcast.
func (c *Coordinator) SubmitBid(ctx context.Context, req PlaceBidRequest) (*models.Bid, error) {
	var accepted models.Bid
	err := c.rooms.WithRoom(req.RoomID, func(r *models.Room) error {
		if r.Status != models.RoomStatusActive {
			return fmt.Errorf("room %s is %s: %w", r.Code, r.Status, apperr.ErrAuctionNotActive)
		}
		now := c.clock.Now()
		if r.BidDeadline != nil && !now.Before(*r.BidDeadline) {
			return fmt.Errorf("bidding on the current item has closed: %w", apperr.ErrAuctionNotActive)
		}
		current, ok := r.CurrentItem()
		if !ok {
			return fmt.Errorf("no item under the hammer: %w", apperr.ErrAuctionNotActive)
		}
		if current != req.ItemID {
			return fmt.Errorf("bid for %s while %s is up: %w", req.ItemID, current, apperr.ErrItemMismatch)
		}
		if !r.IsMember(req.BidderID) {
			return fmt.Errorf("bidder %s is not in room %s: %w", req.BidderID, r.Code, apperr.ErrForbidden)
		}
		if err := c.ledger.ValidateBid(r.ID, req.BidderID, req.Amount, r.HighestBid); err != nil {
			return err
		}

		bid := models.Bid{
			ID:         uuid.New(),
			RoomID:     r.ID,
			ItemID:     current,
			BidderID:   req.BidderID,
			Amount:     req.Amount,
			AcceptedAt: now,
		}
		if c.bids != nil {
			if err := c.bids.Append(ctx, bid); err != nil {
				return fmt.Errorf("record bid: %w", err)
			}
		}

		bidder := req.BidderID
		r.HighestBid = req.Amount
		r.HighestBidder = &bidder
		deadline := c.armCountdown(r.ID)
		r.BidDeadline = &deadline

		c.emit(r, events.EventTypeNewBid, &deadline, events.NewBidPayload{
			ItemID:   current,
			BidderID: bidder,
			Amount:   req.Amount,
		})

		log.Debug().
			Str("room_id", r.ID.String()).
			Str("item_id", current.String()).
			Str("bidder_id", bidder.String()).
			Str("amount", req.Amount.String()).
			Msg("bid accepted")

		accepted = bid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &accepted, nil
}

// OnTimerExpiry resolves the current item once its countdown has run out.
// Calling it before the deadline, or after the item has already been
// resolved, returns an error and changes nothing.
func (c *Coordinator) OnTimerExpiry(ctx context.Context, roomID uuid.UUID) error {
	return c.rooms.WithRoom(roomID, func(r *models.Room) error {
		if r.Status != models.RoomStatusActive {
			return fmt.Errorf("room %s is %s: %w", r.Code, r.Status, apperr.ErrAuctionNotActive)
		}
		if r.BidDeadline != nil && c.clock.Now().Before(*r.BidDeadline) {
			return fmt.Errorf("countdown still running until %s: %w", r.BidDeadline.Format("15:04:05.000"), apperr.ErrInvalidState)
		}
		c.cancelCountdown(r.ID)
		c.resolve(ctx, r)
		return nil
	})
}

// expire handles a queued countdown. Superseded countdowns are dropped.
func (c *Coordinator) expire(ctx context.Context, e expiry) error {
	err := c.rooms.WithRoom(e.roomID, func(r *models.Room) error {
		if r.Status != models.RoomStatusActive || !c.isCurrent(r.ID, e.gen) {
			log.Debug().
				Str("room_id", r.ID.String()).
				Uint64("generation", e.gen).
				Msg("ignoring stale countdown")
			return nil
		}
		c.cancelCountdown(r.ID)
		c.resolve(ctx, r)
		return nil
	})
	if errors.Is(err, apperr.ErrNotFound) {
		// archived while the expiry was queued
		return nil
	}
	return err
}

// resolve settles the current item and moves to the next one, completing
// the auction when the queue is exhausted. Caller holds the room's lock.
func (c *Coordinator) resolve(ctx context.Context, r *models.Room) {
	itemID, _ := r.CurrentItem()

	log.Debug().
		Str("room_id", r.ID.String()).
		Str("item_id", itemID.String()).
		Str("phase", string(PhaseResolution)).
		Msg("resolving item")

	if r.HighestBidder != nil {
		err := c.ledger.Settle(ctx, r.ID, itemID, *r.HighestBidder, r.HighestBid)
		switch {
		case err == nil:
			c.recordSale(r.ID)
		case errors.Is(err, apperr.ErrAlreadySettled):
			log.Error().
				Err(err).
				Str("room_id", r.ID.String()).
				Str("item_id", itemID.String()).
				Msg("duplicate settlement suppressed")
		default:
			log.Error().
				Err(err).
				Str("room_id", r.ID.String()).
				Str("item_id", itemID.String()).
				Str("winner_id", r.HighestBidder.String()).
				Msg("settlement failed, item left unsold")
		}
	} else {
		log.Info().
			Str("room_id", r.ID.String()).
			Str("item_id", itemID.String()).
			Msg("item unsold")
	}

	r.HighestBid = decimal.Zero
	r.HighestBidder = nil

	next, ok := room.AdvanceCursor(r)
	if ok {
		deadline := c.armCountdown(r.ID)
		r.BidDeadline = &deadline
		pos, _ := r.Cursor.Get()
		c.emit(r, events.EventTypeNextPlayer, &deadline, events.NextPlayerPayload{
			ItemIndex: pos,
			ItemID:    next,
		})
		return
	}

	c.cancelCountdown(r.ID)
	now := c.clock.Now()
	r.Status = models.RoomStatusCompleted
	r.CompletedAt = &now
	r.BidDeadline = nil

	sold := c.salesCount(r.ID)
	c.emit(r, events.EventTypeAuctionCompleted, nil, events.AuctionCompletedPayload{
		ItemsSold:   sold,
		ItemsUnsold: len(r.ItemIDs) - sold,
	})

	log.Info().
		Str("room_id", r.ID.String()).
		Int("items_sold", sold).
		Msg("auction completed")
}
