package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/smallnest/chanx"

	"github.com/mcdev12/auctionpro/go/internal/auction/broadcast"
	"github.com/mcdev12/auctionpro/go/internal/auction/events"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

const (
	defaultBidDuration = 5 * time.Second
	defaultNumWorkers  = 4
	expiryQueueInitCap = 64
)

// RoomStore is the slice of the room registry the coordinator drives.
type RoomStore interface {
	WithRoom(roomID uuid.UUID, fn func(room *models.Room) error) error
	Get(roomID uuid.UUID) (models.Room, error)
}

// Ledger validates bids and settles sold items.
type Ledger interface {
	ValidateBid(roomID, bidderID uuid.UUID, amount, currentHighest decimal.Decimal) error
	Settle(ctx context.Context, roomID, itemID, winnerID uuid.UUID, amount decimal.Decimal) error
}

// BidLog records every accepted bid.
type BidLog interface {
	Append(ctx context.Context, bid models.Bid) error
}

// Config tunes the coordinator.
type Config struct {
	BidDuration time.Duration
	NumWorkers  int
	InstanceID  string
}

// Phase is the coordinator's view of where a room is in its auction.
type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseBidding    Phase = "bidding"
	PhaseResolution Phase = "resolution"
	PhaseCompleted  Phase = "completed"
)

// roomRuntime is the per-room countdown and event sequence. Guarded by
// Coordinator.runtimesMu.
type roomRuntime struct {
	timer clockwork.Timer
	gen   uint64
	seq   uint64
	sold  int
}

// expiry is queued when a countdown fires. gen identifies the countdown so
// a superseded one is ignored.
type expiry struct {
	roomID uuid.UUID
	gen    uint64
}

// Coordinator runs the live auction for every room: it starts auctions,
// accepts bids, resolves items when their countdown expires and publishes
// the resulting events.
type Coordinator struct {
	rooms     RoomStore
	ledger    Ledger
	publisher broadcast.Publisher
	bids      BidLog
	clock     clockwork.Clock

	bidDuration time.Duration
	numWorkers  int
	instanceID  string

	expiries  *chanx.UnboundedChan[expiry]
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	runtimesMu sync.Mutex
	runtimes   map[uuid.UUID]*roomRuntime
}

// New creates a coordinator. bids may be nil.
func New(
	rooms RoomStore,
	ledger Ledger,
	publisher broadcast.Publisher,
	bids BidLog,
	clock clockwork.Clock,
	cfg Config,
) *Coordinator {
	if cfg.BidDuration <= 0 {
		cfg.BidDuration = defaultBidDuration
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = defaultNumWorkers
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		rooms:       rooms,
		ledger:      ledger,
		publisher:   publisher,
		bids:        bids,
		clock:       clock,
		bidDuration: cfg.BidDuration,
		numWorkers:  cfg.NumWorkers,
		instanceID:  cfg.InstanceID,
		expiries:    chanx.NewUnboundedChan[expiry](ctx, expiryQueueInitCap),
		ctx:         ctx,
		cancel:      cancel,
		runtimes:    make(map[uuid.UUID]*roomRuntime),
	}
}

// BidDuration is the countdown length for each item.
func (c *Coordinator) BidDuration() time.Duration {
	return c.bidDuration
}

// emit publishes an event for a room. Caller holds the room's lock, which
// keeps events in the order their mutations happened.
func (c *Coordinator) emit(room *models.Room, typ events.EventType, deadline *time.Time, payload any) {
	ev, err := events.New(room.ID, typ, c.nextSeq(room.ID), c.clock.Now(), deadline, payload)
	if err != nil {
		log.Error().
			Err(err).
			Str("room_id", room.ID.String()).
			Str("event_type", string(typ)).
			Msg("failed to build event")
		return
	}
	c.publisher.Publish(ev)
}

func (c *Coordinator) nextSeq(roomID uuid.UUID) uint64 {
	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()
	rt := c.runtimeLocked(roomID)
	rt.seq++
	return rt.seq
}

func (c *Coordinator) recordSale(roomID uuid.UUID) {
	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()
	c.runtimeLocked(roomID).sold++
}

func (c *Coordinator) salesCount(roomID uuid.UUID) int {
	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()
	return c.runtimeLocked(roomID).sold
}

func (c *Coordinator) runtimeLocked(roomID uuid.UUID) *roomRuntime {
	rt, ok := c.runtimes[roomID]
	if !ok {
		rt = &roomRuntime{}
		c.runtimes[roomID] = rt
	}
	return rt
}

// Forget drops the countdown and sequence state kept for a room.
func (c *Coordinator) Forget(roomID uuid.UUID) {
	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()
	if rt, ok := c.runtimes[roomID]; ok {
		if rt.timer != nil {
			rt.timer.Stop()
		}
		delete(c.runtimes, roomID)
	}
}

func phaseOf(room *models.Room) Phase {
	switch room.Status {
	case models.RoomStatusActive:
		return PhaseBidding
	case models.RoomStatusCompleted:
		return PhaseCompleted
	default:
		return PhaseWaiting
	}
}
