package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/auction/events"
)

// DefaultBufferSize is the per-subscriber queue length.
const DefaultBufferSize = 256

// Publisher accepts room events for delivery.
type Publisher interface {
	Publish(ev events.Event)
}

// Subscriber is one listener on a room's event stream
type Subscriber struct {
	ID           string
	RoomID       uuid.UUID
	UserID       uuid.UUID
	SubscribedAt time.Time

	ch chan events.Event
}

// Events yields the room's events in publish order. The channel is closed
// when the subscriber is removed, including when it falls too far behind.
func (s *Subscriber) Events() <-chan events.Event {
	return s.ch
}

// Hub fans room events out to in-process subscribers
type Hub struct {
	// Subscriber pools organized by room ID
	rooms map[uuid.UUID]map[*Subscriber]struct{}
	mu    sync.Mutex

	clock      clockwork.Clock
	bufferSize int
	published  uint64
	dropped    uint64
}

// NewHub creates a hub whose subscribers buffer bufferSize events.
func NewHub(bufferSize int, clock clockwork.Clock) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Subscriber]struct{}),
		clock:      clock,
		bufferSize: bufferSize,
	}
}

// Subscribe registers a listener for a room.
func (h *Hub) Subscribe(roomID, userID uuid.UUID) *Subscriber {
	sub := &Subscriber{
		ID:           uuid.NewString(),
		RoomID:       roomID,
		UserID:       userID,
		SubscribedAt: h.clock.Now(),
		ch:           make(chan events.Event, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Subscriber]struct{})
	}
	h.rooms[roomID][sub] = struct{}{}

	log.Debug().
		Str("subscriber_id", sub.ID).
		Str("room_id", roomID.String()).
		Int("total_subscribers", len(h.rooms[roomID])).
		Msg("subscriber registered")
	return sub
}

// Unsubscribe removes a listener. Removing one twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscriber) bool {
	subs, ok := h.rooms[sub.RoomID]
	if !ok {
		return false
	}
	if _, ok := subs[sub]; !ok {
		return false
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.rooms, sub.RoomID)
	}
	log.Debug().
		Str("subscriber_id", sub.ID).
		Str("room_id", sub.RoomID.String()).
		Msg("subscriber unregistered")
	return true
}

// Publish delivers ev to every subscriber of its room without blocking.
// A subscriber whose buffer is full is dropped.
func (h *Hub) Publish(ev events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.published++
	subs := h.rooms[ev.RoomID]
	for sub := range subs {
		select {
		case sub.ch <- ev:
		default:
			log.Warn().
				Str("subscriber_id", sub.ID).
				Str("user_id", sub.UserID.String()).
				Str("room_id", ev.RoomID.String()).
				Msg("subscriber buffer full, dropping subscriber")
			h.dropped++
			h.removeLocked(sub)
		}
	}

	log.Debug().
		Str("event_type", string(ev.Type)).
		Str("room_id", ev.RoomID.String()).
		Uint64("seq", ev.Seq).
		Int("subscribers", len(subs)).
		Msg("event broadcasted")
}

// CloseRoom removes every subscriber of a room.
func (h *Hub) CloseRoom(roomID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for sub := range h.rooms[roomID] {
		if h.removeLocked(sub) {
			n++
		}
	}
	return n
}

// Close removes every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.rooms {
		for sub := range subs {
			h.removeLocked(sub)
		}
	}
}

// Stats summarizes the hub's subscribers
type Stats struct {
	TotalSubscribers int            `json:"total_subscribers"`
	ActiveRooms      int            `json:"active_rooms"`
	RoomSubscribers  map[string]int `json:"room_subscribers"`
	Published        uint64         `json:"published"`
	Dropped          uint64         `json:"dropped"`
}

// Stats returns statistics about active subscribers
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := Stats{
		ActiveRooms:     len(h.rooms),
		RoomSubscribers: make(map[string]int, len(h.rooms)),
		Published:       h.published,
		Dropped:         h.dropped,
	}
	for roomID, subs := range h.rooms {
		stats.TotalSubscribers += len(subs)
		stats.RoomSubscribers[roomID.String()] = len(subs)
	}
	return stats
}

// Fanout publishes to several publishers in order.
type Fanout []Publisher

func (f Fanout) Publish(ev events.Event) {
	for _, p := range f {
		p.Publish(ev)
	}
}
