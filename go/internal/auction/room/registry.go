package room

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

const maxCodeAttempts = 16

// EntryOpener materializes a bidder's ledger entry when they join.
type EntryOpener interface {
	OpenEntry(roomID, bidderID uuid.UUID, prefs []models.Category) error
}

// PreferenceSource resolves a bidder's stored category preferences and
// rejects bidders without an account.
type PreferenceSource interface {
	Preferences(ctx context.Context, bidderID uuid.UUID) ([]models.Category, error)
}

// CreateRoomRequest carries the inputs for opening a room.
type CreateRoomRequest struct {
	HostID  uuid.UUID
	Name    string
	ItemIDs []uuid.UUID
}

type slot struct {
	mu   sync.Mutex
	room models.Room
}

// Registry owns every room. The registry lock guards the indexes and is
// always taken before a room's own lock.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[uuid.UUID]*slot
	byCode     map[string]uuid.UUID
	bidderRoom map[uuid.UUID]uuid.UUID

	ledger    EntryOpener
	prefs     PreferenceSource
	clock     clockwork.Clock
	sanitizer *bluemonday.Policy
	newCode   func() string
}

// NewRegistry creates an empty registry. prefs may be nil.
func NewRegistry(ledger EntryOpener, prefs PreferenceSource, clock clockwork.Clock) *Registry {
	return &Registry{
		rooms:      make(map[uuid.UUID]*slot),
		byCode:     make(map[string]uuid.UUID),
		bidderRoom: make(map[uuid.UUID]uuid.UUID),
		ledger:     ledger,
		prefs:      prefs,
		clock:      clock,
		sanitizer:  bluemonday.StrictPolicy(),
		newCode:    generateCode,
	}
}

func generateCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// NormalizeCode canonicalizes a user-supplied room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom opens a room in the waiting state with a fresh join code.
func (r *Registry) CreateRoom(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	// strip markup but keep the text as typed
	name := strings.TrimSpace(html.UnescapeString(r.sanitizer.Sanitize(req.Name)))
	if name == "" {
		return nil, fmt.Errorf("room name is required: %w", apperr.ErrInvalidInput)
	}
	if req.HostID == uuid.Nil {
		return nil, fmt.Errorf("host is required: %w", apperr.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.uniqueCodeLocked()
	if err != nil {
		return nil, err
	}

	room := models.Room{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		HostID:    req.HostID,
		ItemIDs:   []uuid.UUID{},
		Status:    models.RoomStatusWaiting,
		Members:   []uuid.UUID{},
		CreatedAt: r.clock.Now(),
	}
	for _, id := range req.ItemIDs {
		if !room.HasItem(id) {
			room.ItemIDs = append(room.ItemIDs, id)
		}
	}

	r.rooms[room.ID] = &slot{room: room}
	r.byCode[code] = room.ID

	log.Info().
		Str("room_id", room.ID.String()).
		Str("code", code).
		Str("host_id", req.HostID.String()).
		Int("items", len(room.ItemIDs)).
		Msg("room created")

	out := room.Clone()
	return &out, nil
}

// uniqueCodeLocked picks a code not used by any open room. Caller holds r.mu.
func (r *Registry) uniqueCodeLocked() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := r.newCode()
		if _, taken := r.byCode[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique room code after %d attempts", maxCodeAttempts)
}

func (r *Registry) slotByID(roomID uuid.UUID) (*slot, error) {
	r.mu.RLock()
	s, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, apperr.ErrNotFound)
	}
	return s, nil
}

// Get returns a snapshot of a room by id.
func (r *Registry) Get(roomID uuid.UUID) (models.Room, error) {
	s, err := r.slotByID(roomID)
	if err != nil {
		return models.Room{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Clone(), nil
}

// ResolveCode maps a join code to its room id.
func (r *Registry) ResolveCode(code string) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[NormalizeCode(code)]
	if !ok {
		return uuid.Nil, fmt.Errorf("room code %q: %w", code, apperr.ErrNotFound)
	}
	return id, nil
}

// GetByCode returns a snapshot of a room by join code.
func (r *Registry) GetByCode(code string) (models.Room, error) {
	id, err := r.ResolveCode(code)
	if err != nil {
		return models.Room{}, err
	}
	return r.Get(id)
}

// WithRoom runs fn while holding the room's lock. All room mutations go
// through here so they are serialized per room.
func (r *Registry) WithRoom(roomID uuid.UUID, fn func(room *models.Room) error) error {
	s, err := r.slotByID(roomID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.room)
}

// JoinRoom adds a bidder to a waiting room and opens their ledger entry.
// A bidder may belong to only one room that has not yet completed.
func (r *Registry) JoinRoom(ctx context.Context, code string, bidderID uuid.UUID) (*models.Room, error) {
	if bidderID == uuid.Nil {
		return nil, fmt.Errorf("bidder is required: %w", apperr.ErrInvalidInput)
	}

	var prefs []models.Category
	if r.prefs != nil {
		p, err := r.prefs.Preferences(ctx, bidderID)
		if err != nil {
			return nil, fmt.Errorf("load preferences: %w", err)
		}
		prefs = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.byCode[NormalizeCode(code)]
	if !ok {
		return nil, fmt.Errorf("room code %q: %w", code, apperr.ErrNotFound)
	}
	s := r.rooms[roomID]

	if current, ok := r.bidderRoom[bidderID]; ok && current != roomID && r.openLocked(current) {
		return nil, fmt.Errorf("bidder already belongs to room %s: %w", current, apperr.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Status != models.RoomStatusWaiting {
		return nil, fmt.Errorf("room %s is %s: %w", s.room.Code, s.room.Status, apperr.ErrInvalidState)
	}
	if s.room.IsMember(bidderID) {
		out := s.room.Clone()
		return &out, nil
	}
	if err := r.ledger.OpenEntry(roomID, bidderID, prefs); err != nil {
		return nil, fmt.Errorf("open ledger entry: %w", err)
	}

	s.room.Members = append(s.room.Members, bidderID)
	r.bidderRoom[bidderID] = roomID

	log.Info().
		Str("room_id", roomID.String()).
		Str("bidder_id", bidderID.String()).
		Int("members", len(s.room.Members)).
		Msg("bidder joined room")

	out := s.room.Clone()
	return &out, nil
}

// openLocked reports whether a room exists and has not completed. Caller
// holds r.mu and must not hold the room's lock.
func (r *Registry) openLocked(roomID uuid.UUID) bool {
	s, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Status != models.RoomStatusCompleted
}

// AddItem queues an item on a waiting room. Only the host may add items and
// queuing an item twice is a no-op.
func (r *Registry) AddItem(roomID, hostID, itemID uuid.UUID) (*models.Room, error) {
	var out models.Room
	err := r.WithRoom(roomID, func(room *models.Room) error {
		if room.HostID != hostID {
			return fmt.Errorf("only the host may add items: %w", apperr.ErrForbidden)
		}
		if room.Status != models.RoomStatusWaiting {
			return fmt.Errorf("room %s is %s: %w", room.Code, room.Status, apperr.ErrInvalidState)
		}
		if !room.HasItem(itemID) {
			room.ItemIDs = append(room.ItemIDs, itemID)
		}
		out = room.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AdvanceCursor moves the room to its next item. It returns false once the
// queue is exhausted, leaving the cursor one past the last item. Caller
// holds the room's lock.
func AdvanceCursor(room *models.Room) (uuid.UUID, bool) {
	next := 0
	if pos, ok := room.Cursor.Get(); ok {
		next = pos + 1
	}
	if next >= len(room.ItemIDs) {
		room.Cursor = models.CursorAt(len(room.ItemIDs))
		return uuid.Nil, false
	}
	room.Cursor = models.CursorAt(next)
	return room.ItemIDs[next], true
}

// RoomOf returns the room a bidder most recently joined.
func (r *Registry) RoomOf(bidderID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bidderRoom[bidderID]
	if !ok {
		return uuid.Nil, fmt.Errorf("bidder %s has not joined a room: %w", bidderID, apperr.ErrNotFound)
	}
	return id, nil
}

// ListOpen returns snapshots of every room still waiting for bidders.
func (r *Registry) ListOpen() []models.Room {
	r.mu.RLock()
	slots := make([]*slot, 0, len(r.rooms))
	for _, s := range r.rooms {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	out := make([]models.Room, 0, len(slots))
	for _, s := range slots {
		s.mu.Lock()
		if s.room.Status == models.RoomStatusWaiting {
			out = append(out, s.room.Clone())
		}
		s.mu.Unlock()
	}
	return out
}
