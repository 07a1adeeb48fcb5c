package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// CompletedBefore lists rooms that completed at or before cutoff.
func (r *Registry) CompletedBefore(cutoff time.Time) []uuid.UUID {
	r.mu.RLock()
	slots := make(map[uuid.UUID]*slot, len(r.rooms))
	for id, s := range r.rooms {
		slots[id] = s
	}
	r.mu.RUnlock()

	var ids []uuid.UUID
	for id, s := range slots {
		s.mu.Lock()
		done := s.room.Status == models.RoomStatusCompleted &&
			s.room.CompletedAt != nil &&
			!s.room.CompletedAt.After(cutoff)
		s.mu.Unlock()
		if done {
			ids = append(ids, id)
		}
	}
	return ids
}

// Archive forgets a completed room, freeing its code and its members.
func (r *Registry) Archive(roomID uuid.UUID) (models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rooms[roomID]
	if !ok {
		return models.Room{}, fmt.Errorf("room %s: %w", roomID, apperr.ErrNotFound)
	}

	s.mu.Lock()
	room := s.room.Clone()
	s.mu.Unlock()

	if room.Status != models.RoomStatusCompleted {
		return models.Room{}, fmt.Errorf("room %s is %s: %w", room.Code, room.Status, apperr.ErrInvalidState)
	}

	delete(r.rooms, roomID)
	if r.byCode[room.Code] == roomID {
		delete(r.byCode, room.Code)
	}
	for _, m := range room.Members {
		if r.bidderRoom[m] == roomID {
			delete(r.bidderRoom, m)
		}
	}

	log.Info().
		Str("room_id", roomID.String()).
		Str("code", room.Code).
		Msg("room archived")
	return room, nil
}
