package gateway

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/auction/coordinator"
)

// StateProvider returns a room's current snapshot
type StateProvider interface {
	State(roomID uuid.UUID) (coordinator.RoomState, error)
}

// StateHandler serves room snapshots to clients that connect mid-auction.
// Subscribers receive only future events, so this is how they catch up.
type StateHandler struct {
	rooms RoomResolver
	state StateProvider
}

// NewStateHandler creates a new state handler
func NewStateHandler(rooms RoomResolver, state StateProvider) *StateHandler {
	return &StateHandler{rooms: rooms, state: state}
}

// HandleGetRoomState handles GET /api/rooms/{code}/state
func (h *StateHandler) HandleGetRoomState(w http.ResponseWriter, r *http.Request) {
	roomID, err := h.rooms.ResolveCode(r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := h.state.State(roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/rooms/{code}/state", h.HandleGetRoomState)
}
