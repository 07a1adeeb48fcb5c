package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
)

// RoomResolver maps a join code to its room
type RoomResolver interface {
	ResolveCode(code string) (uuid.UUID, error)
}

// WebSocketHandler handles WebSocket upgrade requests for room connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	rooms             RoomResolver
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, rooms RoomResolver) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		rooms:             rooms,
	}
}

// HandleRoomConnection handles GET /ws/rooms/{code}?user_id=
func (h *WebSocketHandler) HandleRoomConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil || userID == uuid.Nil {
		http.Error(w, "valid user_id is required", http.StatusBadRequest)
		return
	}

	code := r.PathValue("code")
	roomID, err := h.rooms.ResolveCode(code)
	if err != nil {
		writeError(w, err)
		return
	}

	// Upgrade writes its own HTTP error on failure
	if err := h.connectionManager.UpgradeConnection(w, r, userID, roomID); err != nil {
		log.Error().
			Err(err).
			Str("room_id", roomID.String()).
			Str("user_id", userID.String()).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.connectionManager.Stats())
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/rooms/{code}", h.HandleRoomConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("gateway request failed")
	}
	writeJSON(w, status, map[string]string{
		"error":   apperr.Kind(err),
		"message": err.Error(),
	})
}
