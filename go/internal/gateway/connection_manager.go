package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/auction/broadcast"
	"github.com/mcdev12/auctionpro/go/internal/auction/coordinator"
	"github.com/mcdev12/auctionpro/go/internal/auction/events"
)

// MessageHandler answers a frame sent by a client
type MessageHandler interface {
	HandleClientMessage(ctx context.Context, sess coordinator.Session, raw []byte) events.Reply
}

// ConnectionManager manages WebSocket connections for room events
type ConnectionManager struct {
	hub     *broadcast.Hub
	handler MessageHandler

	// Connections by ID, for stats and shutdown
	connections map[string]*Connection
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	ctx    context.Context
	cancel context.CancelFunc
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID     string
	UserID uuid.UUID
	RoomID uuid.UUID

	conn    *websocket.Conn
	sub     *broadcast.Subscriber
	replies chan []byte
	done    chan struct{}
	once    sync.Once
	manager *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	ReplyBuffer     int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		ReplyBuffer:     16,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// ConnectionStats summarizes live connections
type ConnectionStats struct {
	TotalConnections int             `json:"total_connections"`
	ActiveRooms      int             `json:"active_rooms"`
	RoomConnections  map[string]int  `json:"room_connections"`
	Hub              broadcast.Stats `json:"hub"`
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(hub *broadcast.Hub, handler MessageHandler, config ConnectionConfig) *ConnectionManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConnectionManager{
		hub:         hub,
		handler:     handler,
		connections: make(map[string]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and subscribes
// it to the room's events
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, userID, roomID uuid.UUID) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	sub := cm.hub.Subscribe(roomID, userID)
	c := &Connection{
		ID:          uuid.NewString(),
		UserID:      userID,
		RoomID:      roomID,
		conn:        conn,
		sub:         sub,
		replies:     make(chan []byte, cm.config.ReplyBuffer),
		done:        make(chan struct{}),
		manager:     cm,
		ConnectedAt: sub.SubscribedAt,
	}
	cm.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("user_id", userID.String()).
		Str("room_id", roomID.String()).
		Msg("WebSocket connection established")
	return nil
}

func (cm *ConnectionManager) register(c *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[c.ID] = c
}

func (cm *ConnectionManager) unregister(c *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.connections, c.ID)
}

// Stats returns statistics about active connections
func (cm *ConnectionManager) Stats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	perRoom := make(map[string]int)
	for _, c := range cm.connections {
		perRoom[c.RoomID.String()]++
	}
	return ConnectionStats{
		TotalConnections: len(cm.connections),
		ActiveRooms:      len(perRoom),
		RoomConnections:  perRoom,
		Hub:              cm.hub.Stats(),
	}
}

// Close drops every connection.
func (cm *ConnectionManager) Close() {
	cm.cancel()
	cm.mu.RLock()
	conns := make([]*Connection, 0, len(cm.connections))
	for _, c := range cm.connections {
		conns = append(conns, c)
	}
	cm.mu.RUnlock()

	for _, c := range conns {
		c.close()
	}
	log.Info().Int("connections", len(conns)).Msg("connection manager closed")
}

// close tears the connection down once; both pumps call it on exit.
func (c *Connection) close() {
	c.once.Do(func() {
		c.manager.hub.Unsubscribe(c.sub)
		close(c.done)
		c.conn.Close()
		c.manager.unregister(c)

		log.Info().
			Str("connection_id", c.ID).
			Str("user_id", c.UserID.String()).
			Str("room_id", c.RoomID.String()).
			Msg("connection closed")
	})
}

// reply queues a direct response; a full queue drops it.
func (c *Connection) reply(r events.Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal reply")
		return
	}
	select {
	case c.replies <- data:
	case <-c.done:
	default:
		log.Warn().
			Str("connection_id", c.ID).
			Msg("reply buffer full, dropping reply")
	}
}

// writePump sends room events and replies to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	write := func(msgType int, data []byte) error {
		c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
		return c.conn.WriteMessage(msgType, data)
	}

	for {
		select {
		case ev, ok := <-c.sub.Events():
			if !ok {
				// the hub removed us: room closed or we fell behind
				write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "unsubscribed"))
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Str("event_id", ev.ID.String()).Msg("failed to marshal event")
				continue
			}
			if err := write(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("failed to write event")
				return
			}

		case data := <-c.replies:
			if err := write(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("failed to write reply")
				return
			}

		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("failed to send ping")
				return
			}

		case <-c.done:
			return
		}
	}
}

// readPump reads client actions from the WebSocket connection
func (c *Connection) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.manager.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
		return nil
	})

	sess := coordinator.Session{
		ConnectionID: c.ID,
		UserID:       c.UserID,
		RoomID:       c.RoomID,
	}
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}

		c.reply(c.manager.handler.HandleClientMessage(c.manager.ctx, sess, message))
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	}
}
