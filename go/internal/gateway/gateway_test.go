package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionpro/go/internal/auction/broadcast"
	"github.com/mcdev12/auctionpro/go/internal/auction/coordinator"
	"github.com/mcdev12/auctionpro/go/internal/auction/ledger"
	"github.com/mcdev12/auctionpro/go/internal/auction/room"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

type fixture struct {
	server *httptest.Server
	cm     *ConnectionManager
	room   *models.Room
	host   uuid.UUID
	bidder uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := clockwork.NewFakeClock()

	led := ledger.New(ledger.NewMemoryStore(), decimal.NewFromInt(120), clock)
	reg := room.NewRegistry(led, nil, clock)
	hub := broadcast.NewHub(0, clock)
	coord := coordinator.New(reg, led, hub, nil, clock, coordinator.Config{})
	cm := NewConnectionManager(hub, coord, DefaultConnectionConfig())

	f := &fixture{cm: cm, host: uuid.New(), bidder: uuid.New()}
	r, err := reg.CreateRoom(ctx, room.CreateRoomRequest{HostID: f.host, Name: "gateway", ItemIDs: []uuid.UUID{uuid.New()}})
	require.NoError(t, err)
	_, err = reg.JoinRoom(ctx, r.Code, f.bidder)
	require.NoError(t, err)
	f.room = r

	mux := http.NewServeMux()
	NewWebSocketHandler(cm, reg).RegisterRoutes(mux)
	NewStateHandler(reg, coord).RegisterStateRoutes(mux)
	f.server = httptest.NewServer(CORS(nil, mux))

	t.Cleanup(func() {
		cm.Close()
		f.server.Close()
		coord.Close()
		hub.Close()
	})
	return f
}

func (f *fixture) dial(t *testing.T, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/rooms/" + f.room.Code + "?user_id=" + userID.String()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

type frame struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Reason string `json:"reason"`
	Seq    uint64 `json:"seq"`
}

// readFrames reads until n frames arrived or the deadline passes.
func readFrames(t *testing.T, conn *websocket.Conn, n int) []frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	out := make([]frame, 0, n)
	for len(out) < n {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var fr frame
		require.NoError(t, json.Unmarshal(data, &fr))
		out = append(out, fr)
	}
	return out
}

func types(frames []frame) []string {
	out := make([]string, 0, len(frames))
	for _, fr := range frames {
		out = append(out, fr.Type)
	}
	return out
}

func TestWebSocketAuctionFlow(t *testing.T) {
	f := newFixture(t)
	hostConn := f.dial(t, f.host)
	bidderConn := f.dial(t, f.bidder)

	require.Eventually(t, func() bool {
		return f.cm.Stats().TotalConnections == 2
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hostConn.WriteJSON(map[string]any{"type": "start_auction"}))
	assert.ElementsMatch(t, []string{"auction_started", "accepted"}, types(readFrames(t, hostConn, 2)))
	assert.Equal(t, []string{"auction_started"}, types(readFrames(t, bidderConn, 1)))

	itemID := f.room.ItemIDs[0]
	require.NoError(t, bidderConn.WriteJSON(map[string]any{"type": "place_bid", "item_id": itemID, "amount": "10"}))
	assert.ElementsMatch(t, []string{"new_bid", "accepted"}, types(readFrames(t, bidderConn, 2)))
	hostFrames := readFrames(t, hostConn, 1)
	assert.Equal(t, "new_bid", hostFrames[0].Type)
	assert.Equal(t, uint64(2), hostFrames[0].Seq)

	// rejections go to the sender only
	require.NoError(t, bidderConn.WriteJSON(map[string]any{"type": "place_bid", "item_id": itemID, "amount": "5"}))
	rejected := readFrames(t, bidderConn, 1)[0]
	assert.Equal(t, "rejected", rejected.Type)
	assert.Equal(t, "bid_too_low", rejected.Reason)

	require.NoError(t, bidderConn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, "invalid_input", readFrames(t, bidderConn, 1)[0].Reason)

	require.NoError(t, hostConn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := hostConn.ReadMessage()
	assert.Error(t, err, "host must not see the bidder's rejections")
}

func TestStateAndStatsEndpoints(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/api/rooms/" + strings.ToLower(f.room.Code) + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state coordinator.RoomState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, f.room.ID, state.Room.ID)
	assert.Equal(t, coordinator.PhaseWaiting, state.Phase)
	assert.Nil(t, state.Deadline)

	missing, err := http.Get(f.server.URL + "/api/rooms/NOPE0000/state")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	f.dial(t, f.bidder)
	require.Eventually(t, func() bool {
		return f.cm.Stats().TotalConnections == 1
	}, time.Second, 10*time.Millisecond)

	statsResp, err := http.Get(f.server.URL + "/ws/stats")
	require.NoError(t, err)
	defer statsResp.Body.Close()
	var stats ConnectionStats
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.TotalConnections)
	assert.Equal(t, 1, stats.Hub.TotalSubscribers)
	assert.Equal(t, 1, stats.RoomConnections[f.room.ID.String()])
}

func TestRoomConnectionRejectsBadRequests(t *testing.T) {
	f := newFixture(t)
	base := "ws" + strings.TrimPrefix(f.server.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(base+"/ws/rooms/"+f.room.Code, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+"/ws/rooms/NOPE0000?user_id="+uuid.NewString(), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
