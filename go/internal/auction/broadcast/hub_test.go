package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mcdev12/auctionpro/go/internal/auction/events"
)

func event(t *testing.T, roomID uuid.UUID, seq uint64) events.Event {
	t.Helper()
	ev, err := events.New(roomID, events.EventTypeNewBid, seq, time.Now(), nil, events.NewBidPayload{})
	require.NoError(t, err)
	return ev
}

func TestPublishReachesRoomSubscribersInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(64, clockwork.NewFakeClock())
	room, other := uuid.New(), uuid.New()
	subs := []*Subscriber{hub.Subscribe(room, uuid.New()), hub.Subscribe(room, uuid.New())}
	outsider := hub.Subscribe(other, uuid.New())

	var wg sync.WaitGroup
	received := make([][]uint64, len(subs))
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub *Subscriber) {
			defer wg.Done()
			for ev := range sub.Events() {
				received[i] = append(received[i], ev.Seq)
			}
		}(i, sub)
	}

	for seq := uint64(1); seq <= 20; seq++ {
		hub.Publish(event(t, room, seq))
	}
	hub.CloseRoom(room)
	wg.Wait()

	for i := range subs {
		require.Len(t, received[i], 20)
		for j, seq := range received[i] {
			assert.Equal(t, uint64(j+1), seq)
		}
	}

	select {
	case ev := <-outsider.Events():
		t.Fatalf("unexpected cross-room event %v", ev.Type)
	default:
	}
	hub.Close()
}

func TestSubscribeUsesHubClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 4, 1, 19, 30, 0, 0, time.UTC))
	hub := NewHub(4, clock)
	defer hub.Close()

	sub := hub.Subscribe(uuid.New(), uuid.New())
	assert.Equal(t, clock.Now(), sub.SubscribedAt)

	clock.Advance(time.Minute)
	later := hub.Subscribe(uuid.New(), uuid.New())
	assert.Equal(t, time.Minute, later.SubscribedAt.Sub(sub.SubscribedAt))
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(2, clockwork.NewFakeClock())
	room := uuid.New()
	slow := hub.Subscribe(room, uuid.New())
	fast := hub.Subscribe(room, uuid.New())

	done := make(chan int)
	go func() {
		n := 0
		for range fast.Events() {
			n++
		}
		done <- n
	}()

	for seq := uint64(1); seq <= 3; seq++ {
		hub.Publish(event(t, room, seq))
		time.Sleep(10 * time.Millisecond)
	}

	// slow never read: two buffered events then closed
	var got []uint64
	for ev := range slow.Events() {
		got = append(got, ev.Seq)
	}
	assert.Equal(t, []uint64{1, 2}, got)

	stats := hub.Stats()
	assert.Equal(t, 1, stats.TotalSubscribers)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, uint64(3), stats.Published)

	hub.Unsubscribe(fast)
	hub.Unsubscribe(fast)
	assert.Equal(t, 3, <-done)
	assert.Equal(t, 0, hub.Stats().ActiveRooms)
}

type recorder struct {
	mu  sync.Mutex
	got []events.EventType
}

func (r *recorder) Publish(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev.Type)
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Fanout{a, b}.Publish(event(t, uuid.New(), 1))
	assert.Equal(t, []events.EventType{events.EventTypeNewBid}, a.got)
	assert.Equal(t, []events.EventType{events.EventTypeNewBid}, b.got)
}
