package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
	"github.com/smallnest/chanx"

	"github.com/mcdev12/auctionpro/go/internal/auction/events"
)

const (
	// SeqHeader carries the per-room sequence number of the event
	SeqHeader = "Auction-Seq"

	queueInitCap = 64

	maxPublishAttempts = 5
)

// Config holds the NATS connection and stream settings
type Config struct {
	URL           string
	Stream        string
	SubjectPrefix string
	MaxAge        time.Duration
	MaxReconnects int
	ReconnectWait time.Duration
	MaxPending    int
	DrainTimeout  time.Duration
}

// DefaultConfig returns default relay configuration
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Stream:        "AUCTION_EVENTS",
		SubjectPrefix: "auction.rooms",
		MaxAge:        24 * time.Hour,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		MaxPending:    1024,
		DrainTimeout:  5 * time.Second,
	}
}

// Relay copies room events onto a JetStream stream for consumers in other
// processes. Publish never blocks on the network.
type Relay struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config Config

	queue  *chanx.UnboundedChan[events.Event]
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	mu     sync.RWMutex
	closed bool
}

// Connect dials NATS, ensures the stream exists and starts the relay loop
func Connect(ctx context.Context, config Config) (*Relay, error) {
	nc, err := nats.Connect(config.URL,
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc, jetstream.WithPublishAsyncMaxPending(config.MaxPending))
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        config.Stream,
		Description: "Live auction room events",
		Subjects:    []string{config.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      config.MaxAge,
		Duplicates:  time.Minute,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", config.Stream, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &Relay{
		nc:     nc,
		js:     js,
		config: config,
		queue:  chanx.NewUnboundedChan[events.Event](runCtx, queueInitCap),
		cancel: cancel,
	}
	r.wg.Add(1)
	go r.run()

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("stream", config.Stream).
		Msg("event relay connected")
	return r, nil
}

// Publish queues an event for the stream. Events published after Close
// are discarded.
func (r *Relay) Publish(ev events.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	r.queue.In <- ev
}

// run publishes queued events until the queue is closed and empty
func (r *Relay) run() {
	defer r.wg.Done()
	for ev := range r.queue.Out {
		msg, err := NewMsg(r.config.SubjectPrefix, ev)
		if err != nil {
			log.Error().Err(err).Str("event_id", ev.ID.String()).Msg("failed to encode event for relay")
			continue
		}
		if err := r.publish(msg, ev); err != nil {
			log.Warn().
				Err(err).
				Str("room_id", ev.RoomID.String()).
				Str("event_type", string(ev.Type)).
				Msg("failed to relay event")
		}
	}
}

// publish sends msg asynchronously, waiting out a full pending window
// before retrying.
func (r *Relay) publish(msg *nats.Msg, ev events.Event) error {
	var err error
	for attempt := 1; attempt <= maxPublishAttempts; attempt++ {
		_, err = r.js.PublishMsgAsync(msg, jetstream.WithMsgID(ev.ID.String()))
		if !errors.Is(err, jetstream.ErrTooManyStalledMsgs) {
			return err
		}
		select {
		case <-r.js.PublishAsyncComplete():
		case <-time.After(r.config.DrainTimeout):
		}
	}
	return err
}

// Close stops accepting events, publishes everything already queued, waits
// for acknowledgements bounded by DrainTimeout, then drains the connection.
func (r *Relay) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue.In)
		r.mu.Unlock()

		r.wg.Wait()

		select {
		case <-r.js.PublishAsyncComplete():
		case <-time.After(r.config.DrainTimeout):
			log.Warn().Int("pending", r.js.PublishAsyncPending()).Msg("relay closed with unacknowledged events")
		}
		r.cancel()
		if err := r.nc.Drain(); err != nil {
			log.Error().Err(err).Msg("failed to drain NATS connection")
		}
		log.Info().Msg("event relay closed")
	})
}

// Subject names the stream subject for an event: <prefix>.<room_id>.<type>
func Subject(prefix string, ev events.Event) string {
	return fmt.Sprintf("%s.%s.%s", prefix, ev.RoomID, ev.Type)
}

// NewMsg encodes an event as a NATS message
func NewMsg(prefix string, ev events.Event) (*nats.Msg, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	msg := nats.NewMsg(Subject(prefix, ev))
	msg.Data = data
	msg.Header.Set(SeqHeader, strconv.FormatUint(ev.Seq, 10))
	return msg, nil
}
