package janitor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionpro/go/internal/models"
)

// Rooms lists and archives completed rooms
type Rooms interface {
	CompletedBefore(cutoff time.Time) []uuid.UUID
	Archive(roomID uuid.UUID) (models.Room, error)
}

// Ledger drops a room's entries
type Ledger interface {
	ReleaseRoom(roomID uuid.UUID) int
}

// Coordinator drops a room's countdown state
type Coordinator interface {
	Forget(roomID uuid.UUID)
}

// Subscribers disconnects a room's listeners
type Subscribers interface {
	CloseRoom(roomID uuid.UUID) int
}

// Config controls when rooms are archived
type Config struct {
	Schedule     string
	ArchiveAfter time.Duration
}

// DefaultConfig returns default janitor configuration
func DefaultConfig() Config {
	return Config{
		Schedule:     "@every 1m",
		ArchiveAfter: 10 * time.Minute,
	}
}

// Janitor periodically archives rooms that completed long enough ago
type Janitor struct {
	cron        *cron.Cron
	rooms       Rooms
	ledger      Ledger
	coordinator Coordinator
	subscribers Subscribers
	clock       clockwork.Clock
	config      Config
}

// New creates a janitor. Call Start to schedule sweeps.
func New(rooms Rooms, ledger Ledger, coordinator Coordinator, subscribers Subscribers, clock clockwork.Clock, config Config) *Janitor {
	logger := cronLogger{}
	return &Janitor{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		rooms:       rooms,
		ledger:      ledger,
		coordinator: coordinator,
		subscribers: subscribers,
		clock:       clock,
		config:      config,
	}
}

// Start registers the sweep on the configured schedule and starts the scheduler
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.config.Schedule, func() { j.Sweep() }); err != nil {
		return fmt.Errorf("register archive sweep %q: %w", j.config.Schedule, err)
	}
	j.cron.Start()
	log.Info().
		Str("schedule", j.config.Schedule).
		Dur("archive_after", j.config.ArchiveAfter).
		Msg("janitor started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	log.Info().Msg("janitor stopped")
}

// Sweep archives every room completed at least ArchiveAfter ago and
// returns how many were archived
func (j *Janitor) Sweep() int {
	cutoff := j.clock.Now().Add(-j.config.ArchiveAfter)
	archived := 0
	for _, roomID := range j.rooms.CompletedBefore(cutoff) {
		room, err := j.rooms.Archive(roomID)
		if err != nil {
			log.Warn().Err(err).Str("room_id", roomID.String()).Msg("failed to archive room")
			continue
		}
		entries := j.ledger.ReleaseRoom(roomID)
		j.coordinator.Forget(roomID)
		subs := j.subscribers.CloseRoom(roomID)
		archived++

		log.Info().
			Str("room_id", roomID.String()).
			Str("code", room.Code).
			Int("ledger_entries", entries).
			Int("subscribers", subs).
			Msg("room released")
	}
	return archived
}

// cronLogger routes scheduler logs through zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
