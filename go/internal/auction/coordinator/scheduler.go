package coordinator

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// armCountdown replaces any running countdown for the room with a fresh one
// and returns its deadline. Caller holds the room's lock.
func (c *Coordinator) armCountdown(roomID uuid.UUID) time.Time {
	deadline := c.clock.Now().Add(c.bidDuration)

	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()

	rt := c.runtimeLocked(roomID)
	if rt.timer != nil {
		rt.timer.Stop()
	}
	rt.gen++
	gen := rt.gen
	rt.timer = c.clock.AfterFunc(c.bidDuration, func() {
		c.enqueueExpiry(expiry{roomID: roomID, gen: gen})
	})

	log.Debug().
		Str("room_id", roomID.String()).
		Uint64("generation", gen).
		Time("deadline", deadline).
		Msg("countdown armed")
	return deadline
}

// cancelCountdown stops the room's countdown and invalidates any expiry
// already queued for it.
func (c *Coordinator) cancelCountdown(roomID uuid.UUID) {
	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()

	rt := c.runtimeLocked(roomID)
	if rt.timer != nil {
		rt.timer.Stop()
		rt.timer = nil
	}
	rt.gen++
}

// isCurrent reports whether gen is the room's live countdown.
func (c *Coordinator) isCurrent(roomID uuid.UUID, gen uint64) bool {
	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()
	rt, ok := c.runtimes[roomID]
	return ok && rt.timer != nil && rt.gen == gen
}

func (c *Coordinator) enqueueExpiry(e expiry) {
	select {
	case c.expiries.In <- e:
		log.Debug().
			Str("room_id", e.roomID.String()).
			Uint64("generation", e.gen).
			Msg("countdown fired - enqueued for processing")
	case <-c.ctx.Done():
	}
}

// stopAllCountdowns is used on shutdown.
func (c *Coordinator) stopAllCountdowns() {
	c.runtimesMu.Lock()
	defer c.runtimesMu.Unlock()
	for roomID, rt := range c.runtimes {
		if rt.timer != nil {
			rt.timer.Stop()
			rt.timer = nil
			log.Debug().Str("room_id", roomID.String()).Msg("cancelled countdown on shutdown")
		}
	}
}
