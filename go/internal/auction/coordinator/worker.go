package coordinator

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Run processes countdown expiries with a pool of workers until ctx is
// cancelled, then stops every countdown.
func (c *Coordinator) Run(ctx context.Context) error {
	log.Info().
		Str("instance", c.instanceID).
		Int("workers", c.numWorkers).
		Dur("bid_duration", c.bidDuration).
		Msg("auction coordinator started")

	var wg sync.WaitGroup
	for i := 0; i < c.numWorkers; i++ {
		wg.Add(1)
		go c.worker(ctx, &wg, i)
	}

	<-ctx.Done()
	log.Info().Str("instance", c.instanceID).Msg("coordinator shutdown requested")

	wg.Wait()
	c.Close()
	log.Info().Str("instance", c.instanceID).Msg("all workers shut down")
	return nil
}

// Close stops every countdown and releases the expiry queue.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.stopAllCountdowns()
		c.cancel()
	})
}

// worker resolves expired countdowns from the expiry queue
func (c *Coordinator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", c.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", c.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case e, ok := <-c.expiries.Out:
			if !ok {
				return
			}
			if err := c.expire(ctx, e); err != nil {
				log.Error().
					Err(err).
					Str("room_id", e.roomID.String()).
					Str("instance", c.instanceID).
					Int("worker_id", workerID).
					Msg("worker expiry handling failed")
			}
		}
	}
}
