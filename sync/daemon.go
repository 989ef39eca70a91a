// ABOUTME: Background sync daemon loop
// ABOUTME: Runs passes on a fixed ticker and on connectivity transitions
package sync

import (
	"context"
	"log"
	"time"
)

// RunDaemon drives the engine until ctx is cancelled. A pass runs
// immediately, then on every ticker interval, and whenever connectivity
// transitions to online. Overlapping triggers coalesce inside the engine.
func RunDaemon(ctx context.Context, engine *Engine, events <-chan bool, interval time.Duration) error {
	if interval < MinInterval {
		interval = MinInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial pass so a freshly started daemon drains without waiting a tick
	if err := engine.Trigger(ctx); err != nil {
		log.Printf("[daemon] sync failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			// An in-flight pass is abandoned; pending entries survive and the
			// next run retries in full.
			return ctx.Err()

		case <-ticker.C:
			if err := engine.Trigger(ctx); err != nil {
				log.Printf("[daemon] sync failed: %v", err)
			}

		case online, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if online {
				log.Printf("[daemon] connectivity restored, syncing")
				if err := engine.Trigger(ctx); err != nil {
					log.Printf("[daemon] sync failed: %v", err)
				}
			}
		}
	}
}
