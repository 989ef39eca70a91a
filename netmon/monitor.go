// ABOUTME: Connectivity monitor probing the server health endpoint
// ABOUTME: Exposes the online/offline boolean and transition events
package netmon

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultProbeInterval is how often reachability is re-checked.
const DefaultProbeInterval = 10 * time.Second

// Monitor tracks whether the remote server is reachable. It only reports
// state; retry and backoff live in the sync engine's scheduling.
type Monitor struct {
	probe    func(ctx context.Context) bool
	interval time.Duration

	online atomic.Bool

	mu     sync.Mutex
	events chan bool
}

// New creates a Monitor that probes the server's health endpoint.
func New(baseURL string) *Monitor {
	client := &http.Client{Timeout: 5 * time.Second}
	probe := func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode < 500
	}
	return NewWithProbe(probe, DefaultProbeInterval)
}

// NewWithProbe creates a Monitor with a custom reachability probe. Tests use
// this to simulate transitions.
func NewWithProbe(probe func(ctx context.Context) bool, interval time.Duration) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		events:   make(chan bool, 4),
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Events returns the transition channel. It carries a value only when the
// state flips, true for offline→online and false for the reverse.
func (m *Monitor) Events() <-chan bool {
	return m.events
}

// Start probes immediately, then on every interval, until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		m.check(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.check(ctx)
			}
		}
	}()
}

func (m *Monitor) check(ctx context.Context) {
	current := m.probe(ctx)
	previous := m.online.Swap(current)
	if current == previous {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case m.events <- current:
	default: // consumer is behind; the boolean state is still authoritative
	}
}
