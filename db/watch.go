// ABOUTME: Change notification broker and live query subscriptions
// ABOUTME: Lets callers observe result-set snapshots without polling
package db

import (
	"context"
	"database/sql"
	"sync"

	"github.com/harperreed/fieldsync/models"
)

// Broker fans out table-change notifications to subscribers. Domain
// operations call Notify after their transaction commits, so any write is
// immediately visible to active subscriptions without waiting for sync.
type Broker struct {
	mu   sync.Mutex
	subs map[int]*subscriber
	next int
}

type subscriber struct {
	tables map[string]bool
	ch     chan struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscriber)}
}

// Subscribe registers interest in the given tables. The returned channel
// receives a signal after any of them changes; cancel releases the
// subscription. Signals are coalesced: a slow consumer sees at least one
// signal for any burst of writes, never a backlog.
func (b *Broker) Subscribe(tables ...string) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{
		tables: make(map[string]bool, len(tables)),
		ch:     make(chan struct{}, 1),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	id := b.next
	b.next++
	b.subs[id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return sub.ch, cancel
}

// Notify signals every subscriber watching any of the given tables.
func (b *Broker) Notify(tables ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		for _, t := range tables {
			if sub.tables[t] {
				select {
				case sub.ch <- struct{}{}:
				default: // already signaled
				}
				break
			}
		}
	}
}

// SyncCounts is a snapshot of outbox and lead sync state for status panels.
type SyncCounts struct {
	PendingOutbox int
	FailedOutbox  int
	PendingLeads  int
}

// WatchSyncCounts streams SyncCounts snapshots: one immediately, then one per
// change to the outbox or leads tables. The stream closes when ctx is done.
func WatchSyncCounts(ctx context.Context, database *sql.DB, broker *Broker) <-chan SyncCounts {
	out := make(chan SyncCounts, 1)
	signal, cancel := broker.Subscribe("outbox", "leads")

	snapshot := func() (SyncCounts, error) {
		outbox, err := CountOutboxByStatus(database)
		if err != nil {
			return SyncCounts{}, err
		}
		leads, err := CountLeadsBySyncStatus(database)
		if err != nil {
			return SyncCounts{}, err
		}
		return SyncCounts{
			PendingOutbox: outbox[models.OutboxPending],
			FailedOutbox:  outbox[models.OutboxFailed],
			PendingLeads:  leads[models.SyncPending],
		}, nil
	}

	go func() {
		defer cancel()
		defer close(out)

		if snap, err := snapshot(); err == nil {
			out <- snap
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				snap, err := snapshot()
				if err != nil {
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// WatchLeads streams full lead result sets: one immediately, then one per
// change to the leads table. The stream closes when ctx is done.
func WatchLeads(ctx context.Context, database *sql.DB, broker *Broker) <-chan []models.Lead {
	out := make(chan []models.Lead, 1)
	signal, cancel := broker.Subscribe("leads")

	go func() {
		defer cancel()
		defer close(out)

		if leads, err := ListLeads(database); err == nil {
			out <- leads
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				leads, err := ListLeads(database)
				if err != nil {
					continue
				}
				select {
				case out <- leads:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
