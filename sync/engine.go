// ABOUTME: Sync engine draining the outbox against the remote API
// ABOUTME: Coalesced passes: lead batch upload, per-item audio processing, notifications
package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
)

// Connectivity reports whether the network is currently reachable.
type Connectivity interface {
	Online() bool
}

// API is the remote surface the engine drains against. *Client satisfies it;
// tests substitute stubs.
type API interface {
	SyncLeads(ctx context.Context, leads []LeadPayload) (*SyncAck, error)
	ProcessAudio(ctx context.Context, leadID, fileName string, data []byte) (*AudioResult, error)
	SendNotification(ctx context.Context, payload []byte) error
}

// Engine drains pending local state to the remote server. It owns the shared
// sync-status setting: the flag is mutated only inside pass boundaries and
// read through Status.
type Engine struct {
	database *sql.DB
	api      API
	conn     Connectivity
	broker   *db.Broker

	inFlight atomic.Bool
}

func NewEngine(database *sql.DB, api API, conn Connectivity, broker *db.Broker) *Engine {
	return &Engine{database: database, api: api, conn: conn, broker: broker}
}

// Trigger runs one sync pass. Concurrent triggers collapse into the single
// in-flight pass: a trigger arriving mid-pass returns immediately rather than
// queueing a second pass, so outbox entries are never double-submitted.
func (e *Engine) Trigger(ctx context.Context) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer e.inFlight.Store(false)

	return e.runPass(ctx)
}

func (e *Engine) runPass(ctx context.Context) error {
	if !e.conn.Online() {
		return nil
	}

	pendingLeads, err := db.PendingLeads(e.database)
	if err != nil {
		return err
	}
	audioEntries, err := db.PendingOutbox(e.database, models.OpAudioUpload)
	if err != nil {
		return err
	}
	notifyEntries, err := db.PendingOutbox(e.database, models.OpSendNotification)
	if err != nil {
		return err
	}

	if len(pendingLeads) == 0 && len(audioEntries) == 0 && len(notifyEntries) == 0 {
		return nil
	}

	if err := db.PutSetting(e.database, db.SettingSyncStatus, db.SyncStateSyncing); err != nil {
		return err
	}

	if err := e.syncLeadBatch(ctx, pendingLeads); err != nil {
		// Whole batch stays pending; the next trigger retries in full.
		_ = db.PutSetting(e.database, db.SettingSyncStatus, db.SyncStateError)
		return err
	}

	e.syncAudio(ctx, audioEntries)
	e.syncNotifications(ctx, notifyEntries)

	if err := db.PutSetting(e.database, db.SettingLastSync, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := db.PutSetting(e.database, db.SettingSyncStatus, db.SyncStateIdle); err != nil {
		return err
	}
	e.broker.Notify("settings")
	return nil
}

// syncLeadBatch uploads all pending leads as one all-or-nothing batch. Leads
// are small and homogeneous; either every queued lead is known-good on the
// server or none is marked so.
func (e *Engine) syncLeadBatch(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	payloads := make([]LeadPayload, 0, len(leads))
	ids := make([]uuid.UUID, 0, len(leads))
	for i := range leads {
		payloads = append(payloads, NewLeadPayload(&leads[i]))
		ids = append(ids, leads[i].ClientUUID)
	}

	ack, err := e.api.SyncLeads(ctx, payloads)
	if err != nil {
		return err
	}
	log.Printf("[sync] lead batch accepted: %d new, %d duplicates", ack.NewRecords, ack.IgnoredDuplicates)

	err = db.WithTx(e.database, func(tx *sql.Tx) error {
		if err := db.MarkLeadsSynced(tx, ids); err != nil {
			return err
		}
		return db.ResolveBatchedOutbox(tx, ids)
	})
	if err != nil {
		return err
	}

	e.broker.Notify("leads", "outbox")
	return nil
}

// syncAudio uploads pending recordings one at a time. A single failure is
// logged and skipped so it cannot block unrelated uploads.
func (e *Engine) syncAudio(ctx context.Context, entries []models.OutboxEntry) {
	for _, entry := range entries {
		if err := e.syncAudioEntry(ctx, entry); err != nil {
			log.Printf("[sync] %v", err)
		}
	}
}

func (e *Engine) syncAudioEntry(ctx context.Context, entry models.OutboxEntry) error {
	var payload models.AudioPayload
	if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
		return db.MarkOutboxFailed(e.database, entry.ID, "malformed payload: "+err.Error())
	}

	media, err := db.GetMediaByFileName(e.database, payload.FileName)
	if err != nil {
		return err
	}
	if media == nil {
		// The recording will never resolve; leaving the entry pending would
		// stick it in the queue forever.
		if err := db.MarkOutboxFailed(e.database, entry.ID, "media record missing"); err != nil {
			return err
		}
		e.broker.Notify("outbox")
		return nil
	}

	result, err := e.api.ProcessAudio(ctx, payload.LeadID, payload.FileName, media.Data)
	if err != nil {
		return err
	}

	intentMeta := ""
	if len(result.ExtractedIntent) > 0 {
		if data, err := json.Marshal(result.ExtractedIntent); err == nil {
			intentMeta = string(data)
		}
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return db.MarkOutboxFailed(e.database, entry.ID, "malformed lead id: "+err.Error())
	}

	err = db.WithTx(e.database, func(tx *sql.Tx) error {
		if err := db.ApplyMediaResult(tx, media.ID, result.Transcript, result.PriorityScore, result.MeetingLink, intentMeta); err != nil {
			return err
		}
		err := db.ApplyAudioEnrichment(tx, leadID, result.Transcript, result.PriorityScore, result.MeetingLink, intentMeta)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		return db.MarkOutboxSynced(tx, entry.ID)
	})
	if err != nil {
		return err
	}

	e.broker.Notify("leads", "media", "outbox")
	return nil
}

// syncNotifications delivers queued meeting invitations individually, with
// the same failure isolation as audio uploads.
func (e *Engine) syncNotifications(ctx context.Context, entries []models.OutboxEntry) {
	for _, entry := range entries {
		if err := e.api.SendNotification(ctx, []byte(entry.Payload)); err != nil {
			log.Printf("[sync] notification %s: %v", entry.ID, err)
			continue
		}
		if err := db.MarkOutboxSynced(e.database, entry.ID); err != nil {
			log.Printf("[sync] notification %s: %v", entry.ID, err)
			continue
		}
		e.broker.Notify("outbox")
	}
}

// EngineStatus is a point-in-time view of the engine's shared state.
type EngineStatus struct {
	State         string
	LastSync      *time.Time
	PendingLeads  int
	PendingOutbox int
	FailedOutbox  int
}

// Status reads the engine's shared state. It never blocks on an in-flight
// pass.
func (e *Engine) Status() (*EngineStatus, error) {
	state, err := db.GetSetting(e.database, db.SettingSyncStatus)
	if err != nil {
		return nil, err
	}
	if state == "" {
		state = db.SyncStateIdle
	}

	status := &EngineStatus{State: state}

	if raw, err := db.GetSetting(e.database, db.SettingLastSync); err == nil && raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			status.LastSync = &t
		}
	}

	leadCounts, err := db.CountLeadsBySyncStatus(e.database)
	if err != nil {
		return nil, err
	}
	status.PendingLeads = leadCounts[models.SyncPending]

	outboxCounts, err := db.CountOutboxByStatus(e.database)
	if err != nil {
		return nil, err
	}
	status.PendingOutbox = outboxCounts[models.OutboxPending]
	status.FailedOutbox = outboxCounts[models.OutboxFailed]

	return status, nil
}
