// ABOUTME: Tests for the sync engine's pass algorithm
// ABOUTME: Covers batch semantics, failure isolation, coalescing, and offline behavior
package sync

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
	"github.com/harperreed/fieldsync/ops"
)

type stubConn struct{ online atomic.Bool }

func newStubConn(online bool) *stubConn {
	c := &stubConn{}
	c.online.Store(online)
	return c
}

func (c *stubConn) Online() bool { return c.online.Load() }

func (c *stubConn) setOnline(v bool) { c.online.Store(v) }

// stubAPI substitutes the remote server. Unset handlers fail the calling test.
type stubAPI struct {
	t *testing.T

	syncLeads    func(ctx context.Context, leads []LeadPayload) (*SyncAck, error)
	processAudio func(ctx context.Context, leadID, fileName string, data []byte) (*AudioResult, error)
	sendNotify   func(ctx context.Context, payload []byte) error

	syncCalls   atomic.Int32
	audioCalls  atomic.Int32
	notifyCalls atomic.Int32
}

func (s *stubAPI) SyncLeads(ctx context.Context, leads []LeadPayload) (*SyncAck, error) {
	s.syncCalls.Add(1)
	if s.syncLeads == nil {
		s.t.Fatal("unexpected SyncLeads call")
	}
	return s.syncLeads(ctx, leads)
}

func (s *stubAPI) ProcessAudio(ctx context.Context, leadID, fileName string, data []byte) (*AudioResult, error) {
	s.audioCalls.Add(1)
	if s.processAudio == nil {
		s.t.Fatal("unexpected ProcessAudio call")
	}
	return s.processAudio(ctx, leadID, fileName, data)
}

func (s *stubAPI) SendNotification(ctx context.Context, payload []byte) error {
	s.notifyCalls.Add(1)
	if s.sendNotify == nil {
		s.t.Fatal("unexpected SendNotification call")
	}
	return s.sendNotify(ctx, payload)
}

func acceptAll(ctx context.Context, leads []LeadPayload) (*SyncAck, error) {
	return &SyncAck{Status: "success", NewRecords: len(leads)}, nil
}

func newTestEngine(t *testing.T, api *stubAPI, conn Connectivity) (*Engine, *sql.DB, *db.Broker) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	api.t = t
	broker := db.NewBroker()
	return NewEngine(database, api, conn, broker), database, broker
}

func TestTriggerOfflineIsNoOp(t *testing.T) {
	api := &stubAPI{}
	engine, database, broker := newTestEngine(t, api, newStubConn(false))

	if _, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "Asha Rao", Phone: "9876543210"}); err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}

	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	if n := api.syncCalls.Load(); n != 0 {
		t.Errorf("offline pass made %d API calls", n)
	}
	status, err := engine.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != db.SyncStateIdle {
		t.Errorf("offline pass changed state to %q", status.State)
	}
	if status.PendingLeads != 1 {
		t.Errorf("offline pass touched pending leads: %d", status.PendingLeads)
	}
}

func TestTriggerEmptyStoreMakesNoCalls(t *testing.T) {
	api := &stubAPI{}
	engine, _, _ := newTestEngine(t, api, newStubConn(true))

	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	if n := api.syncCalls.Load(); n != 0 {
		t.Errorf("empty pass made %d API calls", n)
	}

	status, _ := engine.Status()
	if status.LastSync != nil {
		t.Error("empty pass recorded a last sync time")
	}
}

func TestTriggerSyncsLeadBatch(t *testing.T) {
	var got []LeadPayload
	api := &stubAPI{
		syncLeads: func(ctx context.Context, leads []LeadPayload) (*SyncAck, error) {
			got = leads
			return acceptAll(ctx, leads)
		},
	}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{
		Name:  "Asha Rao",
		Phone: "9876543210",
		Email: "asha@example.com",
		Mode:  models.ModeField,
	})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}

	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected batch of 1, got %d", len(got))
	}
	if got[0].ID != lead.ClientUUID.String() {
		t.Errorf("batch carries wrong id %q", got[0].ID)
	}
	if !got[0].MetaData.CapturedOffline {
		t.Error("captured_offline flag not set")
	}

	stored, _ := db.GetLead(database, lead.ClientUUID)
	if stored.SyncStatus != models.SyncSynced {
		t.Errorf("lead not marked synced: %q", stored.SyncStatus)
	}
	if pending, _ := db.AllPendingOutbox(database); len(pending) != 0 {
		t.Errorf("outbox not resolved: %d entries pending", len(pending))
	}

	status, _ := engine.Status()
	if status.State != db.SyncStateIdle {
		t.Errorf("expected idle after pass, got %q", status.State)
	}
	if status.LastSync == nil {
		t.Error("last sync time not recorded")
	}
}

func TestTriggerSecondPassIsNoOp(t *testing.T) {
	api := &stubAPI{syncLeads: acceptAll}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	if _, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "A", Phone: "1"}); err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}

	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("first Trigger failed: %v", err)
	}
	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("second Trigger failed: %v", err)
	}

	if n := api.syncCalls.Load(); n != 1 {
		t.Errorf("fully synced store re-submitted: %d batch calls", n)
	}
}

func TestTriggerDeliversStageMoveOnSyncedLead(t *testing.T) {
	var batches [][]LeadPayload
	api := &stubAPI{
		syncLeads: func(ctx context.Context, leads []LeadPayload) (*SyncAck, error) {
			batches = append(batches, leads)
			return acceptAll(ctx, leads)
		},
	}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "Asha Rao", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("first Trigger failed: %v", err)
	}

	// Mutate the already-synced lead, then capture an unrelated one.
	if err := ops.MoveStage(database, broker, lead.ClientUUID, models.StageEngaged, nil); err != nil {
		t.Fatalf("MoveStage failed: %v", err)
	}
	if _, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "Ravi Iyer", Phone: "9123456780"}); err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("second Trigger failed: %v", err)
	}

	if len(batches) != 2 {
		t.Fatalf("expected 2 batch calls, got %d", len(batches))
	}
	var delivered bool
	for _, p := range batches[1] {
		if p.ID == lead.ClientUUID.String() && p.Status == models.StageEngaged {
			delivered = true
		}
	}
	if !delivered {
		t.Error("second batch did not carry the moved lead's new stage")
	}

	pending, err := db.PendingOutbox(database, models.OpUpdateStatus)
	if err != nil {
		t.Fatalf("PendingOutbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("update_status entry not resolved after delivery: %d pending", len(pending))
	}
	stored, _ := db.GetLead(database, lead.ClientUUID)
	if stored.SyncStatus != models.SyncSynced {
		t.Errorf("moved lead not re-marked synced: %q", stored.SyncStatus)
	}
}

func TestTriggerBatchResolvesOnlyItsOwnOutboxEntries(t *testing.T) {
	api := &stubAPI{syncLeads: acceptAll}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	synced, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "A", Phone: "1"})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("first Trigger failed: %v", err)
	}

	// A mutation on the synced lead queues an entry the next batch must own.
	if err := ops.MoveStage(database, broker, synced.ClientUUID, models.StageEngaged, nil); err != nil {
		t.Fatalf("MoveStage failed: %v", err)
	}

	// Resolving an unrelated batch must not touch it.
	if err := db.ResolveBatchedOutbox(database, nil); err != nil {
		t.Fatalf("ResolveBatchedOutbox failed: %v", err)
	}
	pending, err := db.PendingOutbox(database, models.OpUpdateStatus)
	if err != nil {
		t.Fatalf("PendingOutbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("update_status entry resolved without delivery: %d pending", len(pending))
	}
}

func TestTriggerBatchFailureLeavesEverythingPending(t *testing.T) {
	boom := &SyncError{StatusCode: 500, Body: "server error"}
	api := &stubAPI{
		syncLeads: func(ctx context.Context, leads []LeadPayload) (*SyncAck, error) {
			return nil, boom
		},
	}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	if _, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "A", Phone: "1"}); err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}

	err := engine.Trigger(context.Background())
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("expected SyncError from Trigger, got %v", err)
	}

	status, _ := engine.Status()
	if status.State != db.SyncStateError {
		t.Errorf("expected error state, got %q", status.State)
	}
	if status.PendingLeads != 1 {
		t.Errorf("failed batch changed pending leads: %d", status.PendingLeads)
	}
	if status.PendingOutbox != 1 {
		t.Errorf("failed batch resolved outbox entries: %d pending", status.PendingOutbox)
	}

	// Recovery: the next pass retries the same batch and clears the error.
	api.syncLeads = acceptAll
	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("retry Trigger failed: %v", err)
	}
	status, _ = engine.Status()
	if status.State != db.SyncStateIdle || status.PendingLeads != 0 {
		t.Errorf("retry did not recover: %+v", status)
	}
}

func TestTriggerProcessesAudio(t *testing.T) {
	api := &stubAPI{
		syncLeads: acceptAll,
		processAudio: func(ctx context.Context, leadID, fileName string, data []byte) (*AudioResult, error) {
			return &AudioResult{
				Transcript:      "wants SIP details",
				ExtractedIntent: map[string]string{"urgency": "high"},
				PriorityScore:   72,
			}, nil
		},
	}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "Asha Rao", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	media, err := ops.RecordAudio(database, broker, lead.ClientUUID, []byte{1, 2, 3}, "voice_note")
	if err != nil {
		t.Fatalf("RecordAudio failed: %v", err)
	}

	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	storedMedia, _ := db.GetMediaByFileName(database, media.FileName)
	if storedMedia.Transcript != "wants SIP details" || storedMedia.SyncStatus != models.SyncSynced {
		t.Errorf("media result not applied: %+v", storedMedia)
	}

	storedLead, _ := db.GetLead(database, lead.ClientUUID)
	if storedLead.Transcript != "wants SIP details" || storedLead.PriorityScore != 72 {
		t.Errorf("lead enrichment not applied: transcript=%q priority=%d", storedLead.Transcript, storedLead.PriorityScore)
	}

	if pending, _ := db.AllPendingOutbox(database); len(pending) != 0 {
		t.Errorf("audio entry not resolved: %d pending", len(pending))
	}
}

func TestTriggerAudioFailureIsolated(t *testing.T) {
	api := &stubAPI{
		syncLeads: acceptAll,
		processAudio: func(ctx context.Context, leadID, fileName string, data []byte) (*AudioResult, error) {
			if data[0] == 1 {
				return nil, &MediaSyncError{FileName: fileName, Err: errors.New("processing crashed")}
			}
			return &AudioResult{Transcript: "ok"}, nil
		},
	}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "A", Phone: "1"})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	bad, err := ops.RecordAudio(database, broker, lead.ClientUUID, []byte{1}, "voice_note")
	if err != nil {
		t.Fatalf("RecordAudio failed: %v", err)
	}
	good, err := ops.RecordAudio(database, broker, lead.ClientUUID, []byte{2}, "voice_note")
	if err != nil {
		t.Fatalf("RecordAudio failed: %v", err)
	}

	// One recording failing must not block the other, and the pass itself
	// still completes.
	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	goodMedia, _ := db.GetMediaByFileName(database, good.FileName)
	if goodMedia.SyncStatus != models.SyncSynced {
		t.Errorf("good recording not synced: %q", goodMedia.SyncStatus)
	}

	badMedia, _ := db.GetMediaByFileName(database, bad.FileName)
	if badMedia.SyncStatus != models.SyncPending {
		t.Errorf("failed recording should stay pending for retry: %q", badMedia.SyncStatus)
	}
	pending, _ := db.PendingOutbox(database, models.OpAudioUpload)
	if len(pending) != 1 {
		t.Errorf("expected the failed upload to stay queued, got %d pending", len(pending))
	}

	status, _ := engine.Status()
	if status.State != db.SyncStateIdle {
		t.Errorf("isolated failure flipped engine state to %q", status.State)
	}
}

func TestTriggerMissingMediaMarksEntryFailed(t *testing.T) {
	api := &stubAPI{syncLeads: acceptAll}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "A", Phone: "1"})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	// An audio entry whose recording row is gone can never be delivered.
	_, err = db.Enqueue(database, models.OpAudioUpload, models.AudioPayload{
		LeadID:   lead.ClientUUID.String(),
		FileName: "vanished.webm",
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	if n := api.audioCalls.Load(); n != 0 {
		t.Errorf("engine uploaded a recording it does not have: %d calls", n)
	}
	counts, _ := db.CountOutboxByStatus(database)
	if counts[models.OutboxFailed] != 1 {
		t.Errorf("expected the orphaned entry marked failed, got %+v", counts)
	}
	if counts[models.OutboxPending] != 0 {
		t.Errorf("orphaned entry still pending: %+v", counts)
	}
}

func TestTriggerSendsNotifications(t *testing.T) {
	var delivered [][]byte
	api := &stubAPI{
		syncLeads: acceptAll,
		sendNotify: func(ctx context.Context, payload []byte) error {
			delivered = append(delivered, payload)
			return nil
		},
	}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{
		Name: "Asha Rao", Phone: "9876543210", Email: "asha@example.com",
	})
	if err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}
	reminderDate := time.Now().UTC().Add(48 * time.Hour)
	if err := ops.MoveStage(database, broker, lead.ClientUUID, models.StageFollowUp, &reminderDate); err != nil {
		t.Fatalf("MoveStage failed: %v", err)
	}
	if _, err := ops.ScheduleMeeting(database, broker, lead.ClientUUID); err != nil {
		t.Fatalf("ScheduleMeeting failed: %v", err)
	}

	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	if len(delivered) != 1 {
		t.Fatalf("expected one notification delivery, got %d", len(delivered))
	}
	if pending, _ := db.AllPendingOutbox(database); len(pending) != 0 {
		t.Errorf("notification entry not resolved: %d pending", len(pending))
	}
}

func TestTriggerCoalescesConcurrentPasses(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &stubAPI{
		syncLeads: func(ctx context.Context, leads []LeadPayload) (*SyncAck, error) {
			close(entered)
			<-release
			return &SyncAck{Status: "success", NewRecords: len(leads)}, nil
		},
	}
	engine, database, broker := newTestEngine(t, api, newStubConn(true))

	if _, err := ops.CaptureLead(database, broker, models.CaptureInput{Name: "A", Phone: "1"}); err != nil {
		t.Fatalf("CaptureLead failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- engine.Trigger(context.Background()) }()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first pass never reached the API")
	}

	// A trigger arriving mid-pass must return immediately instead of queueing
	// a second pass.
	if err := engine.Trigger(context.Background()); err != nil {
		t.Fatalf("coalesced Trigger returned error: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Trigger failed: %v", err)
	}

	if n := api.syncCalls.Load(); n != 1 {
		t.Errorf("expected exactly one batch upload, got %d", n)
	}
}

func TestStatusDefaults(t *testing.T) {
	api := &stubAPI{}
	engine, _, _ := newTestEngine(t, api, newStubConn(true))

	status, err := engine.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != db.SyncStateIdle {
		t.Errorf("expected idle default, got %q", status.State)
	}
	if status.LastSync != nil {
		t.Error("expected no last sync on a fresh store")
	}
	if status.PendingLeads != 0 || status.PendingOutbox != 0 || status.FailedOutbox != 0 {
		t.Errorf("expected zero counts, got %+v", status)
	}
}
