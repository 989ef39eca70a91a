// ABOUTME: Outbox queue operations backed by the outbox table
// ABOUTME: Guarantees at-least-once delivery of locally committed mutations
package db

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/fieldsync/models"
)

// Enqueue appends a pending outbox entry carrying a denormalized JSON copy of
// the data needed to replay the operation against the server. Call it inside
// the same transaction as the entity write so the pair commits atomically.
func Enqueue(q DBTX, opType string, payload any) (*models.OutboxEntry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	entry := &models.OutboxEntry{
		ID:        models.NewULID(),
		OpType:    opType,
		Payload:   string(data),
		CreatedAt: time.Now().UTC(),
		Status:    models.OutboxPending,
	}

	_, err = q.Exec(`
		INSERT INTO outbox (id, op_type, payload, created_at, status)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.OpType, entry.Payload, entry.CreatedAt, entry.Status)
	if err != nil {
		return nil, &models.StorageError{Op: "enqueue outbox", Err: err}
	}
	return entry, nil
}

func collectEntries(q DBTX, query string, args ...any) ([]models.OutboxEntry, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, &models.StorageError{Op: "query outbox", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var entries []models.OutboxEntry
	for rows.Next() {
		var e models.OutboxEntry
		var errMsg *string
		if err := rows.Scan(&e.ID, &e.OpType, &e.Payload, &e.CreatedAt, &e.Status, &errMsg); err != nil {
			return nil, err
		}
		if errMsg != nil {
			e.Error = *errMsg
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PendingOutbox returns pending entries of the given type, oldest first.
// ULID primary keys sort in creation order, which preserves causal order for
// same-entity mutations.
func PendingOutbox(q DBTX, opType string) ([]models.OutboxEntry, error) {
	return collectEntries(q, `
		SELECT id, op_type, payload, created_at, status, error
		FROM outbox WHERE status = ? AND op_type = ? ORDER BY id ASC
	`, models.OutboxPending, opType)
}

// AllPendingOutbox returns every pending entry regardless of type, oldest first.
func AllPendingOutbox(q DBTX) ([]models.OutboxEntry, error) {
	return collectEntries(q, `
		SELECT id, op_type, payload, created_at, status, error
		FROM outbox WHERE status = ? ORDER BY id ASC
	`, models.OutboxPending)
}

// MarkOutboxSynced records a confirmed successful remote delivery.
func MarkOutboxSynced(q DBTX, id string) error {
	res, err := q.Exec(`UPDATE outbox SET status = ?, error = NULL WHERE id = ?`, models.OutboxSynced, id)
	if err != nil {
		return &models.StorageError{Op: "mark outbox synced", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "mark outbox synced", Err: err}
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkOutboxFailed records a terminal failure. Failed entries stay visible
// for retry and are never silently dropped.
func MarkOutboxFailed(q DBTX, id, reason string) error {
	res, err := q.Exec(`UPDATE outbox SET status = ?, error = ? WHERE id = ?`, models.OutboxFailed, reason, id)
	if err != nil {
		return &models.StorageError{Op: "mark outbox failed", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "mark outbox failed", Err: err}
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ResolveBatchedOutbox flips pending lead-batch entries (create_lead,
// update_status, create_note) to synced after a confirmed batch upload.
// Only entries for the leads that were actually in the batch resolve;
// anything enqueued for other leads, or while the upload was in flight,
// stays pending for a later pass.
func ResolveBatchedOutbox(q DBTX, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimPrefix(strings.Repeat(",?", len(ids)), ",")
	args := []any{models.OutboxSynced, models.OutboxPending,
		models.OpCreateLead, models.OpUpdateStatus, models.OpCreateNote}
	for _, id := range ids {
		args = append(args, id.String())
	}

	_, err := q.Exec(`
		UPDATE outbox SET status = ?
		WHERE status = ? AND op_type IN (?, ?, ?)
		  AND json_extract(payload, '$.client_uuid') IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return &models.StorageError{Op: "resolve batched outbox", Err: err}
	}
	return nil
}

// CountOutboxByStatus returns entry counts per status for the sync panel.
func CountOutboxByStatus(q DBTX) (map[string]int, error) {
	rows, err := q.Query(`SELECT status, COUNT(*) FROM outbox GROUP BY status`)
	if err != nil {
		return nil, &models.StorageError{Op: "count outbox", Err: err}
	}
	defer func() { _ = rows.Close() }()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
