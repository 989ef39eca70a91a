// ABOUTME: Media (audio) record operations
// ABOUTME: Stores recording blobs plus post-processing enrichment
package db

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/models"
)

func CreateMedia(q DBTX, media *models.MediaRecord) error {
	_, err := q.Exec(`
		INSERT INTO media (id, lead_id, file_name, capture_type, data, timestamp, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, media.ID, media.LeadID.String(), media.FileName, media.CaptureType, media.Data,
		media.Timestamp, media.SyncStatus)
	if err != nil {
		return &models.StorageError{Op: "create media", Err: err}
	}
	return nil
}

func scanMedia(scan func(dest ...any) error) (*models.MediaRecord, error) {
	m := &models.MediaRecord{}
	var leadID string
	var captureType, transcript, meetingLink, intentMeta sql.NullString

	err := scan(&m.ID, &leadID, &m.FileName, &captureType, &m.Data, &m.Timestamp,
		&transcript, &m.PriorityScore, &meetingLink, &intentMeta, &m.SyncStatus)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(leadID)
	if err != nil {
		return nil, err
	}
	m.LeadID = parsed
	m.CaptureType = captureType.String
	m.Transcript = transcript.String
	m.MeetingLink = meetingLink.String
	m.IntentMeta = intentMeta.String
	return m, nil
}

const mediaColumns = `id, lead_id, file_name, capture_type, data, timestamp,
	transcript, priority_score, meeting_link, intent_meta, sync_status`

// GetMediaByFileName looks up a recording by its generated file name, the key
// audio outbox entries carry.
func GetMediaByFileName(q DBTX, fileName string) (*models.MediaRecord, error) {
	row := q.QueryRow(`SELECT `+mediaColumns+` FROM media WHERE file_name = ?`, fileName)
	m, err := scanMedia(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get media", Err: err}
	}
	return m, nil
}

// ListMedia returns all recordings, newest first.
func ListMedia(q DBTX) ([]models.MediaRecord, error) {
	rows, err := q.Query(`SELECT ` + mediaColumns + ` FROM media ORDER BY timestamp DESC`)
	if err != nil {
		return nil, &models.StorageError{Op: "list media", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var records []models.MediaRecord
	for rows.Next() {
		m, err := scanMedia(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *m)
	}
	return records, rows.Err()
}

// ApplyMediaResult attaches post-processing output to a recording and marks
// it synced. A media record is mutated exactly once, on the first success.
func ApplyMediaResult(q DBTX, id, transcript string, priorityScore int, meetingLink, intentMeta string) error {
	res, err := q.Exec(`
		UPDATE media
		SET transcript = ?, priority_score = ?, meeting_link = ?, intent_meta = ?, sync_status = ?
		WHERE id = ?
	`, transcript, priorityScore, meetingLink, intentMeta, models.SyncSynced, id)
	if err != nil {
		return &models.StorageError{Op: "apply media result", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "apply media result", Err: err}
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
