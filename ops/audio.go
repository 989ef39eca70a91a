// ABOUTME: Voice memo recording operation
// ABOUTME: Stores the audio blob and queues it for remote transcription
package ops

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
)

// RecordAudio persists a finished recording session for a lead. The generated
// file name doubles as the idempotency key for the upload.
func RecordAudio(database *sql.DB, broker *db.Broker, leadID uuid.UUID, data []byte, captureType string) (*models.MediaRecord, error) {
	if len(data) == 0 {
		return nil, &models.ValidationError{Field: "data", Reason: "recording is empty"}
	}

	lead, err := db.GetLead(database, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, models.ErrNotFound
	}

	id := models.NewULID()
	media := &models.MediaRecord{
		ID:          id,
		LeadID:      leadID,
		FileName:    fmt.Sprintf("%s_%s.webm", leadID.String(), id),
		CaptureType: captureType,
		Data:        data,
		Timestamp:   time.Now().UTC(),
		SyncStatus:  models.SyncPending,
	}

	err = db.WithTx(database, func(tx *sql.Tx) error {
		if err := db.CreateMedia(tx, media); err != nil {
			return err
		}
		_, err := db.Enqueue(tx, models.OpAudioUpload, models.AudioPayload{
			LeadID:   leadID.String(),
			FileName: media.FileName,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	broker.Notify("media", "outbox")
	return media, nil
}
