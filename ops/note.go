// ABOUTME: Manual note operation
// ABOUTME: Appends to the lead's notes and timeline with a create_note outbox entry
package ops

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
)

// AddNote attaches a free-text note to a lead.
func AddNote(database *sql.DB, broker *db.Broker, leadID uuid.UUID, note string) error {
	if note == "" {
		return &models.ValidationError{Field: "note", Reason: "note text is required"}
	}

	lead, err := db.GetLead(database, leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return models.ErrNotFound
	}

	now := time.Now().UTC()
	err = db.WithTx(database, func(tx *sql.Tx) error {
		if err := db.AppendLeadNote(tx, leadID, note, now); err != nil {
			return err
		}

		interaction := &models.Interaction{
			ID:         models.NewULID(),
			LeadID:     leadID,
			Type:       models.InteractionNote,
			Note:       note,
			Timestamp:  now,
			SyncStatus: models.SyncPending,
		}
		if err := db.CreateInteraction(tx, interaction); err != nil {
			return err
		}

		_, err := db.Enqueue(tx, models.OpCreateNote, models.NotePayload{
			ClientUUID: leadID.String(),
			Note:       note,
			Timestamp:  now,
		})
		return err
	})
	if err != nil {
		return err
	}

	broker.Notify("leads", "interactions", "outbox")
	return nil
}
