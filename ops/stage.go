// ABOUTME: Pipeline stage-move operation
// ABOUTME: Validates the transition, then updates the lead, logs an interaction, and enqueues the replay
package ops

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
)

// MoveStage transitions a lead to a new pipeline stage. Moving into a stage
// that requires follow-up demands a reminder date, either already on the lead
// or supplied with the move; otherwise the operation fails before any write.
func MoveStage(database *sql.DB, broker *db.Broker, leadID uuid.UUID, stage string, reminderDate *time.Time) error {
	if !models.ValidStage(stage) {
		return &models.ValidationError{Field: "stage", Reason: fmt.Sprintf("unknown stage %q", stage)}
	}

	lead, err := db.GetLead(database, leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return models.ErrNotFound
	}

	if models.StageRequiresReminder(stage) && reminderDate == nil && lead.ReminderDate == nil {
		return &models.ValidationError{Field: "reminder_date", Reason: "a reminder date is required for follow-up stages"}
	}

	now := time.Now().UTC()
	err = db.WithTx(database, func(tx *sql.Tx) error {
		if err := db.UpdateLeadStage(tx, leadID, stage, reminderDate, now); err != nil {
			return err
		}

		interaction := &models.Interaction{
			ID:         models.NewULID(),
			LeadID:     leadID,
			Type:       models.InteractionStageChange,
			Note:       fmt.Sprintf("Moved to %s", stage),
			Timestamp:  now,
			SyncStatus: models.SyncPending,
		}
		if err := db.CreateInteraction(tx, interaction); err != nil {
			return err
		}

		_, err := db.Enqueue(tx, models.OpUpdateStatus, models.StatusPayload{
			ClientUUID: leadID.String(),
			Status:     stage,
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
