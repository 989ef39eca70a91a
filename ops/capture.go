// ABOUTME: Lead capture operation
// ABOUTME: Writes the lead and its create_lead outbox entry in one transaction
package ops

import (
	"database/sql"

	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
)

// CaptureLead records a new prospect locally. Capture always succeeds
// regardless of connectivity; the outbox entry carries it to the server later.
func CaptureLead(database *sql.DB, broker *db.Broker, input models.CaptureInput) (*models.Lead, error) {
	lead, err := models.NewLead(input)
	if err != nil {
		return nil, err
	}

	err = db.WithTx(database, func(tx *sql.Tx) error {
		if err := db.CreateLead(tx, lead); err != nil {
			return err
		}
		_, err := db.Enqueue(tx, models.OpCreateLead, lead)
		return err
	})
	if err != nil {
		return nil, err
	}

	broker.Notify("leads", "outbox")
	return lead, nil
}
