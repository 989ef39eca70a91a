// ABOUTME: Interaction timeline operations
// ABOUTME: Immutable per-lead history entries for stage changes and notes
package db

import (
	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/models"
)

func CreateInteraction(q DBTX, interaction *models.Interaction) error {
	_, err := q.Exec(`
		INSERT INTO interactions (id, lead_id, type, note, timestamp, sync_status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, interaction.ID, interaction.LeadID.String(), interaction.Type, interaction.Note,
		interaction.Timestamp, interaction.SyncStatus)
	if err != nil {
		return &models.StorageError{Op: "create interaction", Err: err}
	}
	return nil
}

// ListInteractions returns a lead's timeline, newest first.
func ListInteractions(q DBTX, leadID uuid.UUID) ([]models.Interaction, error) {
	rows, err := q.Query(`
		SELECT id, lead_id, type, note, timestamp, sync_status
		FROM interactions WHERE lead_id = ? ORDER BY timestamp DESC
	`, leadID.String())
	if err != nil {
		return nil, &models.StorageError{Op: "list interactions", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var interactions []models.Interaction
	for rows.Next() {
		var in models.Interaction
		var leadID string
		if err := rows.Scan(&in.ID, &leadID, &in.Type, &in.Note, &in.Timestamp, &in.SyncStatus); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(leadID)
		if err != nil {
			return nil, err
		}
		in.LeadID = parsed
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}
