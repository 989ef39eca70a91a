// ABOUTME: Reminder (scheduled meeting) operations
// ABOUTME: Follow-up records carrying generated meeting links
package db

import (
	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/models"
)

func CreateReminder(q DBTX, reminder *models.Reminder) error {
	_, err := q.Exec(`
		INSERT INTO reminders (id, lead_id, title, meet_link, timestamp, sync_status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, reminder.ID, reminder.LeadID.String(), reminder.Title, reminder.MeetLink,
		reminder.Timestamp, reminder.SyncStatus)
	if err != nil {
		return &models.StorageError{Op: "create reminder", Err: err}
	}
	return nil
}

// ListReminders returns all scheduled meetings, soonest first.
func ListReminders(q DBTX) ([]models.Reminder, error) {
	rows, err := q.Query(`
		SELECT id, lead_id, title, meet_link, timestamp, sync_status
		FROM reminders ORDER BY timestamp ASC
	`)
	if err != nil {
		return nil, &models.StorageError{Op: "list reminders", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var leadID string
		if err := rows.Scan(&r.ID, &leadID, &r.Title, &r.MeetLink, &r.Timestamp, &r.SyncStatus); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(leadID)
		if err != nil {
			return nil, err
		}
		r.LeadID = parsed
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
