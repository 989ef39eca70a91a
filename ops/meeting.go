// ABOUTME: Meeting scheduling operation
// ABOUTME: Creates a follow-up reminder with a generated meeting link and queues the invitation
package ops

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/models"
)

// ScheduleMeeting generates a meeting link for a lead and queues the email
// invitation. Meetings are only available once a lead has reached the
// follow-up stage, and require an email address to notify.
func ScheduleMeeting(database *sql.DB, broker *db.Broker, leadID uuid.UUID) (*models.Reminder, error) {
	lead, err := db.GetLead(database, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, models.ErrNotFound
	}

	if lead.Email == "" {
		return nil, &models.ValidationError{Field: "email", Reason: "lead has no email address for notifications"}
	}
	if !models.StageAtOrPastFollowUp(lead.Status) {
		return nil, &models.ValidationError{Field: "status", Reason: "meetings require the Follow Up stage or later"}
	}

	now := time.Now().UTC()
	reminder := &models.Reminder{
		ID:         models.NewULID(),
		LeadID:     leadID,
		Title:      fmt.Sprintf("Follow-up: %s", lead.Name),
		MeetLink:   MeetingLink(lead.Name),
		Timestamp:  now,
		SyncStatus: models.SyncPending,
	}

	err = db.WithTx(database, func(tx *sql.Tx) error {
		if err := db.CreateReminder(tx, reminder); err != nil {
			return err
		}
		_, err := db.Enqueue(tx, models.OpSendNotification, models.NotificationPayload{
			To:          lead.Email,
			Subject:     "Meeting Invitation: FieldSync Follow-up",
			Body:        fmt.Sprintf("Hi %s, a follow-up meeting has been scheduled. Join here: %s", lead.Name, reminder.MeetLink),
			MeetLink:    reminder.MeetLink,
			ScheduledAt: now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	broker.Notify("reminders", "outbox")
	return reminder, nil
}

// MeetingLink generates a unique, branded meeting room URL for a lead.
func MeetingLink(leadName string) string {
	var clean strings.Builder
	for _, r := range leadName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			clean.WriteRune(r)
		}
	}
	suffix := strings.ToLower(models.NewULID()[20:])
	return fmt.Sprintf("https://meet.jit.si/FieldSync_%s_%s", clean.String(), suffix)
}
