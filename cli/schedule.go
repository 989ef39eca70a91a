// ABOUTME: Meeting scheduling CLI commands
// ABOUTME: Generates meeting links and shows the follow-up schedule
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/ops"
)

// MeetCommand schedules a meeting for a lead and queues the invitation email.
func MeetCommand(database *sql.DB, broker *db.Broker, args []string) error {
	fs := flag.NewFlagSet("meet", flag.ExitOnError)
	id := fs.String("id", "", "Lead client UUID (required)")
	_ = fs.Parse(args)

	leadID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}

	reminder, err := ops.ScheduleMeeting(database, broker, leadID)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s\n", reminder.Title)
	fmt.Printf("  Link: %s\n", reminder.MeetLink)
	fmt.Println("  Invitation queued for delivery")
	return nil
}

// ScheduleCommand lists scheduled meetings.
func ScheduleCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	_ = fs.Parse(args)

	reminders, err := db.ListReminders(database)
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}

	if len(reminders) == 0 {
		fmt.Println("No active meetings.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tWHEN\tLINK\tSYNC")
	for _, r := range reminders {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.Title, r.Timestamp.Format("2006-01-02 15:04"), r.MeetLink, r.SyncStatus)
	}
	_ = w.Flush()
	return nil
}
