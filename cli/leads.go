// ABOUTME: Lead capture and pipeline CLI commands
// ABOUTME: Commands for capturing, scanning, listing, moving, and annotating leads
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/db"
	"github.com/harperreed/fieldsync/extract"
	"github.com/harperreed/fieldsync/models"
	"github.com/harperreed/fieldsync/ops"
)

// CaptureCommand records a new lead locally.
func CaptureCommand(database *sql.DB, broker *db.Broker, ownerID string, args []string) error {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	name := fs.String("name", "", "Prospect name (required)")
	phone := fs.String("phone", "", "Phone number (required)")
	email := fs.String("email", "", "Email address")
	company := fs.String("company", "", "Company")
	role := fs.String("role", "", "Role/title")
	location := fs.String("location", "", "Capture location")
	notes := fs.String("notes", "", "Free-text notes")
	intent := fs.String("intent", models.IntentInterested, "Intent tag (Hot Lead, Interested, Follow Up, General Inquiry, Service Check)")
	mode := fs.String("mode", models.ModeStall, "Capture mode (stall/field)")
	ticketSize := fs.String("ticket-size", "", "Ticket size bucket (e.g. '10L - 50L')")
	engagement := fs.Int("engagement", 0, "Engagement score (0-5)")
	_ = fs.Parse(args)

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{
		Name:            *name,
		Phone:           *phone,
		Email:           *email,
		Company:         *company,
		Role:            *role,
		Location:        *location,
		Notes:           *notes,
		Intent:          *intent,
		Mode:            *mode,
		TicketSize:      *ticketSize,
		EngagementScore: *engagement,
		OwnerID:         ownerID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Captured %s (%s)\n", lead.Name, lead.ClientUUID)
	fmt.Printf("  Stage: %s | Readiness: %d | Predicted AUA: %d\n",
		lead.Status, lead.ReadinessScore, lead.PredictedAUA)
	return nil
}

// ScanCommand captures a lead from scanned business-card text.
func ScanCommand(database *sql.DB, broker *db.Broker, ownerID string, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	file := fs.String("file", "", "Path to a text file with the scanned card contents (required)")
	phone := fs.String("phone", "", "Phone override if the scan missed it")
	mode := fs.String("mode", models.ModeField, "Capture mode (stall/field)")
	_ = fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("scan requires -file")
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read scan text: %w", err)
	}

	patch := extract.FromCardText(string(raw))
	if *phone != "" {
		patch.Phone = *phone
	}

	lead, err := ops.CaptureLead(database, broker, models.CaptureInput{
		Name:    patch.Name,
		Phone:   patch.Phone,
		Email:   patch.Email,
		Company: patch.Company,
		Role:    patch.Role,
		Notes:   "Captured via business card scan.",
		Mode:    *mode,
		OwnerID: ownerID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Captured %s (%s) from scan\n", lead.Name, lead.ClientUUID)
	return nil
}

// MoveCommand moves a lead to a new pipeline stage.
func MoveCommand(database *sql.DB, broker *db.Broker, args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	id := fs.String("id", "", "Lead client UUID (required)")
	stage := fs.String("stage", "", "Target stage (required)")
	reminder := fs.String("reminder", "", "Reminder date, RFC3339 (required when moving to Follow Up)")
	_ = fs.Parse(args)

	leadID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}

	var reminderDate *time.Time
	if *reminder != "" {
		t, err := time.Parse(time.RFC3339, *reminder)
		if err != nil {
			return fmt.Errorf("invalid reminder date: %w", err)
		}
		reminderDate = &t
	}

	if err := ops.MoveStage(database, broker, leadID, *stage, reminderDate); err != nil {
		return err
	}

	fmt.Printf("✓ Moved %s to %s\n", leadID, *stage)
	return nil
}

// NoteCommand attaches a note to a lead.
func NoteCommand(database *sql.DB, broker *db.Broker, args []string) error {
	fs := flag.NewFlagSet("note", flag.ExitOnError)
	id := fs.String("id", "", "Lead client UUID (required)")
	text := fs.String("text", "", "Note text (required)")
	_ = fs.Parse(args)

	leadID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}

	if err := ops.AddNote(database, broker, leadID, *text); err != nil {
		return err
	}

	fmt.Println("✓ Note added")
	return nil
}

// PipelineCommand prints leads grouped by stage.
func PipelineCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	_ = fs.Parse(args)

	now := time.Now()
	for _, stage := range models.Stages() {
		leads, err := db.LeadsByStage(database, stage)
		if err != nil {
			return fmt.Errorf("failed to list %s leads: %w", stage, err)
		}

		fmt.Printf("\n%s (%d)\n", stage, len(leads))
		for _, lead := range leads {
			marker := " "
			if lead.OverdueFollowUp(now) {
				marker = "!"
			}
			fmt.Printf("  %s %-24s %-14s sync:%s\n", marker, lead.Name, lead.Phone, lead.SyncStatus)
		}
	}
	return nil
}

// ListLeadsCommand prints all leads, most recent first.
func ListLeadsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("leads", flag.ExitOnError)
	_ = fs.Parse(args)

	leads, err := db.ListLeads(database)
	if err != nil {
		return fmt.Errorf("failed to list leads: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPHONE\tSTAGE\tINTENT\tSYNC\tCAPTURED")
	for _, lead := range leads {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			lead.ClientUUID, lead.Name, lead.Phone, lead.Status, lead.Intent,
			lead.SyncStatus, lead.Timestamp.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
	return nil
}

// ShowLeadCommand prints one lead with its interaction timeline.
func ShowLeadCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.String("id", "", "Lead client UUID (required)")
	_ = fs.Parse(args)

	leadID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}

	lead, err := db.GetLead(database, leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return models.ErrNotFound
	}

	fmt.Printf("%s\n", lead.Name)
	fmt.Printf("  Phone: %s  Email: %s\n", lead.Phone, lead.Email)
	fmt.Printf("  Company: %s  Role: %s\n", lead.Company, lead.Role)
	fmt.Printf("  Stage: %s  Intent: %s  Sync: %s\n", lead.Status, lead.Intent, lead.SyncStatus)
	if lead.ReminderDate != nil {
		fmt.Printf("  Reminder: %s\n", lead.ReminderDate.Format(time.RFC3339))
	}
	if lead.Transcript != "" {
		fmt.Printf("  Transcript: %s\n", lead.Transcript)
	}
	if lead.PriorityScore > 0 {
		fmt.Printf("  Priority: %d\n", lead.PriorityScore)
	}
	if lead.MeetingLink != "" {
		fmt.Printf("  Meeting: %s\n", lead.MeetingLink)
	}

	interactions, err := db.ListInteractions(database, leadID)
	if err != nil {
		return err
	}
	if len(interactions) > 0 {
		fmt.Println("\nTimeline:")
		for _, in := range interactions {
			fmt.Printf("  %s [%s] %s\n", in.Timestamp.Format("2006-01-02 15:04"), in.Type, in.Note)
		}
	}
	return nil
}
