// ABOUTME: Voice memo CLI commands
// ABOUTME: Records audio blobs against leads and lists capture history
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

// RecordCommand stores a finished recording for a lead and queues the upload.
func RecordCommand(database *sql.DB, broker *db.Broker, args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	id := fs.String("id", "", "Lead client UUID (required)")
	file := fs.String("file", "", "Path to the recorded audio file (required)")
	captureType := fs.String("type", "voice_memo", "Capture type tag")
	_ = fs.Parse(args)

	leadID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}
	if *file == "" {
		return fmt.Errorf("record requires -file")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	media, err := ops.RecordAudio(database, broker, leadID, data, *captureType)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Recorded %s (%d bytes), queued for processing\n", media.FileName, len(media.Data))
	return nil
}

// AudioListCommand prints recording history, newest first.
func AudioListCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("audio", flag.ExitOnError)
	_ = fs.Parse(args)

	records, err := db.ListMedia(database)
	if err != nil {
		return fmt.Errorf("failed to list media: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tLEAD\tCAPTURED\tSYNC\tPRIORITY\tTRANSCRIPT")
	for _, m := range records {
		transcript := m.Transcript
		if len(transcript) > 40 {
			transcript = transcript[:40] + "…"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			m.FileName, m.LeadID, m.Timestamp.Format("2006-01-02 15:04"),
			m.SyncStatus, m.PriorityScore, transcript)
	}
	_ = w.Flush()
	return nil
}
