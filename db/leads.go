// ABOUTME: Lead database operations
// ABOUTME: Handles inserts, lookups, stage updates, and sync-state transitions
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fieldsync/models"
)

const leadColumns = `id, name, phone, email, company, role, location, notes, intent, status,
	reminder_date, revenue, ticket_size, engagement_score, predicted_aua, readiness_score,
	mode, source, owner_id, conference_id, meeting_link, transcript, priority_score,
	intent_meta, timestamp, sync_status`

func CreateLead(q DBTX, lead *models.Lead) error {
	_, err := q.Exec(`
		INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ClientUUID.String(), lead.Name, lead.Phone, lead.Email, lead.Company, lead.Role,
		lead.Location, lead.Notes, lead.Intent, lead.Status, lead.ReminderDate, lead.Revenue,
		lead.TicketSize, lead.EngagementScore, lead.PredictedAUA, lead.ReadinessScore,
		lead.Mode, lead.Source, lead.OwnerID, lead.ConferenceID, lead.MeetingLink,
		lead.Transcript, lead.PriorityScore, lead.IntentMeta, lead.Timestamp, lead.SyncStatus)
	if err != nil {
		return &models.StorageError{Op: "create lead", Err: err}
	}
	return nil
}

func scanLead(scan func(dest ...any) error) (*models.Lead, error) {
	lead := &models.Lead{}
	var id string
	var email, company, role, location, notes, intent sql.NullString
	var reminderDate sql.NullTime
	var ticketSize, source, ownerID, conferenceID, meetingLink, transcript, intentMeta sql.NullString

	err := scan(
		&id, &lead.Name, &lead.Phone, &email, &company, &role, &location, &notes,
		&intent, &lead.Status, &reminderDate, &lead.Revenue, &ticketSize,
		&lead.EngagementScore, &lead.PredictedAUA, &lead.ReadinessScore, &lead.Mode,
		&source, &ownerID, &conferenceID, &meetingLink, &transcript,
		&lead.PriorityScore, &intentMeta, &lead.Timestamp, &lead.SyncStatus,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	lead.ClientUUID = parsed

	lead.Email = email.String
	lead.Company = company.String
	lead.Role = role.String
	lead.Location = location.String
	lead.Notes = notes.String
	lead.Intent = intent.String
	lead.TicketSize = ticketSize.String
	lead.Source = source.String
	lead.OwnerID = ownerID.String
	lead.ConferenceID = conferenceID.String
	lead.MeetingLink = meetingLink.String
	lead.Transcript = transcript.String
	lead.IntentMeta = intentMeta.String
	if reminderDate.Valid {
		t := reminderDate.Time
		lead.ReminderDate = &t
	}

	return lead, nil
}

func GetLead(q DBTX, id uuid.UUID) (*models.Lead, error) {
	row := q.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id.String())
	lead, err := scanLead(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get lead", Err: err}
	}
	return lead, nil
}

func collectLeads(rows *sql.Rows) ([]models.Lead, error) {
	defer func() { _ = rows.Close() }()

	var leads []models.Lead
	for rows.Next() {
		lead, err := scanLead(rows.Scan)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// ListLeads returns all leads, most recently touched first.
func ListLeads(q DBTX) ([]models.Lead, error) {
	rows, err := q.Query(`SELECT ` + leadColumns + ` FROM leads ORDER BY timestamp DESC`)
	if err != nil {
		return nil, &models.StorageError{Op: "list leads", Err: err}
	}
	return collectLeads(rows)
}

// LeadsByStage returns all leads in the given pipeline stage.
func LeadsByStage(q DBTX, stage string) ([]models.Lead, error) {
	rows, err := q.Query(`SELECT `+leadColumns+` FROM leads WHERE status = ? ORDER BY timestamp DESC`, stage)
	if err != nil {
		return nil, &models.StorageError{Op: "leads by stage", Err: err}
	}
	return collectLeads(rows)
}

// PendingLeads returns leads awaiting upload, oldest first so the batch
// preserves capture order.
func PendingLeads(q DBTX) ([]models.Lead, error) {
	rows, err := q.Query(`SELECT `+leadColumns+` FROM leads WHERE sync_status = ? ORDER BY timestamp ASC`, models.SyncPending)
	if err != nil {
		return nil, &models.StorageError{Op: "pending leads", Err: err}
	}
	return collectLeads(rows)
}

// UpdateLeadStage sets the lead's stage and last-touch timestamp, and the
// reminder date when one is supplied with the move. The lead drops back to
// pending so the change rides the next upload batch even if the lead had
// already synced.
func UpdateLeadStage(q DBTX, id uuid.UUID, stage string, reminderDate *time.Time, timestamp time.Time) error {
	var res sql.Result
	var err error
	if reminderDate != nil {
		res, err = q.Exec(`UPDATE leads SET status = ?, reminder_date = ?, timestamp = ?, sync_status = ? WHERE id = ?`,
			stage, reminderDate, timestamp, models.SyncPending, id.String())
	} else {
		res, err = q.Exec(`UPDATE leads SET status = ?, timestamp = ?, sync_status = ? WHERE id = ?`,
			stage, timestamp, models.SyncPending, id.String())
	}
	if err != nil {
		return &models.StorageError{Op: "update lead stage", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "update lead stage", Err: err}
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AppendLeadNote appends text to the lead's free-text notes and drops the
// lead back to pending so the new note reaches the server with the next batch.
func AppendLeadNote(q DBTX, id uuid.UUID, note string, timestamp time.Time) error {
	res, err := q.Exec(`
		UPDATE leads
		SET notes = CASE WHEN notes IS NULL OR notes = '' THEN ? ELSE notes || char(10) || ? END,
		    timestamp = ?,
		    sync_status = ?
		WHERE id = ?
	`, note, note, timestamp, models.SyncPending, id.String())
	if err != nil {
		return &models.StorageError{Op: "append lead note", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "append lead note", Err: err}
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkLeadsSynced flips the given leads to synced. Run inside one transaction
// so the whole batch is observed atomically.
func MarkLeadsSynced(q DBTX, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := q.Exec(`UPDATE leads SET sync_status = ? WHERE id = ?`,
			models.SyncSynced, id.String()); err != nil {
			return &models.StorageError{Op: "mark lead synced", Err: err}
		}
	}
	return nil
}

// ApplyAudioEnrichment merges audio post-processing results into the lead.
// Existing values win so a re-upload cannot clobber earlier enrichment.
func ApplyAudioEnrichment(q DBTX, id uuid.UUID, transcript string, priorityScore int, meetingLink, intentMeta string) error {
	res, err := q.Exec(`
		UPDATE leads
		SET transcript = CASE WHEN transcript IS NULL OR transcript = '' THEN ? ELSE transcript END,
		    priority_score = CASE WHEN priority_score = 0 THEN ? ELSE priority_score END,
		    meeting_link = CASE WHEN meeting_link IS NULL OR meeting_link = '' THEN ? ELSE meeting_link END,
		    intent_meta = CASE WHEN intent_meta IS NULL OR intent_meta = '' THEN ? ELSE intent_meta END
		WHERE id = ?
	`, transcript, priorityScore, meetingLink, intentMeta, id.String())
	if err != nil {
		return &models.StorageError{Op: "apply audio enrichment", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "apply audio enrichment", Err: err}
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountLeadsBySyncStatus returns how many leads sit in each sync state.
func CountLeadsBySyncStatus(q DBTX) (map[string]int, error) {
	rows, err := q.Query(`SELECT sync_status, COUNT(*) FROM leads GROUP BY sync_status`)
	if err != nil {
		return nil, &models.StorageError{Op: "count leads", Err: err}
	}
	defer func() { _ = rows.Close() }()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
