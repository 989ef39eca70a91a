// ABOUTME: Data models for offline lead capture entities
// ABOUTME: Defines Lead, Interaction, OutboxEntry, MediaRecord, and Reminder structs
package models

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type Lead struct {
	ClientUUID      uuid.UUID  `json:"client_uuid"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email,omitempty"`
	Company         string     `json:"company,omitempty"`
	Role            string     `json:"role,omitempty"`
	Location        string     `json:"location,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Intent          string     `json:"intent"`
	Status          string     `json:"status"`
	ReminderDate    *time.Time `json:"reminder_date,omitempty"`
	Revenue         float64    `json:"revenue,omitempty"`
	TicketSize      string     `json:"ticket_size,omitempty"`
	EngagementScore int        `json:"engagement_score,omitempty"`
	PredictedAUA    int64      `json:"predicted_aua,omitempty"`
	ReadinessScore  int        `json:"readiness_score,omitempty"`
	Mode            string     `json:"mode"`
	Source          string     `json:"source,omitempty"`
	OwnerID         string     `json:"owner_id,omitempty"`
	ConferenceID    string     `json:"conference_id,omitempty"`
	MeetingLink     string     `json:"meeting_link,omitempty"`
	Transcript      string     `json:"transcript,omitempty"`
	PriorityScore   int        `json:"priority_score,omitempty"`
	IntentMeta      string     `json:"intent_meta,omitempty"` // JSON blob from audio processing
	Timestamp       time.Time  `json:"timestamp"`
	SyncStatus      string     `json:"sync_status"`
}

type Interaction struct {
	ID         string    `json:"id"`
	LeadID     uuid.UUID `json:"lead_id"`
	Type       string    `json:"type"`
	Note       string    `json:"note,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SyncStatus string    `json:"sync_status"`
}

type OutboxEntry struct {
	ID        string    `json:"id"`
	OpType    string    `json:"op_type"`
	Payload   string    `json:"payload"` // JSON snapshot of the data needed to replay the op
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

type MediaRecord struct {
	ID            string    `json:"id"`
	LeadID        uuid.UUID `json:"lead_id"`
	FileName      string    `json:"file_name"`
	CaptureType   string    `json:"capture_type"`
	Data          []byte    `json:"-"`
	Timestamp     time.Time `json:"timestamp"`
	Transcript    string    `json:"transcript,omitempty"`
	PriorityScore int       `json:"priority_score,omitempty"`
	MeetingLink   string    `json:"meeting_link,omitempty"`
	IntentMeta    string    `json:"intent_meta,omitempty"`
	SyncStatus    string    `json:"sync_status"`
}

type Reminder struct {
	ID         string    `json:"id"`
	LeadID     uuid.UUID `json:"lead_id"`
	Title      string    `json:"title"`
	MeetLink   string    `json:"meet_link,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SyncStatus string    `json:"sync_status"`
}

// Pipeline stages, in order.
const (
	StageMetUp    = "Met Up"
	StageFollowUp = "Follow Up"
	StageEngaged  = "Engaged"
	StageMeeting  = "Meeting"
	StageOutcome  = "Outcome"
)

// Stages returns the pipeline stages in display order.
func Stages() []string {
	return []string{StageMetUp, StageFollowUp, StageEngaged, StageMeeting, StageOutcome}
}

// ValidStage reports whether s is a known pipeline stage.
func ValidStage(s string) bool {
	switch s {
	case StageMetUp, StageFollowUp, StageEngaged, StageMeeting, StageOutcome:
		return true
	}
	return false
}

// StageRequiresReminder reports whether a lead entering s must carry a
// reminder date before the transition is accepted.
func StageRequiresReminder(s string) bool {
	return s == StageFollowUp
}

// StageAtOrPastFollowUp reports whether s is Follow Up or a later stage.
// Meetings can only be scheduled from these stages.
func StageAtOrPastFollowUp(s string) bool {
	switch s {
	case StageFollowUp, StageEngaged, StageMeeting, StageOutcome:
		return true
	}
	return false
}

// SyncStatus values for leads, interactions, media, and reminders.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// Outbox entry status values.
const (
	OutboxPending = "pending"
	OutboxSynced  = "synced"
	OutboxFailed  = "failed"
)

// Outbox operation types.
const (
	OpCreateLead       = "create_lead"
	OpUpdateStatus     = "update_status"
	OpCreateNote       = "create_note"
	OpAudioUpload      = "audio_upload"
	OpSendNotification = "send_notification"
)

// Interaction types.
const (
	InteractionStageChange = "stage_change"
	InteractionNote        = "note"
	InteractionSync        = "sync"
)

// Capture modes.
const (
	ModeStall = "stall"
	ModeField = "field"
)

// Intent tags offered at capture time.
const (
	IntentHotLead        = "Hot Lead"
	IntentInterested     = "Interested"
	IntentFollowUp       = "Follow Up"
	IntentGeneralInquiry = "General Inquiry"
	IntentServiceCheck   = "Service Check"
)

// NewULID returns a new lexicographically time-ordered identifier.
// Ordering by primary key therefore preserves creation order.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// CaptureInput carries the raw fields collected during a capture session.
type CaptureInput struct {
	Name            string
	Phone           string
	Email           string
	Company         string
	Role            string
	Location        string
	Notes           string
	Intent          string
	Mode            string
	TicketSize      string
	EngagementScore int
	Revenue         float64
	OwnerID         string
	ConferenceID    string
}

// NewLead builds a Lead from capture input. The client UUID is assigned here,
// exactly once, before the first persisted write. Required fields are enforced
// so malformed records are rejected at construction, not downstream.
func NewLead(in CaptureInput) (*Lead, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	if in.Phone == "" {
		return nil, &ValidationError{Field: "phone", Reason: "phone is required"}
	}
	mode := in.Mode
	if mode == "" {
		mode = ModeStall
	}
	if mode != ModeStall && mode != ModeField {
		return nil, &ValidationError{Field: "mode", Reason: "mode must be stall or field"}
	}
	intent := in.Intent
	if intent == "" {
		intent = IntentInterested
	}
	switch intent {
	case IntentHotLead, IntentInterested, IntentFollowUp, IntentGeneralInquiry, IntentServiceCheck:
	default:
		return nil, &ValidationError{Field: "intent", Reason: "unknown intent tag"}
	}

	lead := &Lead{
		ClientUUID:      uuid.New(),
		Name:            in.Name,
		Phone:           in.Phone,
		Email:           in.Email,
		Company:         in.Company,
		Role:            in.Role,
		Location:        in.Location,
		Notes:           in.Notes,
		Intent:          intent,
		Status:          StageMetUp,
		Revenue:         in.Revenue,
		TicketSize:      in.TicketSize,
		EngagementScore: in.EngagementScore,
		Mode:            mode,
		Source:          mode,
		OwnerID:         in.OwnerID,
		ConferenceID:    in.ConferenceID,
		Timestamp:       time.Now().UTC(),
		SyncStatus:      SyncPending,
	}
	lead.PredictedAUA = PredictAUA(lead.TicketSize)
	lead.ReadinessScore = ComputeReadinessScore(lead)
	return lead, nil
}

// OverdueFollowUp reports whether the lead sits in Follow Up with a reminder
// date that has already passed.
func (l *Lead) OverdueFollowUp(now time.Time) bool {
	return l.Status == StageFollowUp && l.ReminderDate != nil && l.ReminderDate.Before(now)
}
