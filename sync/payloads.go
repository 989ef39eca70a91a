// ABOUTME: Wire payload shapes for the remote sync API
// ABOUTME: Covers lead batch projections and audio processing results
package sync

import (
	"time"

	"github.com/harperreed/fieldsync/models"
)

// LeadPayload is the denormalized projection of a lead sent in a sync batch.
// The id is the client-generated UUID, the server-side idempotency key.
type LeadPayload struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Location     string       `json:"location,omitempty"`
	Intent       string       `json:"intent,omitempty"`
	Status       string       `json:"status"`
	CapturedAt   time.Time    `json:"captured_at"`
	Revenue      float64      `json:"revenue,omitempty"`
	ConferenceID string       `json:"conference_id,omitempty"`
	OwnerID      string       `json:"owner_id,omitempty"`
	MetaData     LeadMetaData `json:"meta_data"`
}

// LeadMetaData carries capture context alongside the lead projection.
type LeadMetaData struct {
	Source          string `json:"source,omitempty"`
	Mode            string `json:"mode,omitempty"`
	CapturedOffline bool   `json:"captured_offline"`
	Company         string `json:"company,omitempty"`
	Role            string `json:"role,omitempty"`
}

// NewLeadPayload projects a stored lead into its wire shape.
func NewLeadPayload(lead *models.Lead) LeadPayload {
	return LeadPayload{
		ID:           lead.ClientUUID.String(),
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Notes:        lead.Notes,
		Location:     lead.Location,
		Intent:       lead.Intent,
		Status:       lead.Status,
		CapturedAt:   lead.Timestamp,
		Revenue:      lead.Revenue,
		ConferenceID: lead.ConferenceID,
		OwnerID:      lead.OwnerID,
		MetaData: LeadMetaData{
			Source:          lead.Source,
			Mode:            lead.Mode,
			CapturedOffline: true,
			Company:         lead.Company,
			Role:            lead.Role,
		},
	}
}

// SyncRequest is the lead batch request body for POST /sync.
type SyncRequest struct {
	Leads []LeadPayload `json:"leads"`
}

// SyncAck is the acknowledgment body for a successful batch. Beyond being
// parseable JSON its shape is not contract-critical.
type SyncAck struct {
	Status            string `json:"status"`
	NewRecords        int    `json:"new_records"`
	IgnoredDuplicates int    `json:"ignored_duplicates"`
}

// AudioResult is the response body from POST /process-audio.
type AudioResult struct {
	Transcript      string            `json:"transcript"`
	ExtractedIntent map[string]string `json:"extracted_intent"`
	PriorityScore   int               `json:"priority_score"`
	MeetingLink     string            `json:"meeting_link,omitempty"`
}
