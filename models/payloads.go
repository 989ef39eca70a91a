// ABOUTME: Outbox payload shapes, one per operation type
// ABOUTME: Denormalized replay data stored as JSON inside outbox entries
package models

import "time"

// StatusPayload replays a stage move.
type StatusPayload struct {
	ClientUUID string    `json:"client_uuid"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// NotePayload replays a manual note.
type NotePayload struct {
	ClientUUID string    `json:"client_uuid"`
	Note       string    `json:"note"`
	Timestamp  time.Time `json:"timestamp"`
}

// AudioPayload references a recording by id only, never by object handle, so
// a deleted lead cannot corrupt the queued entry.
type AudioPayload struct {
	LeadID   string `json:"lead_id"`
	FileName string `json:"file_name"`
}

// NotificationPayload replays a queued meeting invitation email.
type NotificationPayload struct {
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	MeetLink    string    `json:"meet_link"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
