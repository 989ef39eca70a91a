// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT,
	company TEXT,
	role TEXT,
	location TEXT,
	notes TEXT,
	intent TEXT,
	status TEXT NOT NULL CHECK(status IN ('Met Up', 'Follow Up', 'Engaged', 'Meeting', 'Outcome')),
	reminder_date DATETIME,
	revenue REAL NOT NULL DEFAULT 0,
	ticket_size TEXT,
	engagement_score INTEGER NOT NULL DEFAULT 0,
	predicted_aua INTEGER NOT NULL DEFAULT 0,
	readiness_score INTEGER NOT NULL DEFAULT 0,
	mode TEXT NOT NULL CHECK(mode IN ('stall', 'field')),
	source TEXT,
	owner_id TEXT,
	conference_id TEXT,
	meeting_link TEXT,
	transcript TEXT,
	priority_score INTEGER NOT NULL DEFAULT 0,
	intent_meta TEXT,
	timestamp DATETIME NOT NULL,
	sync_status TEXT NOT NULL DEFAULT 'pending' CHECK(sync_status IN ('pending', 'synced', 'error'))
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_sync_status ON leads(sync_status);
CREATE INDEX IF NOT EXISTS idx_leads_timestamp ON leads(timestamp DESC);

CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('stage_change', 'note', 'sync')),
	note TEXT,
	timestamp DATETIME NOT NULL,
	sync_status TEXT NOT NULL DEFAULT 'pending' CHECK(sync_status IN ('pending', 'synced', 'error')),
	FOREIGN KEY (lead_id) REFERENCES leads(id)
);

CREATE INDEX IF NOT EXISTS idx_interactions_lead_id ON interactions(lead_id);
CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp DESC);

CREATE TABLE IF NOT EXISTS outbox (
	id TEXT PRIMARY KEY,
	op_type TEXT NOT NULL CHECK(op_type IN ('create_lead', 'update_status', 'create_note', 'audio_upload', 'send_notification')),
	payload TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'synced', 'failed')),
	error TEXT
);

CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox(status);
CREATE INDEX IF NOT EXISTS idx_outbox_op_type ON outbox(op_type);

CREATE TABLE IF NOT EXISTS media (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	file_name TEXT NOT NULL UNIQUE,
	capture_type TEXT,
	data BLOB,
	timestamp DATETIME NOT NULL,
	transcript TEXT,
	priority_score INTEGER NOT NULL DEFAULT 0,
	meeting_link TEXT,
	intent_meta TEXT,
	sync_status TEXT NOT NULL DEFAULT 'pending' CHECK(sync_status IN ('pending', 'synced', 'error')),
	FOREIGN KEY (lead_id) REFERENCES leads(id)
);

CREATE INDEX IF NOT EXISTS idx_media_lead_id ON media(lead_id);
CREATE INDEX IF NOT EXISTS idx_media_timestamp ON media(timestamp DESC);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	title TEXT NOT NULL,
	meet_link TEXT,
	timestamp DATETIME NOT NULL,
	sync_status TEXT NOT NULL DEFAULT 'pending' CHECK(sync_status IN ('pending', 'synced', 'error')),
	FOREIGN KEY (lead_id) REFERENCES leads(id)
);

CREATE INDEX IF NOT EXISTS idx_reminders_lead_id ON reminders(lead_id);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	// Seed the sync status flag so readers never see a missing key
	_, err := db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES ('sync_status', 'idle')`)
	return err
}
