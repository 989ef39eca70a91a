// ABOUTME: Key/value settings operations
// ABOUTME: Process-wide state such as the sync status flag and last sync time
package db

import (
	"database/sql"

	"github.com/harperreed/fieldsync/models"
)

// Setting keys used by the sync engine.
const (
	SettingSyncStatus = "sync_status"
	SettingLastSync   = "last_sync"
)

// Sync status flag values.
const (
	SyncStateIdle    = "idle"
	SyncStateSyncing = "syncing"
	SyncStateError   = "error"
)

// GetSetting returns the value for key, or "" if the key is absent.
func GetSetting(q DBTX, key string) (string, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &models.StorageError{Op: "get setting", Err: err}
	}
	return value, nil
}

// PutSetting inserts or replaces a setting value.
func PutSetting(q DBTX, key, value string) error {
	_, err := q.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return &models.StorageError{Op: "put setting", Err: err}
	}
	return nil
}
