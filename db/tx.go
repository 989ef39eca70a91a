// ABOUTME: Transaction helper and the DBTX interface shared by all store operations
// ABOUTME: Lets every query run against either *sql.DB or *sql.Tx
package db

import (
	"database/sql"
	"fmt"
)

// DBTX is the subset of *sql.DB and *sql.Tx the store operations need.
// Passing a *sql.Tx composes several writes into one atomic unit.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction. All writes commit together or none do.
func WithTx(database *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
