// Package sqlite provides a SQLite-backed implementation of the history
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // driver registration

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

const defaultListLimit = 50

// Adapter implements the history repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.HistoryRepository = (*Adapter)(nil)

// NewAdapter opens the database and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS classifications (
			id         TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			genre      TEXT NOT NULL,
			duration   REAL,
			energy     REAL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// Record stores one successful classification.
func (a *Adapter) Record(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO classifications (id, filename, genre, duration, energy, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Filename, entry.Genre, nullFloat(entry.Duration), nullFloat(entry.Energy), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record classification: %w", err)
	}
	return nil
}

// List returns the most recent classifications, newest first.
func (a *Adapter) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit < 1 {
		limit = defaultListLimit
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, filename, genre, duration, energy, created_at
		FROM classifications
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var entry domain.HistoryEntry
		var duration, energy sql.NullFloat64
		if err := rows.Scan(&entry.ID, &entry.Filename, &entry.Genre, &duration, &energy, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		if duration.Valid {
			d := duration.Float64
			entry.Duration = &d
		}
		if energy.Valid {
			e := energy.Float64
			entry.Energy = &e
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classifications: %w", err)
	}
	return entries, nil
}

// SetEnergy fills in the background-analysed preview energy for an entry.
func (a *Adapter) SetEnergy(ctx context.Context, id string, energy float64) error {
	res, err := a.db.ExecContext(ctx, `
		UPDATE classifications SET energy = ? WHERE id = ?
	`, energy, id)
	if err != nil {
		return fmt.Errorf("failed to update energy: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
