package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/logging"
)

// MaxRecent is the number of visits kept.
const MaxRecent = 1000

// Visit is one recorded blueprint visit.
type Visit struct {
	ID        uuid.UUID
	Name      string
	VisitedAt time.Time
}

// RecentStore records shown blueprints, newest first.
type RecentStore struct {
	db      *sql.DB
	maxSize int
	now     func() time.Time
}

// NewRecentStore creates a visit log using the given database.
func NewRecentStore(db *DB) *RecentStore {
	return &RecentStore{db: db.Conn(), maxSize: MaxRecent, now: time.Now}
}

// Add records a visit. If the blueprint was already the most recent entry,
// it updates the timestamp instead of creating a duplicate.
func (rs *RecentStore) Add(id uuid.UUID, name string) error {
	if id == uuid.Nil {
		return nil
	}
	now := rs.now().UTC().Format(time.RFC3339Nano)

	var lastID int64
	var lastGUID string
	err := rs.db.QueryRow(`SELECT id, guid FROM recent ORDER BY id DESC LIMIT 1`).Scan(&lastID, &lastGUID)
	switch {
	case err == nil && lastGUID == id.String():
		if _, err := rs.db.Exec(
			`UPDATE recent SET visited_at = ?, name = ? WHERE id = ?`, now, name, lastID,
		); err != nil {
			return fmt.Errorf("refreshing visit: %w", err)
		}
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("reading last visit: %w", err)
	}

	if _, err := rs.db.Exec(
		`INSERT INTO recent (guid, name, visited_at) VALUES (?, ?, ?)`, id.String(), name, now,
	); err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}

	// Trim if over max.
	if _, err := rs.db.Exec(
		`DELETE FROM recent WHERE id NOT IN (SELECT id FROM recent ORDER BY id DESC LIMIT ?)`, rs.maxSize,
	); err != nil {
		return fmt.Errorf("trimming visits: %w", err)
	}
	return nil
}

// List returns up to limit visits, newest first. A limit <= 0 returns all.
func (rs *RecentStore) List(limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = rs.maxSize
	}
	rows, err := rs.db.Query(
		`SELECT guid, name, visited_at FROM recent ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var guid, name, at string
		if err := rows.Scan(&guid, &name, &at); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		id, err := uuid.Parse(guid)
		if err != nil {
			continue
		}
		visitedAt, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			logging.Error(fmt.Errorf("visit %s: bad time %q: %w", guid, at, err))
			continue
		}
		visits = append(visits, Visit{ID: id, Name: name, VisitedAt: visitedAt})
	}
	return visits, rows.Err()
}

// Clear removes all visits.
func (rs *RecentStore) Clear() error {
	if _, err := rs.db.Exec(`DELETE FROM recent`); err != nil {
		return fmt.Errorf("clearing visits: %w", err)
	}
	return nil
}

// Count returns the number of recorded visits.
func (rs *RecentStore) Count() int {
	var n int
	if err := rs.db.QueryRow(`SELECT COUNT(*) FROM recent`).Scan(&n); err != nil {
		return 0
	}
	return n
}
