package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"arbor/internal/domain"
)

// SyncStats reports what Replace changed
type SyncStats struct {
	NodesAdded   int
	NodesDeleted int
	Duration     time.Duration
}

// Replace swaps the stored tree for records in one transaction. It is how a
// directory or tree file gets imported.
func (s *Store) Replace(ctx context.Context, records []domain.Record) (*SyncStats, error) {
	start := time.Now()
	stats := &SyncStats{}

	// Build first so a malformed import never touches the database, and
	// store the normalized rows so sibling indexes are contiguous
	tree, err := domain.Build(records)
	if err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	records = tree.Records()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM nodes`)
	if err != nil {
		return nil, err
	}
	deleted, _ := res.RowsAffected()
	stats.NodesDeleted = int(deleted)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, parent_id, index_in_parent, kind, name)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.ParentID, r.Index, r.Kind.String(), r.Name); err != nil {
			return nil, fmt.Errorf("failed to insert %s: %w", r.ID, err)
		}
		stats.NodesAdded++
	}

	// Update last sync time
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		strconv.FormatInt(time.Now().Unix(), 10))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// LastSync returns when Replace last ran, zero if never
func (s *Store) LastSync(ctx context.Context) time.Time {
	var value string
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'last_sync_time'`).Scan(&value); err != nil {
		return time.Time{}
	}
	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}
