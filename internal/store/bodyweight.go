package store

import (
	"context"
	"database/sql"
	"errors"

	"taskathlete/internal/domain"
)

// BodyweightStore handles persistence for bodyweight samples.
type BodyweightStore struct {
	db *sql.DB
}

// NewBodyweightStore creates a new BodyweightStore.
func NewBodyweightStore(db *sql.DB) *BodyweightStore {
	return &BodyweightStore{db: db}
}

// Add inserts a bodyweight sample. Fails with
// domain.ErrBodyweightEntryExists if a non-deleted entry already exists
// at the same timestamp.
func (s *BodyweightStore) Add(ctx context.Context, entry domain.BodyweightEntry) (int64, error) {
	var collision int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM bodyweights WHERE deleted = 0 AND timestamp = ?
	`, formatTimestamp(entry.Timestamp)).Scan(&collision)
	if err == nil {
		return 0, domain.ErrBodyweightEntryExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NewStorageFailure("check-bodyweight-collision", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bodyweights (timestamp, weight, deleted, last_edited) VALUES (?, ?, 0, ?)
	`, formatTimestamp(entry.Timestamp), entry.Weight, formatTimestamp(nowFn()))
	if err != nil {
		if isUniqueConstraint(err) {
			return 0, domain.ErrBodyweightEntryExists
		}
		return 0, domain.NewStorageFailure("add-bodyweight", err)
	}
	return res.LastInsertId()
}

func scanBodyweight(row rowScanner) (domain.BodyweightEntry, error) {
	var (
		e          domain.BodyweightEntry
		ts         string
		deleted    bool
		lastEdited string
	)
	if err := row.Scan(&e.ID, &ts, &e.Weight, &deleted, &lastEdited); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, domain.ErrBodyweightEntryNotFound
		}
		return e, domain.NewStorageFailure("scan-bodyweight", err)
	}
	if parsed, err := parseTimestamp(ts); err == nil {
		e.Timestamp = parsed
	}
	e.Deleted = deleted
	if parsed, err := parseTimestamp(lastEdited); err == nil {
		e.LastEdited = parsed
	}
	return e, nil
}

// List returns non-deleted bodyweight entries, most recent first. A nil
// limit returns every entry.
func (s *BodyweightStore) List(ctx context.Context, limit *int) ([]domain.BodyweightEntry, error) {
	query := `
		SELECT id, timestamp, weight, deleted, last_edited FROM bodyweights
		WHERE deleted = 0 ORDER BY timestamp DESC, last_edited DESC
	`
	var args []any
	if limit != nil {
		query += " LIMIT ?"
		args = append(args, *limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageFailure("list-bodyweights", err)
	}
	defer rows.Close()

	var out []domain.BodyweightEntry
	for rows.Next() {
		e, err := scanBodyweight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLatest returns the most recent non-deleted bodyweight entry, or nil
// if none exist.
func (s *BodyweightStore) GetLatest(ctx context.Context) (*domain.BodyweightEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, weight, deleted, last_edited FROM bodyweights
		WHERE deleted = 0 ORDER BY timestamp DESC, last_edited DESC LIMIT 1
	`)
	e, err := scanBodyweight(row)
	if errors.Is(err, domain.ErrBodyweightEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete soft-deletes the bodyweight entry with the given id.
func (s *BodyweightStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bodyweights SET deleted = 1, last_edited = ? WHERE id = ? AND deleted = 0
	`, formatTimestamp(nowFn()), id)
	if err != nil {
		return 0, domain.NewStorageFailure("delete-bodyweight", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageFailure("delete-bodyweight", err)
	}
	if affected == 0 {
		return 0, domain.ErrBodyweightEntryNotFound
	}
	return affected, nil
}
