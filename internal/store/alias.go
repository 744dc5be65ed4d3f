package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"taskathlete/internal/domain"
)

// AliasStore handles persistence for alternative exercise labels.
type AliasStore struct {
	db *sql.DB
}

// NewAliasStore creates a new AliasStore.
func NewAliasStore(db *sql.DB) *AliasStore {
	return &AliasStore{db: db}
}

// Create inserts an alias pointing at canonicalExercise. Fails with
// domain.ErrAliasAlreadyExists on a case-insensitive collision with an
// existing non-deleted alias.
func (s *AliasStore) Create(ctx context.Context, alias, canonicalExercise string) error {
	var existing string
	err := s.db.QueryRowContext(ctx, `
		SELECT alias_name FROM aliases WHERE deleted = 0 AND lower(alias_name) = lower(?)
	`, alias).Scan(&existing)
	if err == nil {
		return domain.ErrAliasAlreadyExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.NewStorageFailure("check-alias-collision", err)
	}

	// A soft-deleted row with the same alias_name still holds the primary
	// key; it is revived with the new target instead of failing.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO aliases (alias_name, exercise_name, deleted, last_edited) VALUES (?, ?, 0, ?)
		ON CONFLICT(alias_name) DO UPDATE SET exercise_name = excluded.exercise_name, deleted = 0, last_edited = excluded.last_edited
		WHERE aliases.deleted = 1
	`, alias, canonicalExercise, formatTimestamp(nowFn()))
	if err != nil {
		if isUniqueConstraint(err) {
			return domain.ErrAliasAlreadyExists
		}
		return domain.NewStorageFailure("create-alias", err)
	}
	return nil
}

// Delete soft-deletes an alias. Fails with domain.ErrAliasNotFound if no
// non-deleted alias matches, case-insensitively.
func (s *AliasStore) Delete(ctx context.Context, alias string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE aliases SET deleted = 1, last_edited = ? WHERE lower(alias_name) = lower(?) AND deleted = 0
	`, formatTimestamp(nowFn()), alias)
	if err != nil {
		return 0, domain.NewStorageFailure("delete-alias", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageFailure("delete-alias", err)
	}
	if affected == 0 {
		return 0, domain.ErrAliasNotFound
	}
	return affected, nil
}

// GetCanonicalFor returns the canonical exercise name the alias
// currently resolves to, or ("", false) if no non-deleted alias matches.
func (s *AliasStore) GetCanonicalFor(ctx context.Context, alias string) (string, bool, error) {
	var canonical string
	err := s.db.QueryRowContext(ctx, `
		SELECT exercise_name FROM aliases WHERE deleted = 0 AND lower(alias_name) = lower(?)
	`, alias).Scan(&canonical)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewStorageFailure("get-canonical-for-alias", err)
	}
	return canonical, true, nil
}

// List returns every non-deleted alias, sorted ascending by alias name.
// A plain map can't carry that ordering, so callers get the rows
// directly rather than a map[string]string.
func (s *AliasStore) List(ctx context.Context) ([]domain.Alias, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT alias_name, exercise_name, last_edited FROM aliases WHERE deleted = 0 ORDER BY alias_name ASC
	`)
	if err != nil {
		return nil, domain.NewStorageFailure("list-aliases", err)
	}
	defer rows.Close()

	var out []domain.Alias
	for rows.Next() {
		var alias, canonical, lastEdited string
		if err := rows.Scan(&alias, &canonical, &lastEdited); err != nil {
			return nil, domain.NewStorageFailure("list-aliases", err)
		}
		a := domain.Alias{AliasName: alias, ExerciseName: canonical}
		if ts, err := parseTimestamp(lastEdited); err == nil {
			a.LastEdited = ts
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageFailure("list-aliases", err)
	}
	return out, nil
}

// NameCollides reports whether candidate equals (case-insensitively) a
// non-deleted exercise's id or name — the check the alias invariant
// requires at creation time.
func NameCollides(ctx context.Context, db *sql.DB, candidate string) (bool, error) {
	if _, err := strconv.ParseInt(strings.TrimSpace(candidate), 10, 64); err == nil {
		var id int64
		err := db.QueryRowContext(ctx, `SELECT id FROM exercises WHERE deleted = 0 AND id = ?`, candidate).Scan(&id)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return false, domain.NewStorageFailure("check-alias-collision", err)
		}
	}
	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM exercises WHERE deleted = 0 AND lower(name) = lower(?)`, candidate).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, domain.NewStorageFailure("check-alias-collision", err)
}
