package store

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"taskathlete/internal/domain"
)

// ExerciseStore handles persistence for the exercise catalog.
type ExerciseStore struct {
	db *sql.DB
}

// NewExerciseStore creates a new ExerciseStore.
func NewExerciseStore(db *sql.DB) *ExerciseStore {
	return &ExerciseStore{db: db}
}

// Create inserts a new, non-deleted exercise definition. Fails with
// domain.ErrExerciseNameNotUnique when a non-deleted exercise already
// owns name, case-insensitively.
func (s *ExerciseStore) Create(ctx context.Context, name string, typ domain.ExerciseType, muscles string, flags domain.LogFlags) (int64, error) {
	// The schema has no case-insensitive unique index on name, so
	// uniqueness among non-deleted rows is checked before the insert.
	var existingID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM exercises WHERE deleted = 0 AND lower(name) = lower(?)
	`, name).Scan(&existingID)
	if err == nil {
		return 0, domain.ErrExerciseNameNotUnique
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NewStorageFailure("check-exercise-name", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (name, type, muscles, log_weight, log_reps, log_duration, log_distance, deleted, last_edited)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, name, string(typ), muscles, flags.Weight, flags.Reps, flags.Duration, flags.Distance, formatTimestamp(nowFn()))
	if err != nil {
		if isUniqueConstraint(err) {
			return 0, domain.ErrExerciseNameNotUnique
		}
		return 0, domain.NewStorageFailure("create-exercise", err)
	}
	return res.LastInsertId()
}

// nowFn is overridable in tests; defaults to defaultNow (helpers.go),
// the current UTC time. The exercise, workout, alias and bodyweight
// stores all stamp last_edited through it.
var nowFn = defaultNow

// GetByName returns the non-deleted exercise definition matching name,
// case-insensitively.
func (s *ExerciseStore) GetByName(ctx context.Context, name string) (*domain.ExerciseDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, muscles, log_weight, log_reps, log_duration, log_distance, deleted, last_edited
		FROM exercises WHERE deleted = 0 AND lower(name) = lower(?)
	`, name)
	return scanExercise(row)
}

// GetByID returns the non-deleted exercise definition with the given id.
func (s *ExerciseStore) GetByID(ctx context.Context, id int64) (*domain.ExerciseDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, muscles, log_weight, log_reps, log_duration, log_distance, deleted, last_edited
		FROM exercises WHERE deleted = 0 AND id = ?
	`, id)
	return scanExercise(row)
}

type exerciseRowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row exerciseRowScanner) (*domain.ExerciseDefinition, error) {
	var (
		e          domain.ExerciseDefinition
		typeStr    string
		muscles    sql.NullString
		deleted    bool
		lastEdited string
	)
	err := row.Scan(&e.ID, &e.Name, &typeStr, &muscles, &e.LogFlags.Weight, &e.LogFlags.Reps,
		&e.LogFlags.Duration, &e.LogFlags.Distance, &deleted, &lastEdited)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrExerciseNotFound
	}
	if err != nil {
		return nil, domain.NewStorageFailure("scan-exercise", err)
	}
	t, ok := domain.ParseExerciseType(typeStr)
	if !ok {
		return nil, domain.NewStorageFailure("scan-exercise", errors.New("unknown exercise type: "+typeStr))
	}
	e.Type = t
	e.Muscles = muscles.String
	e.Deleted = deleted
	if ts, err := parseTimestamp(lastEdited); err == nil {
		e.LastEdited = ts
	}
	return &e, nil
}

// ExerciseUpdate is the patch applied by Update. Nil fields are left
// untouched.
type ExerciseUpdate struct {
	NewName     *string
	NewType     *domain.ExerciseType
	NewMuscles  *string
	NewLogFlags *domain.LogFlags
}

// Update applies patch to the exercise named canonicalName. If NewName
// is set and differs from canonicalName, the rename cascades into
// workouts.exercise_name and aliases.exercise_name within the same
// transaction. Fails with domain.ErrExerciseNameNotUnique if the new name
// collides with another non-deleted exercise.
func (s *ExerciseStore) Update(ctx context.Context, canonicalName string, patch ExerciseUpdate) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.NewStorageFailure("begin-update-exercise", err)
	}
	defer tx.Rollback()

	existing, err := scanExercise(tx.QueryRowContext(ctx, `
		SELECT id, name, type, muscles, log_weight, log_reps, log_duration, log_distance, deleted, last_edited
		FROM exercises WHERE deleted = 0 AND lower(name) = lower(?)
	`, canonicalName))
	if err != nil {
		return 0, err
	}

	newName := existing.Name
	if patch.NewName != nil {
		newName = *patch.NewName
	}
	newType := existing.Type
	if patch.NewType != nil {
		newType = *patch.NewType
	}
	newMuscles := existing.Muscles
	if patch.NewMuscles != nil {
		newMuscles = *patch.NewMuscles
	}
	newFlags := existing.LogFlags
	if patch.NewLogFlags != nil {
		newFlags = *patch.NewLogFlags
	}

	renaming := !strings.EqualFold(newName, existing.Name)
	if renaming {
		var collisionID int64
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM exercises WHERE deleted = 0 AND lower(name) = lower(?) AND id != ?
		`, newName, existing.ID).Scan(&collisionID)
		if err == nil {
			return 0, domain.ErrExerciseNameNotUnique
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NewStorageFailure("check-rename-collision", err)
		}
	}

	now := formatTimestamp(nowFn())
	res, err := tx.ExecContext(ctx, `
		UPDATE exercises SET name = ?, type = ?, muscles = ?, log_weight = ?, log_reps = ?, log_duration = ?, log_distance = ?, last_edited = ?
		WHERE id = ?
	`, newName, string(newType), newMuscles, newFlags.Weight, newFlags.Reps, newFlags.Duration, newFlags.Distance, now, existing.ID)
	if err != nil {
		return 0, domain.NewStorageFailure("update-exercise", err)
	}
	affected, _ := res.RowsAffected()

	if renaming {
		if _, err := tx.ExecContext(ctx, `
			UPDATE workouts SET exercise_name = ?, last_edited = ? WHERE lower(exercise_name) = lower(?) AND deleted = 0
		`, newName, now, existing.Name); err != nil {
			return 0, domain.NewStorageFailure("cascade-rename-workouts", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE aliases SET exercise_name = ?, last_edited = ? WHERE lower(exercise_name) = lower(?) AND deleted = 0
		`, newName, now, existing.Name); err != nil {
			return 0, domain.NewStorageFailure("cascade-rename-aliases", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.NewStorageFailure("commit-update-exercise", err)
	}
	return affected, nil
}

// Delete soft-deletes the exercise named canonicalName and cascades a
// soft-delete into every alias targeting it, within one transaction.
// Workouts referencing the name are left untouched: they remain
// listable, joined against a now-deleted definition.
func (s *ExerciseStore) Delete(ctx context.Context, canonicalName string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.NewStorageFailure("begin-delete-exercise", err)
	}
	defer tx.Rollback()

	now := formatTimestamp(nowFn())

	if _, err := tx.ExecContext(ctx, `
		UPDATE aliases SET deleted = 1, last_edited = ? WHERE lower(exercise_name) = lower(?) AND deleted = 0
	`, now, canonicalName); err != nil {
		return 0, domain.NewStorageFailure("cascade-delete-aliases", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE exercises SET deleted = 1, last_edited = ? WHERE lower(name) = lower(?) AND deleted = 0
	`, now, canonicalName)
	if err != nil {
		return 0, domain.NewStorageFailure("delete-exercise", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageFailure("delete-exercise", err)
	}
	if affected == 0 {
		return 0, domain.ErrExerciseNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.NewStorageFailure("commit-delete-exercise", err)
	}
	return affected, nil
}

// List returns non-deleted exercise definitions, optionally filtered by
// type and/or a case-insensitive substring match against the muscle tag
// list, ordered by name.
func (s *ExerciseStore) List(ctx context.Context, typeFilter *domain.ExerciseType, muscleFilter *string) ([]domain.ExerciseDefinition, error) {
	query := `
		SELECT id, name, type, muscles, log_weight, log_reps, log_duration, log_distance, deleted, last_edited
		FROM exercises WHERE deleted = 0
	`
	var args []any
	if typeFilter != nil {
		query += " AND type = ?"
		args = append(args, string(*typeFilter))
	}
	if muscleFilter != nil {
		query += " AND lower(coalesce(muscles, '')) LIKE '%' || lower(?) || '%'"
		args = append(args, *muscleFilter)
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageFailure("list-exercises", err)
	}
	defer rows.Close()

	var out []domain.ExerciseDefinition
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// ListAllMuscles returns the sorted, unique, lower-cased set of muscle
// tags split out of every non-deleted exercise's Muscles field.
func (s *ExerciseStore) ListAllMuscles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT muscles FROM exercises WHERE deleted = 0 AND muscles IS NOT NULL AND muscles != ''`)
	if err != nil {
		return nil, domain.NewStorageFailure("list-muscles", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var muscles string
		if err := rows.Scan(&muscles); err != nil {
			return nil, domain.NewStorageFailure("list-muscles", err)
		}
		def := domain.ExerciseDefinition{Muscles: muscles}
		for _, tag := range def.MuscleList() {
			set[tag] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageFailure("list-muscles", err)
	}

	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}
