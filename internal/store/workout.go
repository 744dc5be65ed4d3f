package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskathlete/internal/domain"
)

// WorkoutStore handles persistence for logged workouts.
type WorkoutStore struct {
	db *sql.DB
}

// NewWorkoutStore creates a new WorkoutStore.
func NewWorkoutStore(db *sql.DB) *WorkoutStore {
	return &WorkoutStore{db: db}
}

// WorkoutFields are the values AddWorkout persists; unit conversion,
// bodyweight augmentation and resolution have already happened by the
// time they reach the store.
type WorkoutFields struct {
	Timestamp       time.Time
	ExerciseName    string
	Sets            *int
	Reps            *int
	Weight          *float64
	Bodyweight      *float64
	DurationMinutes *float64
	Distance        *float64
	Notes           string
}

// Add inserts a new workout row. Sets defaults to 1 when nil.
func (s *WorkoutStore) Add(ctx context.Context, f WorkoutFields) (int64, error) {
	sets := 1
	if f.Sets != nil {
		sets = *f.Sets
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO workouts (timestamp, exercise_name, sets, reps, weight, bodyweight, duration_minutes, distance, notes, deleted, last_edited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, formatTimestamp(f.Timestamp), f.ExerciseName, sets, f.Reps, f.Weight, f.Bodyweight, f.DurationMinutes, f.Distance, f.Notes, formatTimestamp(nowFn()))
	if err != nil {
		return 0, domain.NewStorageFailure("add-workout", err)
	}
	return res.LastInsertId()
}

// WorkoutPatch is the partial update applied by Update. A nil *T pointer
// leaves the field untouched; ClearX flags let a caller explicitly null
// out a field that was previously set, resolving the "unspecified vs.
// set-to-null" ambiguity the public API can't express with a bare
// optional (see SPEC_FULL.md §9 open question decisions).
type WorkoutPatch struct {
	NewExerciseName *string
	NewTimestamp    *time.Time
	Sets            *int
	Reps            *int
	ClearReps       bool
	Weight          *float64
	ClearWeight     bool
	Bodyweight      *float64
	ClearBodyweight bool
	DurationMinutes *float64
	ClearDuration   bool
	Distance        *float64
	ClearDistance   bool
	Notes           *string
}

// Update applies patch to the workout with the given id. Only supplied
// fields are updated; last_edited is always refreshed. Fails with
// domain.ErrWorkoutNotFound if the row is missing or already deleted.
func (s *WorkoutStore) Update(ctx context.Context, id int64, patch WorkoutPatch) (int64, error) {
	sets := []string{"last_edited = ?"}
	args := []any{formatTimestamp(nowFn())}

	if patch.NewExerciseName != nil {
		sets = append(sets, "exercise_name = ?")
		args = append(args, *patch.NewExerciseName)
	}
	if patch.NewTimestamp != nil {
		sets = append(sets, "timestamp = ?")
		args = append(args, formatTimestamp(*patch.NewTimestamp))
	}
	if patch.Sets != nil {
		sets = append(sets, "sets = ?")
		args = append(args, *patch.Sets)
	}
	applyNullable(&sets, &args, "reps", patch.Reps, patch.ClearReps)
	applyNullable(&sets, &args, "weight", patch.Weight, patch.ClearWeight)
	applyNullable(&sets, &args, "bodyweight", patch.Bodyweight, patch.ClearBodyweight)
	applyNullable(&sets, &args, "duration_minutes", patch.DurationMinutes, patch.ClearDuration)
	applyNullable(&sets, &args, "distance", patch.Distance, patch.ClearDistance)
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}

	query := fmt.Sprintf("UPDATE workouts SET %s WHERE id = ? AND deleted = 0", joinComma(sets))
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, domain.NewStorageFailure("update-workout", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageFailure("update-workout", err)
	}
	if affected == 0 {
		return 0, domain.ErrWorkoutNotFound
	}
	return affected, nil
}

// applyNullable appends a "col = ?" clause when value is non-nil, or
// "col = NULL" when clear is requested and value is nil.
func applyNullable[T any](sets *[]string, args *[]any, col string, value *T, clear bool) {
	if value != nil {
		*sets = append(*sets, col+" = ?")
		*args = append(*args, *value)
		return
	}
	if clear {
		*sets = append(*sets, col+" = NULL")
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// Delete soft-deletes the workout with the given id. Fails with
// domain.ErrWorkoutNotFound if already deleted or missing.
func (s *WorkoutStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE workouts SET deleted = 1, last_edited = ? WHERE id = ? AND deleted = 0
	`, formatTimestamp(nowFn()), id)
	if err != nil {
		return 0, domain.NewStorageFailure("delete-workout", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageFailure("delete-workout", err)
	}
	if affected == 0 {
		return 0, domain.ErrWorkoutNotFound
	}
	return affected, nil
}

func scanWorkout(rows rowScanner) (domain.Workout, error) {
	var (
		w           domain.Workout
		ts          string
		reps        sql.NullInt64
		weight      sql.NullFloat64
		bodyweight  sql.NullFloat64
		duration    sql.NullFloat64
		distance    sql.NullFloat64
		notes       sql.NullString
		deleted     bool
		lastEdited  string
		exerciseTyp sql.NullString
	)
	if err := rows.Scan(&w.ID, &ts, &w.ExerciseName, &w.Sets, &reps, &weight, &bodyweight, &duration, &distance, &notes, &deleted, &lastEdited, &exerciseTyp); err != nil {
		return w, domain.NewStorageFailure("scan-workout", err)
	}
	if parsed, err := parseTimestamp(ts); err == nil {
		w.Timestamp = parsed
	}
	if reps.Valid {
		v := int(reps.Int64)
		w.Reps = &v
	}
	if weight.Valid {
		v := weight.Float64
		w.Weight = &v
	}
	if bodyweight.Valid {
		v := bodyweight.Float64
		w.Bodyweight = &v
	}
	if duration.Valid {
		v := duration.Float64
		w.DurationMinutes = &v
	}
	if distance.Valid {
		v := distance.Float64
		w.Distance = &v
	}
	w.Notes = notes.String
	w.Deleted = deleted
	if parsed, err := parseTimestamp(lastEdited); err == nil {
		w.LastEdited = parsed
	}
	if exerciseTyp.Valid {
		if t, ok := domain.ParseExerciseType(exerciseTyp.String); ok {
			w.ExerciseType = &t
		}
	}
	return w, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// workoutSelectJoined is the SELECT list + left join onto exercises used
// by every query that needs exercise_type: deleted exercises leave it
// NULL, matching the spec's "exercise_type field is null (left join)"
// invariant for workouts whose exercise has been removed.
const workoutSelectJoined = `
	SELECT w.id, w.timestamp, w.exercise_name, w.sets, w.reps, w.weight, w.bodyweight,
	       w.duration_minutes, w.distance, w.notes, w.deleted, w.last_edited, e.type
	FROM workouts w
	LEFT JOIN exercises e ON lower(e.name) = lower(w.exercise_name) AND e.deleted = 0
`

// ListFiltered returns workouts matching filters. If Date is set,
// results are ascending by (timestamp, last_edited); otherwise
// descending, and Limit only applies in that branch.
func (s *WorkoutStore) ListFiltered(ctx context.Context, f domain.VolumeFilters) ([]domain.Workout, error) {
	query := workoutSelectJoined + " WHERE w.deleted = 0"
	var args []any

	if f.ExerciseName != nil {
		query += " AND lower(w.exercise_name) = lower(?)"
		args = append(args, *f.ExerciseName)
	}
	if f.Date != nil {
		query += " AND date(w.timestamp) = date(?)"
		args = append(args, formatTimestamp(*f.Date))
	}
	if f.ExerciseType != nil {
		query += " AND e.type = ?"
		args = append(args, string(*f.ExerciseType))
	}
	if f.Muscle != nil {
		query += " AND lower(coalesce(e.muscles, '')) LIKE '%' || lower(?) || '%'"
		args = append(args, *f.Muscle)
	}

	if f.Date != nil {
		query += " ORDER BY w.timestamp ASC, w.last_edited ASC"
	} else {
		query += " ORDER BY w.timestamp DESC, w.last_edited DESC"
		if f.Limit != nil {
			query += " LIMIT ?"
			args = append(args, *f.Limit)
		}
	}

	return s.queryWorkouts(ctx, query, args...)
}

func (s *WorkoutStore) queryWorkouts(ctx context.Context, query string, args ...any) ([]domain.Workout, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageFailure("list-workouts", err)
	}
	defer rows.Close()

	var out []domain.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListForExerciseOnNthLastDay returns workouts for name on the n-th most
// recent distinct date that exercise was logged, ascending within the
// day. n < 1 is rejected with an invalid-input error; an n beyond the
// number of distinct dates returns no rows.
func (s *WorkoutStore) ListForExerciseOnNthLastDay(ctx context.Context, name string, n int) ([]domain.Workout, error) {
	if n <= 0 {
		return nil, domain.NewInvalidInput("n must be >= 1")
	}

	var dateStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT date(timestamp) FROM workouts
		WHERE deleted = 0 AND lower(exercise_name) = lower(?)
		GROUP BY date(timestamp)
		ORDER BY date(timestamp) DESC
		LIMIT 1 OFFSET ?
	`, name, n-1).Scan(&dateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageFailure("nth-last-day", err)
	}

	query := workoutSelectJoined + " WHERE w.deleted = 0 AND lower(w.exercise_name) = lower(?) AND date(w.timestamp) = date(?) ORDER BY w.timestamp ASC"
	return s.queryWorkouts(ctx, query, name, dateStr)
}

// GetMaxWeightForExercise returns the max effective weight logged for
// name, or nil if none.
func (s *WorkoutStore) GetMaxWeightForExercise(ctx context.Context, name string) (*float64, error) {
	return s.maxFloat(ctx, "weight", name)
}

// GetMaxDurationForExercise returns the max duration logged for name, or
// nil if none.
func (s *WorkoutStore) GetMaxDurationForExercise(ctx context.Context, name string) (*float64, error) {
	return s.maxFloat(ctx, "duration_minutes", name)
}

// GetMaxDistanceForExercise returns the max distance (km) logged for
// name, or nil if none.
func (s *WorkoutStore) GetMaxDistanceForExercise(ctx context.Context, name string) (*float64, error) {
	return s.maxFloat(ctx, "distance", name)
}

func (s *WorkoutStore) maxFloat(ctx context.Context, col, name string) (*float64, error) {
	var v sql.NullFloat64
	query := fmt.Sprintf(`
		SELECT MAX(%s) FROM workouts
		WHERE deleted = 0 AND lower(exercise_name) = lower(?) AND %s IS NOT NULL
	`, col, col)
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&v); err != nil {
		return nil, domain.NewStorageFailure("max-"+col, err)
	}
	if !v.Valid {
		return nil, nil
	}
	out := v.Float64
	return &out, nil
}

// GetMaxRepsForExercise returns the max reps logged in a single set for
// name, or nil if none.
func (s *WorkoutStore) GetMaxRepsForExercise(ctx context.Context, name string) (*int, error) {
	var v sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(reps) FROM workouts
		WHERE deleted = 0 AND lower(exercise_name) = lower(?) AND reps IS NOT NULL
	`, name).Scan(&v)
	if err != nil {
		return nil, domain.NewStorageFailure("max-reps", err)
	}
	if !v.Valid {
		return nil, nil
	}
	out := int(v.Int64)
	return &out, nil
}

// GetWorkoutTimestampsForExercise returns every non-deleted workout
// timestamp for name, ascending.
func (s *WorkoutStore) GetWorkoutTimestampsForExercise(ctx context.Context, name string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp FROM workouts WHERE deleted = 0 AND lower(exercise_name) = lower(?) ORDER BY timestamp ASC
	`, name)
	if err != nil {
		return nil, domain.NewStorageFailure("workout-timestamps", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ts string
		if err := rows.Scan(&ts); err != nil {
			return nil, domain.NewStorageFailure("workout-timestamps", err)
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, domain.NewStorageFailure("workout-timestamps", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CalculateDailyVolumeFiltered computes per-(date, exercise) volume:
// sets*reps*weight for Resistance, sets*reps*(weight+bodyweight) for
// BodyWeight, 0 otherwise. Limit only applies when neither start nor end
// date is supplied.
func (s *WorkoutStore) CalculateDailyVolumeFiltered(ctx context.Context, f domain.VolumeFilters) ([]domain.DailyVolumeRow, error) {
	query := `
		SELECT
			date(w.timestamp) AS workout_date,
			w.exercise_name,
			SUM(CASE e.type
				WHEN 'resistance' THEN w.sets * coalesce(w.reps, 0) * coalesce(w.weight, 0)
				WHEN 'body-weight' THEN w.sets * coalesce(w.reps, 0) * (coalesce(w.weight, 0) + coalesce(w.bodyweight, 0))
				ELSE 0
			END) AS volume
		FROM workouts w
		LEFT JOIN exercises e ON lower(e.name) = lower(w.exercise_name) AND e.deleted = 0
		WHERE w.deleted = 0
	`
	var args []any
	if f.ExerciseName != nil {
		query += " AND lower(w.exercise_name) = lower(?)"
		args = append(args, *f.ExerciseName)
	}
	if f.StartDate != nil {
		query += " AND date(w.timestamp) >= date(?)"
		args = append(args, formatTimestamp(*f.StartDate))
	}
	if f.EndDate != nil {
		query += " AND date(w.timestamp) <= date(?)"
		args = append(args, formatTimestamp(*f.EndDate))
	}
	if f.ExerciseType != nil {
		query += " AND e.type = ?"
		args = append(args, string(*f.ExerciseType))
	}
	if f.Muscle != nil {
		query += " AND lower(coalesce(e.muscles, '')) LIKE '%' || lower(?) || '%'"
		args = append(args, *f.Muscle)
	}

	query += " GROUP BY date(w.timestamp), w.exercise_name ORDER BY workout_date DESC, w.exercise_name ASC"

	if f.StartDate == nil && f.EndDate == nil && f.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageFailure("daily-volume", err)
	}
	defer rows.Close()

	var out []domain.DailyVolumeRow
	for rows.Next() {
		var dateStr, exerciseName string
		var volume float64
		if err := rows.Scan(&dateStr, &exerciseName, &volume); err != nil {
			return nil, domain.NewStorageFailure("daily-volume", err)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, domain.NewStorageFailure("daily-volume", err)
		}
		out = append(out, domain.DailyVolumeRow{Date: date, ExerciseName: exerciseName, Volume: volume})
	}
	return out, rows.Err()
}

// GetWorkoutDatesForMonth returns the sorted, distinct dates any
// non-deleted workout was logged on within the given year/month.
func (s *WorkoutStore) GetWorkoutDatesForMonth(ctx context.Context, year int, month int) ([]time.Time, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT date(timestamp) FROM workouts
		WHERE deleted = 0 AND strftime('%Y-%m', timestamp) = ?
		ORDER BY date(timestamp) ASC
	`, prefix)
	if err != nil {
		return nil, domain.NewStorageFailure("workout-dates-for-month", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, domain.NewStorageFailure("workout-dates-for-month", err)
		}
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, domain.NewStorageFailure("workout-dates-for-month", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
