package aggregate

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"taskathlete/internal/config"
	"taskathlete/internal/db"
	"taskathlete/internal/domain"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupAggregate(t *testing.T) (*Aggregate, *store.ExerciseStore, *store.WorkoutStore) {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Init(sqlDB))

	exercises := store.NewExerciseStore(sqlDB)
	aliases := store.NewAliasStore(sqlDB)
	workouts := store.NewWorkoutStore(sqlDB)
	r := resolver.New(exercises, aliases, nil)
	return New(r, exercises, workouts), exercises, workouts
}

func TestGetDataForGraphEstimated1RM(t *testing.T) {
	a, exercises, workouts := setupAggregate(t)
	ctx := context.Background()
	cfg := config.Default()

	_, err := exercises.Create(ctx, "Bench", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	require.NoError(t, err)

	reps1, weight1 := 5, 100.0
	_, err = workouts.Add(ctx, store.WorkoutFields{
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), ExerciseName: "Bench", Reps: &reps1, Weight: &weight1,
	})
	require.NoError(t, err)
	reps2, weight2 := 3, 110.0
	_, err = workouts.Add(ctx, store.WorkoutFields{
		Timestamp: time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC), ExerciseName: "Bench", Reps: &reps2, Weight: &weight2,
	})
	require.NoError(t, err)

	points, err := a.GetDataForGraph(ctx, cfg, "Bench", domain.GraphEstimated1RM)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, 0, points[0].DaysSinceStart)
	require.InDelta(t, 100*(1+5.0/30.0), points[0].Value, 0.001)
	require.Equal(t, 2, points[1].DaysSinceStart)
	require.InDelta(t, 110*(1+3.0/30.0), points[1].Value, 0.001)
}

func TestGetDataForGraphFiltersZeroDays(t *testing.T) {
	a, exercises, workouts := setupAggregate(t)
	ctx := context.Background()
	cfg := config.Default()

	_, err := exercises.Create(ctx, "Run", domain.ExerciseTypeCardio, "", domain.DefaultLogFlags(domain.ExerciseTypeCardio))
	require.NoError(t, err)

	_, err = workouts.Add(ctx, store.WorkoutFields{Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), ExerciseName: "Run"})
	require.NoError(t, err)

	points, err := a.GetDataForGraph(ctx, cfg, "Run", domain.GraphWorkoutDistance)
	require.NoError(t, err)
	require.Empty(t, points)
}

func TestGetDataForGraphDistanceConvertsToImperialDisplay(t *testing.T) {
	a, exercises, workouts := setupAggregate(t)
	ctx := context.Background()
	cfg := config.Default()
	cfg.Units = domain.UnitsImperial

	_, err := exercises.Create(ctx, "Run", domain.ExerciseTypeCardio, "", domain.DefaultLogFlags(domain.ExerciseTypeCardio))
	require.NoError(t, err)

	distanceKm := 5.0
	_, err = workouts.Add(ctx, store.WorkoutFields{
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), ExerciseName: "Run", Distance: &distanceKm,
	})
	require.NoError(t, err)

	points, err := a.GetDataForGraph(ctx, cfg, "Run", domain.GraphWorkoutDistance)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.InDelta(t, 3.106855, points[0].Value, 0.001)
}

func TestGetAllDatesWithExerciseDeduplicatesSameDay(t *testing.T) {
	a, exercises, workouts := setupAggregate(t)
	ctx := context.Background()

	_, err := exercises.Create(ctx, "Squat", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	require.NoError(t, err)

	_, err = workouts.Add(ctx, store.WorkoutFields{Timestamp: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), ExerciseName: "Squat"})
	require.NoError(t, err)
	_, err = workouts.Add(ctx, store.WorkoutFields{Timestamp: time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC), ExerciseName: "Squat"})
	require.NoError(t, err)
	_, err = workouts.Add(ctx, store.WorkoutFields{Timestamp: time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC), ExerciseName: "Squat"})
	require.NoError(t, err)

	dates, err := a.GetAllDatesWithExercise(ctx, "Squat")
	require.NoError(t, err)
	require.Len(t, dates, 2)
	require.Equal(t, 1, dates[0].Day())
	require.Equal(t, 2, dates[1].Day())
}

func TestListAllMusclesDelegatesToStore(t *testing.T) {
	a, exercises, _ := setupAggregate(t)
	ctx := context.Background()
	_, err := exercises.Create(ctx, "Bench", domain.ExerciseTypeResistance, "chest,triceps", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	require.NoError(t, err)

	muscles, err := a.ListAllMuscles(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"chest", "triceps"}, muscles)
}
