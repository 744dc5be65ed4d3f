package pipeline

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

func setupPipeline(t *testing.T) (*WorkoutPipeline, *store.ExerciseStore, *store.WorkoutStore) {
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

func trueVal() *bool { v := true; return &v }

func TestAddWorkoutImplicitCreation(t *testing.T) {
	p, exercises, _ := setupPipeline(t)
	ctx := context.Background()
	cfg := config.Default()

	reps := 10
	weight := 60.0
	workout, _, err := p.AddWorkout(ctx, cfg, AddWorkoutInput{
		Identifier: "Bench Press",
		Date:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Reps:       &reps,
		WeightArg:  &weight,
		Implicit:   &ImplicitDefinition{Type: domain.ExerciseTypeResistance, Muscles: "chest"},
	})
	require.NoError(t, err)
	require.Equal(t, "Bench Press", workout.ExerciseName)
	require.Equal(t, 12, workout.Timestamp.Hour())

	def, err := exercises.GetByName(ctx, "Bench Press")
	require.NoError(t, err)
	require.Equal(t, domain.ExerciseTypeResistance, def.Type)
}

func TestAddWorkoutMissingExerciseNoImplicitFails(t *testing.T) {
	p, _, _ := setupPipeline(t)
	ctx := context.Background()
	cfg := config.Default()

	_, _, err := p.AddWorkout(ctx, cfg, AddWorkoutInput{
		Identifier: "Nonexistent",
		Date:       time.Now(),
	})
	require.ErrorIs(t, err, domain.ErrExerciseNotFound)
}

func TestAddWorkoutBodyweightUsesConfigFallback(t *testing.T) {
	p, exercises, _ := setupPipeline(t)
	ctx := context.Background()
	cfg := config.Default()
	bw := 80.0
	cfg.Bodyweight = &bw

	_, err := exercises.Create(ctx, "Pull Up", domain.ExerciseTypeBodyWeight, "back", domain.DefaultLogFlags(domain.ExerciseTypeBodyWeight))
	require.NoError(t, err)

	extra := 5.0
	workout, _, err := p.AddWorkout(ctx, cfg, AddWorkoutInput{
		Identifier: "Pull Up",
		Date:       time.Now(),
		WeightArg:  &extra,
	})
	require.NoError(t, err)
	require.NotNil(t, workout.Weight)
	require.InDelta(t, 85.0, *workout.Weight, 0.0001)
	require.NotNil(t, workout.Bodyweight)
	require.InDelta(t, 80.0, *workout.Bodyweight, 0.0001)
}

func TestAddWorkoutBodyweightRequiredFailsWithoutAnySource(t *testing.T) {
	p, exercises, _ := setupPipeline(t)
	ctx := context.Background()
	cfg := config.Default()

	_, err := exercises.Create(ctx, "Dip", domain.ExerciseTypeBodyWeight, "", domain.DefaultLogFlags(domain.ExerciseTypeBodyWeight))
	require.NoError(t, err)

	_, _, err = p.AddWorkout(ctx, cfg, AddWorkoutInput{Identifier: "Dip", Date: time.Now()})
	require.ErrorIs(t, err, domain.ErrBodyweightRequired)
}

func TestAddWorkoutDistanceConvertedFromImperial(t *testing.T) {
	p, exercises, _ := setupPipeline(t)
	ctx := context.Background()
	cfg := config.Default()
	cfg.Units = domain.UnitsImperial

	_, err := exercises.Create(ctx, "Run", domain.ExerciseTypeCardio, "legs", domain.DefaultLogFlags(domain.ExerciseTypeCardio))
	require.NoError(t, err)

	miles := 3.0
	workout, _, err := p.AddWorkout(ctx, cfg, AddWorkoutInput{
		Identifier:  "Run",
		Date:        time.Now(),
		DistanceArg: &miles,
	})
	require.NoError(t, err)
	require.NotNil(t, workout.Distance)
	require.InDelta(t, 4.82802, *workout.Distance, 0.001)
}

func TestAddWorkoutPBDetection(t *testing.T) {
	p, exercises, _ := setupPipeline(t)
	ctx := context.Background()
	cfg := config.Default()
	cfg.NotifyPBEnabled = trueVal()

	_, err := exercises.Create(ctx, "Squat", domain.ExerciseTypeResistance, "legs", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	require.NoError(t, err)

	w1 := 100.0
	_, report, err := p.AddWorkout(ctx, cfg, AddWorkoutInput{Identifier: "Squat", Date: time.Now(), WeightArg: &w1})
	require.NoError(t, err)
	require.NotNil(t, report)
	require.True(t, report.WeightAchieved)
	require.Nil(t, report.PreviousWeight)

	w2 := 90.0
	_, report, err = p.AddWorkout(ctx, cfg, AddWorkoutInput{Identifier: "Squat", Date: time.Now(), WeightArg: &w2})
	require.NoError(t, err)
	require.Nil(t, report)

	w3 := 110.0
	_, report, err = p.AddWorkout(ctx, cfg, AddWorkoutInput{Identifier: "Squat", Date: time.Now(), WeightArg: &w3})
	require.NoError(t, err)
	require.NotNil(t, report)
	require.True(t, report.WeightAchieved)
	require.NotNil(t, report.PreviousWeight)
	require.InDelta(t, 100.0, *report.PreviousWeight, 0.0001)
}

func TestEditWorkoutRenameAndClearWeight(t *testing.T) {
	p, exercises, workouts := setupPipeline(t)
	ctx := context.Background()
	cfg := config.Default()

	_, err := exercises.Create(ctx, "Bench", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	require.NoError(t, err)
	_, err = exercises.Create(ctx, "Incline Bench", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	require.NoError(t, err)

	weight := 80.0
	workout, _, err := p.AddWorkout(ctx, cfg, AddWorkoutInput{Identifier: "Bench", Date: time.Now(), WeightArg: &weight})
	require.NoError(t, err)

	newIdentifier := "Incline Bench"
	_, err = p.EditWorkout(ctx, cfg, EditWorkoutInput{ID: workout.ID, NewIdentifier: &newIdentifier, ClearWeight: true})
	require.NoError(t, err)

	name := "Incline Bench"
	rows, err := workouts.ListFiltered(ctx, domain.VolumeFilters{ExerciseName: &name})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].Weight)
}
