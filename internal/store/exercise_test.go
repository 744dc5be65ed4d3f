package store

import (
	"context"
	"database/sql"
	"testing"

	"taskathlete/internal/db"
	"taskathlete/internal/domain"

	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"
)

type ExerciseStoreSuite struct {
	suite.Suite
	db    *sql.DB
	store *ExerciseStore
	ctx   context.Context
}

func TestExerciseStoreSuite(t *testing.T) {
	suite.Run(t, new(ExerciseStoreSuite))
}

func (s *ExerciseStoreSuite) SetupTest() {
	var err error
	s.db, err = sql.Open("sqlite", ":memory:")
	s.Require().NoError(err)

	err = db.Init(s.db)
	s.Require().NoError(err)

	s.store = NewExerciseStore(s.db)
	s.ctx = context.Background()
}

func (s *ExerciseStoreSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *ExerciseStoreSuite) TestCreateAndGetByName() {
	flags := domain.LogFlags{Weight: true, Reps: true}
	id, err := s.store.Create(s.ctx, "Bench Press", domain.ExerciseTypeResistance, "chest,triceps", flags)
	s.Require().NoError(err)
	s.Require().Positive(id)

	got, err := s.store.GetByName(s.ctx, "bench press")
	s.Require().NoError(err)
	s.Equal("Bench Press", got.Name)
	s.Equal(domain.ExerciseTypeResistance, got.Type)
	s.Equal(flags, got.LogFlags)
	s.Equal([]string{"chest", "triceps"}, got.MuscleList())
}

func (s *ExerciseStoreSuite) TestCreateDuplicateNameCaseInsensitive() {
	_, err := s.store.Create(s.ctx, "Squat", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	_, err = s.store.Create(s.ctx, "squat", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().ErrorIs(err, domain.ErrExerciseNameNotUnique)
}

func (s *ExerciseStoreSuite) TestGetByNameNotFound() {
	_, err := s.store.GetByName(s.ctx, "nonexistent")
	s.Require().ErrorIs(err, domain.ErrExerciseNotFound)
}

func (s *ExerciseStoreSuite) TestUpdateRenameCascades() {
	id, err := s.store.Create(s.ctx, "Deadlift", domain.ExerciseTypeResistance, "back", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	aliasStore := NewAliasStore(s.db)
	s.Require().NoError(aliasStore.Create(s.ctx, "DL", "Deadlift"))

	workoutStore := NewWorkoutStore(s.db)
	reps := 5
	weight := 100.0
	_, err = workoutStore.Add(s.ctx, WorkoutFields{
		Timestamp: nowFn(), ExerciseName: "Deadlift", Reps: &reps, Weight: &weight,
	})
	s.Require().NoError(err)

	newName := "Conventional Deadlift"
	_, err = s.store.Update(s.ctx, "Deadlift", ExerciseUpdate{NewName: &newName})
	s.Require().NoError(err)

	renamed, err := s.store.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(newName, renamed.Name)

	canonical, ok, err := aliasStore.GetCanonicalFor(s.ctx, "DL")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(newName, canonical)

	workouts, err := workoutStore.ListFiltered(s.ctx, domain.VolumeFilters{ExerciseName: &newName})
	s.Require().NoError(err)
	s.Require().Len(workouts, 1)
	s.Equal(newName, workouts[0].ExerciseName)
}

func (s *ExerciseStoreSuite) TestUpdateRenameCollision() {
	_, err := s.store.Create(s.ctx, "Row", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, "Pull Up", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	newName := "row"
	_, err = s.store.Update(s.ctx, "Pull Up", ExerciseUpdate{NewName: &newName})
	s.Require().ErrorIs(err, domain.ErrExerciseNameNotUnique)
}

func (s *ExerciseStoreSuite) TestDeleteCascadesAliasesAndKeepsWorkouts() {
	_, err := s.store.Create(s.ctx, "Curl", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	aliasStore := NewAliasStore(s.db)
	s.Require().NoError(aliasStore.Create(s.ctx, "Bicep Curl", "Curl"))

	workoutStore := NewWorkoutStore(s.db)
	_, err = workoutStore.Add(s.ctx, WorkoutFields{Timestamp: nowFn(), ExerciseName: "Curl"})
	s.Require().NoError(err)

	_, err = s.store.Delete(s.ctx, "Curl")
	s.Require().NoError(err)

	_, err = s.store.GetByName(s.ctx, "Curl")
	s.Require().ErrorIs(err, domain.ErrExerciseNotFound)

	_, ok, err := aliasStore.GetCanonicalFor(s.ctx, "Bicep Curl")
	s.Require().NoError(err)
	s.False(ok)

	workouts, err := workoutStore.ListFiltered(s.ctx, domain.VolumeFilters{})
	s.Require().NoError(err)
	s.Require().Len(workouts, 1)
	s.Nil(workouts[0].ExerciseType)
}

func (s *ExerciseStoreSuite) TestListFiltersByTypeAndMuscle() {
	_, err := s.store.Create(s.ctx, "Bench", domain.ExerciseTypeResistance, "chest", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, "Run", domain.ExerciseTypeCardio, "legs", domain.DefaultLogFlags(domain.ExerciseTypeCardio))
	s.Require().NoError(err)

	resistance := domain.ExerciseTypeResistance
	got, err := s.store.List(s.ctx, &resistance, nil)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Bench", got[0].Name)

	legs := "legs"
	got, err = s.store.List(s.ctx, nil, &legs)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Run", got[0].Name)
}

func (s *ExerciseStoreSuite) TestListAllMuscles() {
	_, err := s.store.Create(s.ctx, "Bench", domain.ExerciseTypeResistance, "chest,triceps", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, "Row", domain.ExerciseTypeResistance, "back,biceps", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	muscles, err := s.store.ListAllMuscles(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"back", "biceps", "chest", "triceps"}, muscles)
}
