package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"taskathlete/internal/config"
	"taskathlete/internal/db"
	"taskathlete/internal/domain"
	"taskathlete/internal/pipeline"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"

	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"
)

type WorkoutServiceSuite struct {
	suite.Suite
	sqlDB     *sql.DB
	exercises *store.ExerciseStore
	service   *WorkoutService
	cfg       *config.Config
	ctx       context.Context
}

func TestWorkoutServiceSuite(t *testing.T) {
	suite.Run(t, new(WorkoutServiceSuite))
}

func (s *WorkoutServiceSuite) SetupTest() {
	var err error
	s.sqlDB, err = sql.Open("sqlite", ":memory:")
	s.Require().NoError(err)
	s.Require().NoError(db.Init(s.sqlDB))

	s.exercises = store.NewExerciseStore(s.sqlDB)
	aliases := store.NewAliasStore(s.sqlDB)
	workouts := store.NewWorkoutStore(s.sqlDB)
	r := resolver.New(s.exercises, aliases, nil)
	wp := pipeline.New(r, s.exercises, workouts)
	s.service = NewWorkoutService(wp, workouts, r)
	s.cfg = config.Default()
	s.ctx = context.Background()
}

func (s *WorkoutServiceSuite) TearDownTest() {
	if s.sqlDB != nil {
		s.sqlDB.Close()
	}
}

func (s *WorkoutServiceSuite) TestAddEditDeleteWorkout() {
	_, err := s.exercises.Create(s.ctx, "Squat", domain.ExerciseTypeResistance, "legs", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	reps, weight := 5, 100.0
	workout, pb, err := s.service.AddWorkout(s.ctx, s.cfg, pipeline.AddWorkoutInput{
		Identifier: "Squat",
		Date:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Reps:       &reps,
		WeightArg:  &weight,
	})
	s.Require().NoError(err)
	s.Require().NotNil(pb)
	s.True(pb.WeightAchieved)
	s.Equal(100.0, *workout.Weight)

	newWeight := 110.0
	affected, err := s.service.EditWorkout(s.ctx, s.cfg, pipeline.EditWorkoutInput{ID: workout.ID, Weight: &newWeight})
	s.Require().NoError(err)
	s.Equal(int64(1), affected)

	rows, err := s.service.ListWorkouts(s.ctx, domain.VolumeFilters{ExerciseName: strPtr("Squat")})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(110.0, *rows[0].Weight)

	deleted, err := s.service.DeleteWorkouts(s.ctx, []int64{workout.ID})
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	rows, err = s.service.ListWorkouts(s.ctx, domain.VolumeFilters{ExerciseName: strPtr("Squat")})
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *WorkoutServiceSuite) TestListWorkoutsForExerciseOnNthLastDay() {
	_, err := s.exercises.Create(s.ctx, "Run", domain.ExerciseTypeCardio, "", domain.DefaultLogFlags(domain.ExerciseTypeCardio))
	s.Require().NoError(err)

	for _, day := range []int{1, 2} {
		_, _, err := s.service.AddWorkout(s.ctx, s.cfg, pipeline.AddWorkoutInput{
			Identifier: "Run",
			Date:       time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		})
		s.Require().NoError(err)
	}

	rows, err := s.service.ListWorkoutsForExerciseOnNthLastDay(s.ctx, "Run", 1)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(2, rows[0].Timestamp.Day())
}

func strPtr(s string) *string { return &s }
