package service

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	"taskathlete/internal/db"
	"taskathlete/internal/domain"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"

	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"
)

type ExerciseServiceSuite struct {
	suite.Suite
	sqlDB   *sql.DB
	service *ExerciseService
	ctx     context.Context
}

func TestExerciseServiceSuite(t *testing.T) {
	suite.Run(t, new(ExerciseServiceSuite))
}

func (s *ExerciseServiceSuite) SetupTest() {
	var err error
	s.sqlDB, err = sql.Open("sqlite", ":memory:")
	s.Require().NoError(err)
	s.Require().NoError(db.Init(s.sqlDB))

	exercises := store.NewExerciseStore(s.sqlDB)
	aliases := store.NewAliasStore(s.sqlDB)
	r := resolver.New(exercises, aliases, nil)
	s.service = NewExerciseService(exercises, r)
	s.ctx = context.Background()
}

func (s *ExerciseServiceSuite) TearDownTest() {
	if s.sqlDB != nil {
		s.sqlDB.Close()
	}
}

func (s *ExerciseServiceSuite) TestCreateAndGetByIdentifier() {
	id, err := s.service.CreateExercise(s.ctx, "Bench Press", domain.ExerciseTypeResistance, "chest", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)
	s.Require().Positive(id)

	def, err := s.service.GetExerciseByIdentifier(s.ctx, "bench press")
	s.Require().NoError(err)
	s.Equal("Bench Press", def.Name)

	defByID, err := s.service.GetExerciseByIdentifier(s.ctx, strconv.FormatInt(id, 10))
	s.Require().NoError(err)
	s.Equal(def.ID, defByID.ID)
}

func (s *ExerciseServiceSuite) TestGetExerciseByIdentifierNotFound() {
	_, err := s.service.GetExerciseByIdentifier(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrExerciseNotFound)
}

func (s *ExerciseServiceSuite) TestEditExerciseRenameCascades() {
	_, err := s.service.CreateExercise(s.ctx, "Squat", domain.ExerciseTypeResistance, "legs", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	newName := "Back Squat"
	_, err = s.service.EditExercise(s.ctx, "squat", store.ExerciseUpdate{NewName: &newName})
	s.Require().NoError(err)

	def, err := s.service.GetExerciseByIdentifier(s.ctx, "Back Squat")
	s.Require().NoError(err)
	s.Equal("Back Squat", def.Name)
}

func (s *ExerciseServiceSuite) TestDeleteExercisesBatch() {
	_, err := s.service.CreateExercise(s.ctx, "Squat", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)
	_, err = s.service.CreateExercise(s.ctx, "Bench", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	affected, err := s.service.DeleteExercises(s.ctx, []string{"Squat", "Bench"})
	s.Require().NoError(err)
	s.Equal(int64(2), affected)

	_, err = s.service.GetExerciseByIdentifier(s.ctx, "Squat")
	s.ErrorIs(err, domain.ErrExerciseNotFound)
	_, err = s.service.GetExerciseByIdentifier(s.ctx, "Bench")
	s.ErrorIs(err, domain.ErrExerciseNotFound)
}

func (s *ExerciseServiceSuite) TestDeleteExercisesStopsAtFirstFailure() {
	_, err := s.service.CreateExercise(s.ctx, "Squat", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)

	affected, err := s.service.DeleteExercises(s.ctx, []string{"Squat", "does-not-exist"})
	s.Error(err)
	s.Equal(int64(1), affected)
}

func (s *ExerciseServiceSuite) TestListExercisesFiltersByType() {
	_, err := s.service.CreateExercise(s.ctx, "Squat", domain.ExerciseTypeResistance, "", domain.DefaultLogFlags(domain.ExerciseTypeResistance))
	s.Require().NoError(err)
	_, err = s.service.CreateExercise(s.ctx, "Run", domain.ExerciseTypeCardio, "", domain.DefaultLogFlags(domain.ExerciseTypeCardio))
	s.Require().NoError(err)

	cardio := domain.ExerciseTypeCardio
	list, err := s.service.ListExercises(s.ctx, &cardio, nil)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Run", list[0].Name)
}
