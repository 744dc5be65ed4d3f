package service

import (
	"context"

	"taskathlete/internal/config"
	"taskathlete/internal/domain"
	"taskathlete/internal/pipeline"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"
)

// WorkoutService logs, edits, deletes, and lists workout entries.
type WorkoutService struct {
	pipeline *pipeline.WorkoutPipeline
	workouts *store.WorkoutStore
	resolver *resolver.Resolver
}

// NewWorkoutService creates a WorkoutService.
func NewWorkoutService(p *pipeline.WorkoutPipeline, workouts *store.WorkoutStore, r *resolver.Resolver) *WorkoutService {
	return &WorkoutService{pipeline: p, workouts: workouts, resolver: r}
}

// AddWorkout resolves input.Identifier, implicitly creating the exercise
// when requested, applies bodyweight/unit conversion, and returns the
// inserted workout plus a PB report (nil if nothing improved or PB
// notifications are disabled).
func (s *WorkoutService) AddWorkout(ctx context.Context, cfg *config.Config, input pipeline.AddWorkoutInput) (*domain.Workout, *domain.PBReport, error) {
	return s.pipeline.AddWorkout(ctx, cfg, input)
}

// EditWorkout applies input to an existing workout.
func (s *WorkoutService) EditWorkout(ctx context.Context, cfg *config.Config, input pipeline.EditWorkoutInput) (int64, error) {
	return s.pipeline.EditWorkout(ctx, cfg, input)
}

// DeleteWorkouts soft-deletes each id in turn, returning the total number
// of rows affected. It stops at the first id that fails to delete.
func (s *WorkoutService) DeleteWorkouts(ctx context.Context, ids []int64) (int64, error) {
	var total int64
	for _, id := range ids {
		affected, err := s.workouts.Delete(ctx, id)
		if err != nil {
			return total, err
		}
		total += affected
	}
	return total, nil
}

// ListWorkouts returns non-deleted workouts matching f, resolving
// f.ExerciseName (if set) to its canonical form so callers can filter by
// alias.
func (s *WorkoutService) ListWorkouts(ctx context.Context, f domain.VolumeFilters) ([]domain.Workout, error) {
	if f.ExerciseName != nil {
		canonical, err := s.resolver.ResolveToCanonicalName(ctx, *f.ExerciseName)
		if err != nil {
			return nil, err
		}
		f.ExerciseName = &canonical
	}
	return s.workouts.ListFiltered(ctx, f)
}

// ListWorkoutsForExerciseOnNthLastDay resolves identifier and returns
// every workout logged on its n-th most recent distinct calendar date
// (n=1 is the most recent day it was performed).
func (s *WorkoutService) ListWorkoutsForExerciseOnNthLastDay(ctx context.Context, identifier string, n int) ([]domain.Workout, error) {
	canonical, err := s.resolver.ResolveToCanonicalName(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return s.workouts.ListForExerciseOnNthLastDay(ctx, canonical, n)
}
