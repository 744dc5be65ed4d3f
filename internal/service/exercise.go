package service

import (
	"context"

	"taskathlete/internal/domain"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"
)

// ExerciseService manages the exercise catalog: creation, identifier
// resolution, editing, deletion, and filtered listing.
type ExerciseService struct {
	store    *store.ExerciseStore
	resolver *resolver.Resolver
}

// NewExerciseService creates an ExerciseService.
func NewExerciseService(s *store.ExerciseStore, r *resolver.Resolver) *ExerciseService {
	return &ExerciseService{store: s, resolver: r}
}

// CreateExercise inserts a new exercise definition.
func (s *ExerciseService) CreateExercise(ctx context.Context, name string, typ domain.ExerciseType, muscles string, flags domain.LogFlags) (int64, error) {
	return s.store.Create(ctx, name, typ, muscles, flags)
}

// GetExerciseByIdentifier resolves identifier (id, alias, or name) to its
// exercise definition.
func (s *ExerciseService) GetExerciseByIdentifier(ctx context.Context, identifier string) (*domain.ExerciseDefinition, error) {
	def, _, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrExerciseNotFound
	}
	return def, nil
}

// EditExercise resolves identifier to its canonical name and applies
// patch, cascading a rename into every workout and alias that references
// the exercise.
func (s *ExerciseService) EditExercise(ctx context.Context, identifier string, patch store.ExerciseUpdate) (int64, error) {
	canonical, err := s.resolver.ResolveToCanonicalName(ctx, identifier)
	if err != nil {
		return 0, err
	}
	return s.store.Update(ctx, canonical, patch)
}

// DeleteExercises resolves each identifier to its canonical name and
// soft-deletes it, cascading into its aliases. Returns the total number
// of exercise rows affected; stops at the first identifier that fails to
// resolve or delete.
func (s *ExerciseService) DeleteExercises(ctx context.Context, identifiers []string) (int64, error) {
	var total int64
	for _, identifier := range identifiers {
		canonical, err := s.resolver.ResolveToCanonicalName(ctx, identifier)
		if err != nil {
			return total, err
		}
		affected, err := s.store.Delete(ctx, canonical)
		if err != nil {
			return total, err
		}
		total += affected
	}
	return total, nil
}

// ListExercises returns non-deleted exercise definitions, optionally
// filtered by type and/or a muscle substring.
func (s *ExerciseService) ListExercises(ctx context.Context, typeFilter *domain.ExerciseType, muscleFilter *string) ([]domain.ExerciseDefinition, error) {
	return s.store.List(ctx, typeFilter, muscleFilter)
}
