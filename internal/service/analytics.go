package service

import (
	"context"
	"time"

	"taskathlete/internal/aggregate"
	"taskathlete/internal/config"
	"taskathlete/internal/domain"
	"taskathlete/internal/stats"
)

// AnalyticsService exposes the derived, read-only views built on top of
// the workout log: per-exercise statistics, daily volume, graph series,
// and the muscle/date vocabularies.
type AnalyticsService struct {
	stats     *stats.Stats
	aggregate *aggregate.Aggregate
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(st *stats.Stats, ag *aggregate.Aggregate) *AnalyticsService {
	return &AnalyticsService{stats: st, aggregate: ag}
}

// GetExerciseStats resolves identifier and returns its streak, gap,
// average, and personal-best report. Fails with
// domain.ErrNoWorkoutDataFound if the exercise has never been logged.
func (s *AnalyticsService) GetExerciseStats(ctx context.Context, identifier string, streakIntervalDays uint32) (*domain.ExerciseStats, error) {
	return s.stats.GetExerciseStats(ctx, identifier, streakIntervalDays)
}

// CalculateDailyVolume returns per-(date, exercise) volume rows matching
// f, resolving f.ExerciseName (if set) to its canonical form.
func (s *AnalyticsService) CalculateDailyVolume(ctx context.Context, f domain.VolumeFilters) ([]domain.DailyVolumeRow, error) {
	return s.aggregate.CalculateDailyVolumeFiltered(ctx, f)
}

// GetDataForGraph resolves identifier and returns its graphable series
// for kind, converted for display per cfg.Units.
func (s *AnalyticsService) GetDataForGraph(ctx context.Context, cfg *config.Config, identifier string, kind domain.GraphSeriesKind) ([]domain.GraphPoint, error) {
	return s.aggregate.GetDataForGraph(ctx, cfg, identifier, kind)
}

// ListAllMuscles returns the sorted, unique muscle-tag vocabulary across
// the exercise catalog.
func (s *AnalyticsService) ListAllMuscles(ctx context.Context) ([]string, error) {
	return s.aggregate.ListAllMuscles(ctx)
}

// GetAllDatesWithExercise resolves identifier and returns every distinct
// calendar date it was logged on, ascending.
func (s *AnalyticsService) GetAllDatesWithExercise(ctx context.Context, identifier string) ([]time.Time, error) {
	return s.aggregate.GetAllDatesWithExercise(ctx, identifier)
}
