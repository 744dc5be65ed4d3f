// Package aggregate computes cross-workout views: daily volume,
// graphable per-day series, the muscle tag vocabulary, and the calendar
// dates an exercise was logged on.
package aggregate

import (
	"context"
	"sort"
	"time"

	"taskathlete/internal/config"
	"taskathlete/internal/domain"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"
	"taskathlete/internal/units"
)

// Aggregate computes the derived views built on top of workout history.
type Aggregate struct {
	resolver  *resolver.Resolver
	exercises *store.ExerciseStore
	workouts  *store.WorkoutStore
}

// New creates an Aggregate.
func New(r *resolver.Resolver, exercises *store.ExerciseStore, workouts *store.WorkoutStore) *Aggregate {
	return &Aggregate{resolver: r, exercises: exercises, workouts: workouts}
}

// CalculateDailyVolumeFiltered resolves f.ExerciseName (if set) to its
// canonical form before delegating to the store, so callers can still
// pass an alias.
func (a *Aggregate) CalculateDailyVolumeFiltered(ctx context.Context, f domain.VolumeFilters) ([]domain.DailyVolumeRow, error) {
	if f.ExerciseName != nil {
		canonical, err := a.resolver.ResolveToCanonicalName(ctx, *f.ExerciseName)
		if err != nil {
			return nil, err
		}
		f.ExerciseName = &canonical
	}
	return a.workouts.CalculateDailyVolumeFiltered(ctx, f)
}

// ListAllMuscles returns the sorted, unique muscle-tag vocabulary across
// the exercise catalog.
func (a *Aggregate) ListAllMuscles(ctx context.Context) ([]string, error) {
	return a.exercises.ListAllMuscles(ctx)
}

// GetAllDatesWithExercise resolves identifier and returns every distinct
// calendar date it was logged on, ascending.
func (a *Aggregate) GetAllDatesWithExercise(ctx context.Context, identifier string) ([]time.Time, error) {
	canonical, err := a.resolver.ResolveToCanonicalName(ctx, identifier)
	if err != nil {
		return nil, err
	}
	timestamps, err := a.workouts.GetWorkoutTimestampsForExercise(ctx, canonical)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var dates []time.Time
	for _, ts := range timestamps {
		d := dateOnly(ts)
		key := d.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// GetDataForGraph resolves identifier, buckets its workout history by
// calendar date, computes kind's per-day aggregate, and returns the
// series indexed by days since the first day with a positive value.
// Days whose final aggregate is 0 are dropped.
func (a *Aggregate) GetDataForGraph(ctx context.Context, cfg *config.Config, identifier string, kind domain.GraphSeriesKind) ([]domain.GraphPoint, error) {
	canonical, err := a.resolver.ResolveToCanonicalName(ctx, identifier)
	if err != nil {
		return nil, err
	}

	rows, err := a.workouts.ListFiltered(ctx, domain.VolumeFilters{ExerciseName: &canonical})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp.Before(rows[j].Timestamp) })

	byDate := make(map[string][]domain.Workout)
	var order []string
	for _, w := range rows {
		key := dateOnly(w.Timestamp).Format("2006-01-02")
		if _, ok := byDate[key]; !ok {
			order = append(order, key)
		}
		byDate[key] = append(byDate[key], w)
	}

	type dayValue struct {
		date  time.Time
		value float64
	}
	var values []dayValue
	for _, key := range order {
		day, _ := time.ParseInLocation("2006-01-02", key, time.UTC)
		v := aggregateDay(byDate[key], kind)
		if kind == domain.GraphWorkoutDistance && cfg.Units == domain.UnitsImperial {
			v = units.KmToMiles(v)
		}
		values = append(values, dayValue{date: day, value: v})
	}

	var firstPositive time.Time
	found := false
	for _, dv := range values {
		if dv.value > 0 {
			firstPositive = dv.date
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	var points []domain.GraphPoint
	for _, dv := range values {
		if dv.value == 0 {
			continue
		}
		points = append(points, domain.GraphPoint{
			DaysSinceStart: dayDiff(firstPositive, dv.date),
			Value:          dv.value,
		})
	}
	return points, nil
}

func aggregateDay(workouts []domain.Workout, kind domain.GraphSeriesKind) float64 {
	switch kind {
	case domain.GraphEstimated1RM:
		max := 0.0
		for _, w := range workouts {
			if w.Weight == nil || w.Reps == nil || *w.Weight <= 0 || *w.Reps <= 0 {
				continue
			}
			estimate := *w.Weight * (1 + float64(*w.Reps)/30.0)
			if estimate > max {
				max = estimate
			}
		}
		return max
	case domain.GraphMaxWeight:
		max := 0.0
		for _, w := range workouts {
			if w.Weight != nil && *w.Weight > max {
				max = *w.Weight
			}
		}
		return max
	case domain.GraphMaxReps:
		max := 0
		for _, w := range workouts {
			if w.Reps != nil && *w.Reps > max {
				max = *w.Reps
			}
		}
		return float64(max)
	case domain.GraphWorkoutVolume:
		sum := 0.0
		for _, w := range workouts {
			sets := 1
			if w.Sets != 0 {
				sets = w.Sets
			}
			reps := 0
			if w.Reps != nil {
				reps = *w.Reps
			}
			weight := 0.0
			if w.Weight != nil {
				weight = *w.Weight
			}
			sum += float64(sets) * float64(reps) * weight
		}
		return sum
	case domain.GraphWorkoutReps:
		sum := 0
		for _, w := range workouts {
			sets := 1
			if w.Sets != 0 {
				sets = w.Sets
			}
			reps := 0
			if w.Reps != nil {
				reps = *w.Reps
			}
			sum += sets * reps
		}
		return float64(sum)
	case domain.GraphWorkoutDuration:
		sum := 0.0
		for _, w := range workouts {
			if w.DurationMinutes != nil && *w.DurationMinutes > 0 {
				sum += *w.DurationMinutes
			}
		}
		return sum
	case domain.GraphWorkoutDistance:
		sum := 0.0
		for _, w := range workouts {
			if w.Distance != nil {
				sum += *w.Distance
			}
		}
		return sum
	default:
		return 0
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayDiff(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}
