// Package stats computes derived per-exercise analytics: workout
// frequency, gap and streak tracking, and personal bests.
package stats

import (
	"context"
	"time"

	"taskathlete/internal/domain"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"
)

// Stats computes ExerciseStats reports from a resolver and workout
// history.
type Stats struct {
	resolver *resolver.Resolver
	workouts *store.WorkoutStore
}

// New creates a Stats calculator.
func New(r *resolver.Resolver, workouts *store.WorkoutStore) *Stats {
	return &Stats{resolver: r, workouts: workouts}
}

// now is overridable in tests so streak "is it still active" checks are
// deterministic.
var now = func() time.Time { return time.Now().UTC() }

// GetExerciseStats resolves identifier and computes its full analytics
// report. Fails with domain.ErrNoWorkoutDataFound if the exercise has no
// logged workouts.
func (s *Stats) GetExerciseStats(ctx context.Context, identifier string, streakIntervalDays uint32) (*domain.ExerciseStats, error) {
	canonical, err := s.resolver.ResolveToCanonicalName(ctx, identifier)
	if err != nil {
		return nil, err
	}

	timestamps, err := s.workouts.GetWorkoutTimestampsForExercise(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if len(timestamps) == 0 {
		return nil, domain.ErrNoWorkoutDataFound
	}

	report := &domain.ExerciseStats{
		CanonicalName:      canonical,
		TotalWorkouts:      len(timestamps),
		FirstWorkoutDate:   timestamps[0],
		LastWorkoutDate:    timestamps[len(timestamps)-1],
		StreakIntervalDays: streakIntervalDays,
	}

	report.AvgWorkoutsPerWeek = avgWorkoutsPerWeek(timestamps)
	report.LongestGapDays = longestGapDays(timestamps)
	report.CurrentStreak, report.LongestStreak = computeStreaks(timestamps, streakIntervalDays, now())

	pbWeight, err := s.workouts.GetMaxWeightForExercise(ctx, canonical)
	if err != nil {
		return nil, err
	}
	report.PBWeight = pbWeight

	pbReps, err := s.workouts.GetMaxRepsForExercise(ctx, canonical)
	if err != nil {
		return nil, err
	}
	report.PBReps = pbReps

	pbDuration, err := s.workouts.GetMaxDurationForExercise(ctx, canonical)
	if err != nil {
		return nil, err
	}
	report.PBDurationMinutes = pbDuration

	pbDistance, err := s.workouts.GetMaxDistanceForExercise(ctx, canonical)
	if err != nil {
		return nil, err
	}
	report.PBDistanceKm = pbDistance

	return report, nil
}

// avgWorkoutsPerWeek returns nil when there's only one workout, or when
// every workout falls on the same calendar day (a zero span can't be
// divided into weeks).
func avgWorkoutsPerWeek(timestamps []time.Time) *float64 {
	if len(timestamps) <= 1 {
		return nil
	}
	spanDays := dayDiff(timestamps[0], timestamps[len(timestamps)-1])
	if spanDays == 0 {
		return nil
	}
	weeks := float64(spanDays) / 7.0
	if weeks < 1.0/7.0 {
		weeks = 1.0 / 7.0
	}
	avg := float64(len(timestamps)) / weeks
	return &avg
}

// longestGapDays finds the widest chronological gap between consecutive
// workout dates, counting the fully-idle days between them.
func longestGapDays(timestamps []time.Time) *int {
	if len(timestamps) <= 1 {
		return nil
	}
	max := 0
	for i := 1; i < len(timestamps); i++ {
		gap := dayDiff(timestamps[i-1], timestamps[i]) - 1
		if gap > max {
			max = gap
		}
	}
	return &max
}

// computeStreaks walks the chronological timestamps, counting a
// consecutive-day run as continuing so long as the gap to the next
// distinct workout date is within intervalDays. asOf determines whether
// the run still counts as active.
func computeStreaks(timestamps []time.Time, intervalDays uint32, asOf time.Time) (current, longest int) {
	if len(timestamps) == 0 {
		return 0, 0
	}

	current = 1
	longest = 1
	lastDate := dateOnly(timestamps[0])

	for _, ts := range timestamps[1:] {
		d := dateOnly(ts)
		if d.Equal(lastDate) {
			continue
		}
		gap := dayDiff(lastDate, d)
		if gap <= int(intervalDays) {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
		lastDate = d
	}

	if dayDiff(lastDate, dateOnly(asOf)) > int(intervalDays) {
		current = 0
	}

	return current, longest
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayDiff(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}
