// Package pipeline implements the workout insert and edit paths: the
// subsystem that combines identifier resolution, implicit exercise
// creation, unit conversion, bodyweight augmentation, and personal-best
// detection into one operation.
package pipeline

import (
	"context"
	"time"

	"taskathlete/internal/config"
	"taskathlete/internal/domain"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"
	"taskathlete/internal/units"
)

// WorkoutPipeline orchestrates the add/edit workout operations.
type WorkoutPipeline struct {
	resolver  *resolver.Resolver
	exercises *store.ExerciseStore
	workouts  *store.WorkoutStore
}

// New creates a WorkoutPipeline.
func New(r *resolver.Resolver, exercises *store.ExerciseStore, workouts *store.WorkoutStore) *WorkoutPipeline {
	return &WorkoutPipeline{resolver: r, exercises: exercises, workouts: workouts}
}

// ImplicitDefinition supplies the (type, muscles) pair used to create an
// exercise on the fly when AddWorkout's identifier doesn't resolve.
type ImplicitDefinition struct {
	Type    domain.ExerciseType
	Muscles string
}

// AddWorkoutInput is the insert-path request.
type AddWorkoutInput struct {
	Identifier         string
	Date               time.Time // local calendar date; only Y/M/D are used
	Sets               *int
	Reps               *int
	WeightArg          *float64
	DurationMinutes    *float64
	DistanceArg        *float64
	Notes              string
	Implicit           *ImplicitDefinition
	BodyweightOverride *float64
}

// noonUTC converts a calendar date to a UTC instant at 12:00:00, encoding
// the day without claiming a time-of-day.
func noonUTC(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// AddWorkout resolves input.Identifier (implicitly creating the exercise
// when Implicit is supplied and resolution fails), computes the
// effective weight and normalized distance, inserts the workout, and
// returns a PB report when cfg's notification flags are enabled and any
// metric improved on its prior best.
func (p *WorkoutPipeline) AddWorkout(ctx context.Context, cfg *config.Config, input AddWorkoutInput) (*domain.Workout, *domain.PBReport, error) {
	def, _, err := p.resolver.Resolve(ctx, input.Identifier)
	if err != nil {
		return nil, nil, err
	}
	if def == nil {
		if input.Implicit == nil {
			return nil, nil, domain.ErrExerciseNotFound
		}
		flags := domain.DefaultLogFlags(input.Implicit.Type)
		if _, err := p.exercises.Create(ctx, input.Identifier, input.Implicit.Type, input.Implicit.Muscles, flags); err != nil {
			return nil, nil, err
		}
		def, _, err = p.resolver.Resolve(ctx, input.Identifier)
		if err != nil {
			return nil, nil, err
		}
		if def == nil {
			return nil, nil, domain.ErrExerciseNotFound
		}
	}

	var effectiveWeight *float64
	var bodyweightComponent *float64
	if def.Type == domain.ExerciseTypeBodyWeight {
		bw := input.BodyweightOverride
		if bw == nil {
			bw = cfg.Bodyweight
		}
		if bw == nil {
			return nil, nil, domain.ErrBodyweightRequired
		}
		extra := 0.0
		if input.WeightArg != nil {
			extra = *input.WeightArg
		}
		total := *bw + extra
		effectiveWeight = &total
		bodyweightComponent = bw
	} else {
		effectiveWeight = input.WeightArg
	}

	distance := input.DistanceArg
	if distance != nil && cfg.Units == domain.UnitsImperial {
		converted := units.MilesToKm(*distance)
		distance = &converted
	}

	timestamp := noonUTC(input.Date)

	prevWeight, err := p.workouts.GetMaxWeightForExercise(ctx, def.Name)
	if err != nil {
		return nil, nil, err
	}
	prevReps, err := p.workouts.GetMaxRepsForExercise(ctx, def.Name)
	if err != nil {
		return nil, nil, err
	}
	prevDuration, err := p.workouts.GetMaxDurationForExercise(ctx, def.Name)
	if err != nil {
		return nil, nil, err
	}
	prevDistance, err := p.workouts.GetMaxDistanceForExercise(ctx, def.Name)
	if err != nil {
		return nil, nil, err
	}

	id, err := p.workouts.Add(ctx, store.WorkoutFields{
		Timestamp:       timestamp,
		ExerciseName:    def.Name,
		Sets:            input.Sets,
		Reps:            input.Reps,
		Weight:          effectiveWeight,
		Bodyweight:      bodyweightComponent,
		DurationMinutes: input.DurationMinutes,
		Distance:        distance,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, nil, err
	}

	workout := &domain.Workout{
		ID:              id,
		Timestamp:       timestamp,
		ExerciseName:    def.Name,
		ExerciseType:    &def.Type,
		Sets:            1,
		Reps:            input.Reps,
		Weight:          effectiveWeight,
		Bodyweight:      bodyweightComponent,
		DurationMinutes: input.DurationMinutes,
		Distance:        distance,
		Notes:           input.Notes,
	}
	if input.Sets != nil {
		workout.Sets = *input.Sets
	}

	report := buildPBReport(cfg, prevWeight, effectiveWeight, prevReps, input.Reps, prevDuration, input.DurationMinutes, prevDistance, distance)
	return workout, report, nil
}

// buildPBReport compares newly-logged values against prior bests,
// treating a missing prior as 0. Returns nil unless at least one enabled
// metric strictly improved.
func buildPBReport(cfg *config.Config, prevWeight, newWeight *float64, prevReps, newReps *int, prevDuration, newDuration *float64, prevDistance, newDistance *float64) *domain.PBReport {
	report := &domain.PBReport{
		PreviousWeight: prevWeight, NewWeight: newWeight,
		PreviousReps: prevReps, NewReps: newReps,
		PreviousDuration: prevDuration, NewDuration: newDuration,
		PreviousDistance: prevDistance, NewDistance: newDistance,
	}

	notifyEnabled := cfg.NotifyPBEnabled == nil || *cfg.NotifyPBEnabled

	if notifyEnabled && cfg.NotifyPBWeight && newWeight != nil {
		prior := 0.0
		if prevWeight != nil {
			prior = *prevWeight
		}
		if *newWeight > prior {
			report.WeightAchieved = true
		}
	}
	if notifyEnabled && cfg.NotifyPBReps && newReps != nil {
		prior := 0
		if prevReps != nil {
			prior = *prevReps
		}
		if *newReps > prior {
			report.RepsAchieved = true
		}
	}
	if notifyEnabled && cfg.NotifyPBDuration && newDuration != nil {
		prior := 0.0
		if prevDuration != nil {
			prior = *prevDuration
		}
		if *newDuration > prior {
			report.DurationAchieved = true
		}
	}
	if notifyEnabled && cfg.NotifyPBDistance && newDistance != nil {
		prior := 0.0
		if prevDistance != nil {
			prior = *prevDistance
		}
		if *newDistance > prior {
			report.DistanceAchieved = true
		}
	}

	if !report.AnyAchieved() {
		return nil
	}
	return report
}

// EditWorkoutInput is the update-path request. Nil fields leave the
// existing value untouched; ClearX flags explicitly null a field.
// Bodyweight logic is never re-applied on edit: a supplied Weight is
// stored literally.
type EditWorkoutInput struct {
	ID              int64
	NewIdentifier   *string
	NewDate         *time.Time
	Sets            *int
	Reps            *int
	ClearReps       bool
	Weight          *float64
	ClearWeight     bool
	DurationMinutes *float64
	ClearDuration   bool
	DistanceArg     *float64
	ClearDistance   bool
	Notes           *string
}

// EditWorkout applies input to an existing workout, re-resolving a new
// identifier to its canonical name and re-converting a new date/distance,
// but never re-deriving a bodyweight component.
func (p *WorkoutPipeline) EditWorkout(ctx context.Context, cfg *config.Config, input EditWorkoutInput) (int64, error) {
	patch := store.WorkoutPatch{
		Sets:          input.Sets,
		Reps:          input.Reps,
		ClearReps:     input.ClearReps,
		Weight:        input.Weight,
		ClearWeight:   input.ClearWeight,
		ClearDuration: input.ClearDuration,
		ClearDistance: input.ClearDistance,
		Notes:         input.Notes,
	}

	if input.NewIdentifier != nil {
		canonical, err := p.resolver.ResolveToCanonicalName(ctx, *input.NewIdentifier)
		if err != nil {
			return 0, err
		}
		patch.NewExerciseName = &canonical
	}

	if input.NewDate != nil {
		ts := noonUTC(*input.NewDate)
		patch.NewTimestamp = &ts
	}

	if input.DurationMinutes != nil {
		patch.DurationMinutes = input.DurationMinutes
	}

	if input.DistanceArg != nil {
		d := *input.DistanceArg
		if cfg.Units == domain.UnitsImperial {
			d = units.MilesToKm(d)
		}
		patch.Distance = &d
	}

	return p.workouts.Update(ctx, input.ID, patch)
}
