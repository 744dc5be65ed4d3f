// Package domain holds the core entities of the workout tracker: the
// exercise catalog, logged workouts, aliases and bodyweight samples, plus
// the small value types shared by the store, pipeline, stats and
// aggregate packages.
package domain

import "time"

// ExerciseType classifies how an exercise is logged.
type ExerciseType string

const (
	ExerciseTypeResistance ExerciseType = "resistance"
	ExerciseTypeCardio     ExerciseType = "cardio"
	ExerciseTypeBodyWeight ExerciseType = "body-weight"
)

// ParseExerciseType accepts the canonical encoding plus the tolerant
// aliases "bodyweight" and "bw" for ExerciseTypeBodyWeight, matching the
// read-side tolerance required by the storage format.
func ParseExerciseType(s string) (ExerciseType, bool) {
	switch lower(s) {
	case "resistance":
		return ExerciseTypeResistance, true
	case "cardio":
		return ExerciseTypeCardio, true
	case "body-weight", "bodyweight", "bw":
		return ExerciseTypeBodyWeight, true
	default:
		return "", false
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// LogFlags controls which metrics an exercise type expects to be logged.
type LogFlags struct {
	Weight   bool
	Reps     bool
	Duration bool
	Distance bool
}

// DefaultLogFlags returns the conventional flags for an exercise type:
// Resistance and BodyWeight track weight+reps, Cardio tracks
// duration+distance.
func DefaultLogFlags(t ExerciseType) LogFlags {
	switch t {
	case ExerciseTypeCardio:
		return LogFlags{Duration: true, Distance: true}
	default:
		return LogFlags{Weight: true, Reps: true}
	}
}

// Units selects how weight and distance inputs/outputs are interpreted.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ExerciseDefinition is a catalog entry for a kind of exercise.
type ExerciseDefinition struct {
	ID         int64
	Name       string
	Type       ExerciseType
	Muscles    string // free text, comma-separated tags
	LogFlags   LogFlags
	Deleted    bool
	LastEdited time.Time
}

// MuscleList splits the Muscles free-text field into its comma-separated
// tags, trimmed and lower-cased, dropping empty entries.
func (e ExerciseDefinition) MuscleList() []string {
	return splitMuscles(e.Muscles)
}

func splitMuscles(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			tag := trimLower(raw[start:i])
			if tag != "" {
				out = append(out, tag)
			}
			start = i + 1
		}
	}
	return out
}

func trimLower(s string) string {
	i, j := 0, len(s)
	for i < j && isSpace(s[i]) {
		i++
	}
	for j > i && isSpace(s[j-1]) {
		j--
	}
	return lower(s[i:j])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Workout is a single logged entry: one set or one cardio bout.
type Workout struct {
	ID              int64
	Timestamp       time.Time // UTC
	ExerciseName    string    // canonical, denormalized at insert time
	ExerciseType    *ExerciseType
	Sets            int
	Reps            *int
	Weight          *float64 // effective weight: bw+added for BodyWeight, literal otherwise
	Bodyweight      *float64 // bw component at entry time, BodyWeight exercises only
	DurationMinutes *float64
	Distance        *float64 // always stored in km
	Notes           string
	Deleted         bool
	LastEdited      time.Time
}

// Alias is an alternative label resolving to a canonical exercise name.
type Alias struct {
	AliasName    string
	ExerciseName string
	Deleted      bool
	LastEdited   time.Time
}

// BodyweightEntry is a single bodyweight sample.
type BodyweightEntry struct {
	ID         int64
	Timestamp  time.Time // UTC, unique among non-deleted entries
	Weight     float64   // in whatever units Config specifies at entry time
	Deleted    bool
	LastEdited time.Time
}

// ResolutionMethod records how an identifier was resolved, for callers
// that want to distinguish an ID lookup from a name/alias lookup.
type ResolutionMethod int

const (
	ResolvedByID ResolutionMethod = iota
	ResolvedByAlias
	ResolvedByName
)

// GraphSeriesKind selects the aggregate computed per day by
// GetDataForGraph.
type GraphSeriesKind int

const (
	GraphEstimated1RM GraphSeriesKind = iota
	GraphMaxWeight
	GraphMaxReps
	GraphWorkoutVolume
	GraphWorkoutReps
	GraphWorkoutDuration
	GraphWorkoutDistance
)

// GraphPoint is one sample in a graph series: days since the first
// positive-value day, and the aggregate value for that day.
type GraphPoint struct {
	DaysSinceStart int
	Value          float64
}

// PBReport describes which metrics reached a new personal best on a
// single workout insertion, alongside the prior and new values for all
// four tracked metrics.
type PBReport struct {
	PreviousWeight   *float64
	NewWeight        *float64
	WeightAchieved   bool
	PreviousReps     *int
	NewReps          *int
	RepsAchieved     bool
	PreviousDuration *float64
	NewDuration      *float64
	DurationAchieved bool
	PreviousDistance *float64
	NewDistance      *float64
	DistanceAchieved bool
}

// AnyAchieved reports whether at least one metric reached a new best.
func (r *PBReport) AnyAchieved() bool {
	if r == nil {
		return false
	}
	return r.WeightAchieved || r.RepsAchieved || r.DurationAchieved || r.DistanceAchieved
}

// ExerciseStats is the derived analytics report for a single exercise.
type ExerciseStats struct {
	CanonicalName        string
	TotalWorkouts        int
	FirstWorkoutDate     time.Time
	LastWorkoutDate      time.Time
	AvgWorkoutsPerWeek   *float64
	LongestGapDays       *int
	CurrentStreak        int
	LongestStreak        int
	StreakIntervalDays   uint32
	PBWeight             *float64
	PBReps               *int
	PBDurationMinutes    *float64
	PBDistanceKm         *float64
}

// VolumeFilters constrains calculate_daily_volume_filtered / list_workouts_filtered.
type VolumeFilters struct {
	ExerciseName *string
	StartDate    *time.Time
	EndDate      *time.Time
	Date         *time.Time
	ExerciseType *ExerciseType
	Muscle       *string
	Limit        *int
}

// DailyVolumeRow is a single (date, exercise, volume) aggregation result.
type DailyVolumeRow struct {
	Date         time.Time
	ExerciseName string
	Volume       float64
}
