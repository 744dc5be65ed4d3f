// Command seed populates a fresh database with four weeks of realistic
// workout history: a small exercise catalog, a training split across the
// week, a gradually-dropping bodyweight, and one alias — useful for
// exercising the CLI or UI against non-empty data without a real log.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"taskathlete/internal/domain"
	"taskathlete/internal/pipeline"
	"taskathlete/internal/service"
)

type exerciseSeed struct {
	name    string
	typ     domain.ExerciseType
	muscles string
}

var catalog = []exerciseSeed{
	{"Back Squat", domain.ExerciseTypeResistance, "quads,glutes"},
	{"Bench Press", domain.ExerciseTypeResistance, "chest,triceps"},
	{"Deadlift", domain.ExerciseTypeResistance, "back,hamstrings"},
	{"Pull-up", domain.ExerciseTypeBodyWeight, "back,biceps"},
	{"Running", domain.ExerciseTypeCardio, "legs,cardio"},
}

// weekPattern maps a day of the week (0=first day seeded) to the
// exercise performed, or "" for a rest day.
var weekPattern = []string{"Back Squat", "Running", "Bench Press", "", "Deadlift", "Pull-up", ""}

func main() {
	dbPath := filepath.Join(".", "data", "task-athlete.sqlite")
	configPath := filepath.Join(".", "data", "config.toml")

	svc, err := service.New(service.Options{
		DBPath:     dbPath,
		ConfigPath: configPath,
		Logger:     slog.Default(),
	})
	if err != nil {
		log.Fatalf("failed to open service: %v", err)
	}
	defer svc.Close()

	fmt.Println("seeding task-athlete database with 4 weeks of data")
	fmt.Printf("database: %s\n", dbPath)

	if err := seed(svc); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	fmt.Println("done")
}

func seed(svc *service.Service) error {
	ctx := context.Background()

	for _, e := range catalog {
		flags := domain.DefaultLogFlags(e.typ)
		if _, err := svc.Exercises.CreateExercise(ctx, e.name, e.typ, e.muscles, flags); err != nil {
			return fmt.Errorf("create exercise %q: %w", e.name, err)
		}
	}
	fmt.Printf("created %d exercises\n", len(catalog))

	if err := svc.Aliases.CreateAlias(ctx, "squat", "Back Squat"); err != nil {
		return fmt.Errorf("create alias: %w", err)
	}

	startWeight := 82.0
	startDate := time.Now().AddDate(0, 0, -28)
	cfg := svc.Config.Current()

	for day := 0; day < 28; day++ {
		date := startDate.AddDate(0, 0, day)

		weekProgress := float64(day) / 28.0
		weight := startWeight - weekProgress*2.5 + (rand.Float64()-0.5)*0.4
		if _, err := svc.Bodyweight.AddBodyweightEntry(ctx, domain.BodyweightEntry{
			Timestamp: noon(date),
			Weight:    weight,
		}); err != nil {
			return fmt.Errorf("log bodyweight for %s: %w", date.Format("2006-01-02"), err)
		}

		// The last day of each week is a rest day, so the progress line is
		// printed before the rest-day skip below.
		if (day+1)%7 == 0 {
			fmt.Printf("week %d complete (days 1-%d)\n", (day/7)+1, day+1)
		}

		name := weekPattern[day%7]
		if name == "" {
			continue
		}

		input := pipeline.AddWorkoutInput{Identifier: name, Date: date, Sets: intPtr(3 + rand.Intn(2))}
		switch exerciseType(name) {
		case domain.ExerciseTypeResistance:
			reps := 5 + rand.Intn(4)
			weight := 40.0 + weekProgress*15 + float64(rand.Intn(10))
			input.Reps = &reps
			input.WeightArg = &weight
		case domain.ExerciseTypeBodyWeight:
			reps := 6 + rand.Intn(6)
			input.Reps = &reps
			input.BodyweightOverride = &weight
		case domain.ExerciseTypeCardio:
			duration := 20.0 + float64(rand.Intn(20))
			distance := 3.0 + rand.Float64()*3
			input.DurationMinutes = &duration
			input.DistanceArg = &distance
		}

		if _, _, err := svc.Workouts.AddWorkout(ctx, cfg, input); err != nil {
			return fmt.Errorf("log workout %q on %s: %w", name, date.Format("2006-01-02"), err)
		}
	}

	return nil
}

func exerciseType(name string) domain.ExerciseType {
	for _, e := range catalog {
		if e.name == name {
			return e.typ
		}
	}
	return domain.ExerciseTypeResistance
}

func noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }
