// Package service is the programmatic façade over task-athlete's domain
// core: one per-domain service per entity group (exercises, aliases,
// workouts, bodyweight, config, analytics), composed behind a single
// Service struct that owns the database connection and wires every
// store/resolver/pipeline/stats/aggregate dependency by hand. This
// mirrors the teacher's own internal/service package split (one file per
// domain concern) composed by internal/api.Server's constructor.
package service

import (
	"log/slog"

	"taskathlete/internal/aggregate"
	"taskathlete/internal/config"
	"taskathlete/internal/db"
	"taskathlete/internal/paths"
	"taskathlete/internal/pipeline"
	"taskathlete/internal/resolver"
	"taskathlete/internal/stats"
	"taskathlete/internal/store"
)

// Service composes every domain service behind one value a front-end can
// hold onto.
type Service struct {
	DB *db.DB

	Exercises  *ExerciseService
	Aliases    *AliasService
	Workouts   *WorkoutService
	Bodyweight *BodyweightService
	Config     *ConfigService
	Analytics  *AnalyticsService
}

// Options configures New.
type Options struct {
	// DBPath is the SQLite file path; empty selects the OS-conventional
	// per-user data directory.
	DBPath string
	// ConfigPath is the TOML config file path; empty selects the
	// OS-conventional per-user config directory.
	ConfigPath string
	// Logger receives connection retries and resolver diagnostics.
	// Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// New opens the database, runs migrations, loads the config, and wires
// every store, resolver, pipeline, stats and aggregate dependency into
// their owning service.
func New(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := db.Connect(db.Config{Path: opts.DBPath, Logger: logger})
	if err != nil {
		return nil, err
	}
	if err := db.Init(conn.DB); err != nil {
		conn.Close()
		return nil, err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			conn.Close()
			return nil, err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		conn.Close()
		return nil, err
	}

	exerciseStore := store.NewExerciseStore(conn.DB)
	aliasStore := store.NewAliasStore(conn.DB)
	workoutStore := store.NewWorkoutStore(conn.DB)
	bodyweightStore := store.NewBodyweightStore(conn.DB)

	res := resolver.New(exerciseStore, aliasStore, logger)
	wp := pipeline.New(res, exerciseStore, workoutStore)
	st := stats.New(res, workoutStore)
	ag := aggregate.New(res, exerciseStore, workoutStore)

	return &Service{
		DB:         conn,
		Exercises:  NewExerciseService(exerciseStore, res),
		Aliases:    NewAliasService(conn.DB, aliasStore, res),
		Workouts:   NewWorkoutService(wp, workoutStore, res),
		Bodyweight: NewBodyweightService(bodyweightStore),
		Config:     NewConfigService(configPath, cfg),
		Analytics:  NewAnalyticsService(st, ag),
	}, nil
}

// Close releases the underlying database connection.
func (s *Service) Close() error {
	return s.DB.Close()
}
