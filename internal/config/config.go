// Package config loads and saves task-athlete's process-wide
// configuration: units, bodyweight defaults, PB notification policy and
// streak interval. The file is a human-editable TOML document, following
// steveyegge-beads' internal/formula/parser.go use of BurntSushi/toml,
// generalized from formula files to a single typed settings document.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"taskathlete/internal/domain"
)

// ErrInvalidColor is returned when theme.header_color is not one of the
// sixteen standard color names.
var ErrInvalidColor = errors.New("invalid theme color")

// ThemeConfig controls cosmetic settings consumed by an external renderer.
type ThemeConfig struct {
	HeaderColor string `toml:"header_color"`
}

// Config is task-athlete's persisted, typed settings document.
type Config struct {
	Bodyweight         *float64 `toml:"bodyweight"`
	TargetBodyweight   *float64 `toml:"target_bodyweight"`
	Units              domain.Units `toml:"units"`
	PromptForBodyweight bool    `toml:"prompt_for_bodyweight"`
	StreakIntervalDays  uint32  `toml:"streak_interval_days"`

	NotifyPBEnabled  *bool `toml:"notify_pb_enabled"`
	NotifyPBWeight   bool  `toml:"notify_pb_weight"`
	NotifyPBReps     bool  `toml:"notify_pb_reps"`
	NotifyPBDuration bool  `toml:"notify_pb_duration"`
	NotifyPBDistance bool  `toml:"notify_pb_distance"`

	Theme ThemeConfig `toml:"theme"`
}

// Default returns the configuration a fresh install starts with.
func Default() *Config {
	return &Config{
		Units:               domain.UnitsMetric,
		PromptForBodyweight: true,
		StreakIntervalDays:  1,
		NotifyPBEnabled:     nil,
		NotifyPBWeight:      true,
		NotifyPBReps:        true,
		NotifyPBDuration:    true,
		NotifyPBDistance:    true,
		Theme:               ThemeConfig{HeaderColor: "Green"},
	}
}

// Load reads the config file at path, writing and returning the default
// configuration if the file does not yet exist. Fields absent from the
// file fall back to Default()'s values rather than Go's zero value,
// mirroring the original source's #[serde(default)] behavior.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	} else if err != nil {
		return nil, domain.NewConfigFailure("stat", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, domain.NewConfigFailure("decode", err)
	}
	if cfg.StreakIntervalDays == 0 {
		cfg.StreakIntervalDays = 1
	}
	return cfg, nil
}

// Save atomically writes cfg to path: encode to a sibling .tmp file,
// sync it, then rename over the target. This is the same move-into-place
// idiom steveyegge-beads uses for on-disk state
// (cmd/bd/doctor/fix/fs.go's moveFile).
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return domain.NewConfigFailure("encode", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewConfigFailure("mkdir", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml.tmp")
	if err != nil {
		return domain.NewConfigFailure("create-temp", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return domain.NewConfigFailure("write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return domain.NewConfigFailure("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewConfigFailure("close", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return domain.NewConfigFailure("rename", fmt.Errorf("moving %s to %s: %w", tmpPath, path, err))
	}
	return nil
}
