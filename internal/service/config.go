package service

import (
	"taskathlete/internal/config"
	"taskathlete/internal/domain"
)

// ConfigService reads and mutates the persisted application configuration.
// Every setter saves immediately, matching the one-config-file-per-user
// model: there is no separate "commit" step.
type ConfigService struct {
	path string
	cfg  *config.Config
}

// NewConfigService wraps an already-loaded config and the path it was
// loaded from, so subsequent mutations can be persisted back to it.
func NewConfigService(path string, cfg *config.Config) *ConfigService {
	return &ConfigService{path: path, cfg: cfg}
}

// Current returns the live config. Callers must not mutate fields
// directly; go through the setters below so every change is persisted.
func (s *ConfigService) Current() *config.Config {
	return s.cfg
}

func (s *ConfigService) save() error {
	return config.Save(s.path, s.cfg)
}

// SetBodyweight stores a new default bodyweight. weight must be positive.
func (s *ConfigService) SetBodyweight(weight float64) error {
	if weight <= 0 {
		return domain.NewInvalidInput("bodyweight must be a positive number")
	}
	s.cfg.Bodyweight = &weight
	return s.save()
}

// GetBodyweight returns the configured bodyweight and whether it has
// been set. Distinguishing "unset" from "zero" lets a caller decide
// whether to prompt rather than silently treating 0 as a real value.
func (s *ConfigService) GetBodyweight() (weight float64, isSet bool) {
	if s.cfg.Bodyweight == nil {
		return 0, false
	}
	return *s.cfg.Bodyweight, true
}

// DisableBodyweightPrompt turns off the "ask for bodyweight" prompt.
func (s *ConfigService) DisableBodyweightPrompt() error {
	s.cfg.PromptForBodyweight = false
	return s.save()
}

// SetStreakIntervalDays sets the gap, in days, still counted as
// continuing a streak. Must be at least 1.
func (s *ConfigService) SetStreakIntervalDays(days uint32) error {
	if days == 0 {
		return domain.NewInvalidInput("streak interval must be at least 1 day")
	}
	s.cfg.StreakIntervalDays = days
	return s.save()
}

// SetPBNotificationEnabled records the user's explicit choice on whether
// PB notifications fire at all, resolving the ConfigNotSet "prompt once"
// state.
func (s *ConfigService) SetPBNotificationEnabled(enabled bool) error {
	s.cfg.NotifyPBEnabled = &enabled
	return s.save()
}

// CheckPBNotificationConfig reports the current PB-notification
// preference and whether the user has ever set it. isSet=false signals
// the caller should prompt rather than assume a default.
func (s *ConfigService) CheckPBNotificationConfig() (enabled bool, isSet bool) {
	if s.cfg.NotifyPBEnabled == nil {
		return false, false
	}
	return *s.cfg.NotifyPBEnabled, true
}

// SetPBNotifyWeight toggles weight PB notifications.
func (s *ConfigService) SetPBNotifyWeight(enabled bool) error {
	s.cfg.NotifyPBWeight = enabled
	return s.save()
}

// SetPBNotifyReps toggles reps PB notifications.
func (s *ConfigService) SetPBNotifyReps(enabled bool) error {
	s.cfg.NotifyPBReps = enabled
	return s.save()
}

// SetPBNotifyDuration toggles duration PB notifications.
func (s *ConfigService) SetPBNotifyDuration(enabled bool) error {
	s.cfg.NotifyPBDuration = enabled
	return s.save()
}

// SetPBNotifyDistance toggles distance PB notifications.
func (s *ConfigService) SetPBNotifyDistance(enabled bool) error {
	s.cfg.NotifyPBDistance = enabled
	return s.save()
}

// SetTargetBodyweight stores the user's bodyweight goal. weight must be
// positive.
func (s *ConfigService) SetTargetBodyweight(weight float64) error {
	if weight <= 0 {
		return domain.NewInvalidInput("target bodyweight must be a positive number")
	}
	s.cfg.TargetBodyweight = &weight
	return s.save()
}

// GetTargetBodyweight returns the configured target bodyweight, or nil
// if none has been set.
func (s *ConfigService) GetTargetBodyweight() *float64 {
	return s.cfg.TargetBodyweight
}

// SetUnits changes how weight and distance inputs/outputs are
// interpreted. Existing stored values are never rewritten: this only
// changes the display/input convention going forward.
func (s *ConfigService) SetUnits(u domain.Units) error {
	s.cfg.Units = u
	return s.save()
}

// SetThemeHeaderColor validates and stores the header color used by a
// terminal front-end.
func (s *ConfigService) SetThemeHeaderColor(name string) error {
	if err := config.ValidateThemeColor(name); err != nil {
		return domain.NewInvalidInput(err.Error())
	}
	s.cfg.Theme.HeaderColor = name
	return s.save()
}
