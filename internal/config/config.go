// Package config loads and validates fairsched instance files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/fairsched/pkg/core/fairness"
)

// RoundDates maps round indices onto calendar dates through a recurrence
// rule, for reporting only; the core never sees dates.
type RoundDates struct {
	RRule string `yaml:"rrule" validate:"required"`
}

// Config describes one tournament instance.
type Config struct {
	// Teams is the number of teams (even).
	Teams int `yaml:"teams" validate:"required,min=2"`

	// BreakGaps is the optional break-gap sequence; nil leaves every
	// round open as a break candidate. Length and sum are validated by
	// the schedule domain, not here.
	BreakGaps []int `yaml:"breakGaps,omitempty" validate:"omitempty,dive,min=1"`

	// Mode is the optimization objective: total (default) or bandwidth.
	Mode string `yaml:"mode,omitempty" validate:"omitempty,oneof=total bandwidth"`

	// RankingHaps optionally forces a full home/away catalog.
	RankingHaps []string `yaml:"rankingHaps,omitempty"`

	// TargetF, TargetCount and Tolerance configure the hap-search
	// cardinality pin.
	TargetF     float64 `yaml:"targetF,omitempty"`
	TargetCount int     `yaml:"targetCount,omitempty" validate:"omitempty,min=1"`
	Tolerance   float64 `yaml:"tolerance,omitempty" validate:"omitempty,gt=0"`

	// TimeLimit is a duration string handed through to the solver layer.
	TimeLimit string `yaml:"timeLimit,omitempty"`

	// RoundDates optionally schedules rounds on calendar dates.
	RoundDates *RoundDates `yaml:"roundDates,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load looks for fairsched.yaml in the current directory, then in the
// user's home directory.
func Load() (*Config, error) {
	path, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration at a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct validation plus the checks tags cannot express:
// home/away letters, the time-limit duration, and rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, hap := range cfg.RankingHaps {
		if _, err := fairness.Parse(hap); err != nil {
			return fmt.Errorf("invalid rankingHaps[%d]: %w", i, err)
		}
	}

	if cfg.TimeLimit != "" {
		if _, err := time.ParseDuration(cfg.TimeLimit); err != nil {
			return fmt.Errorf("invalid timeLimit: %w", err)
		}
	}

	if cfg.RoundDates != nil {
		if _, err := rrule.StrToRRule(cfg.RoundDates.RRule); err != nil {
			return fmt.Errorf("invalid rrule in roundDates: %w", err)
		}
	}

	return nil
}

// TimeLimitDuration returns the parsed time limit, zero when unset. Only
// meaningful after Validate.
func (c *Config) TimeLimitDuration() time.Duration {
	if c.TimeLimit == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.TimeLimit)
	return d
}

// ExpandRoundDates returns the first count occurrences of the round-date
// recurrence, or nil when none is configured.
func (c *Config) ExpandRoundDates(count int) ([]time.Time, error) {
	if c.RoundDates == nil {
		return nil, nil
	}

	r, err := rrule.StrToRRule(c.RoundDates.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule in roundDates: %w", err)
	}

	dates := make([]time.Time, 0, count)
	next := r.Iterator()
	for len(dates) < count {
		d, ok := next()
		if !ok {
			return nil, fmt.Errorf("roundDates rrule yields only %d of %d rounds", len(dates), count)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// findConfigFile searches for fairsched.yaml in the current directory and
// the home directory.
func findConfigFile() (string, error) {
	const configFileName = "fairsched.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
