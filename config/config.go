// Package config loads the startup defaults for the form: durations, the
// initial alarm sound and the UI language. Nothing is ever written back.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "studybreak"

// Spinner bounds and steps, in minutes.
const (
	MinStudyMinutes = 1
	MaxStudyMinutes = 120
	MinBreakMinutes = 1
	MaxBreakMinutes = 60
	MinutesStep     = 5
)

type Config struct {
	StudyMinutes  int    `koanf:"study_minutes"`
	BreakMinutes  int    `koanf:"break_minutes"`
	AlarmPath     string `koanf:"alarm_path"` // empty means the bundled sound
	Language      string `koanf:"language"`   // "en", "pt", "es", "ru"; empty means detect
	Notifications bool   `koanf:"notifications"`
}

// Default returns the values used when no file or flag overrides them.
func Default() *Config {
	return &Config{
		StudyMinutes:  1,
		BreakMinutes:  1,
		Notifications: true,
	}
}

// Load reads the config files in priority order (last wins), then applies
// command-line flags from args. A help request returns flag.ErrHelp after the
// usage has been printed.
func Load(args []string) (*Config, error) {
	cfg, err := LoadFiles(Paths())
	if err != nil {
		return nil, err
	}
	if err := cfg.applyFlags(args); err != nil {
		return nil, err
	}
	cfg.clamp()
	return cfg, nil
}

// LoadFiles merges the TOML files that exist among paths over the defaults.
func LoadFiles(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.AlarmPath = expandPath(cfg.AlarmPath)
	cfg.clamp()
	return cfg, nil
}

// Paths returns the config file locations, lowest priority first.
func Paths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		"config.toml",
	}
}

func (c *Config) applyFlags(args []string) error {
	flags := flag.NewFlagSet(appName, flag.ContinueOnError)
	flags.IntVar(&c.StudyMinutes, "study", c.StudyMinutes, "study phase length in minutes")
	flags.IntVar(&c.BreakMinutes, "break", c.BreakMinutes, "break phase length in minutes")
	flags.StringVar(&c.AlarmPath, "alarm", c.AlarmPath, "alarm sound file (.mp3, .wav or .ogg)")
	flags.StringVar(&c.Language, "lang", c.Language, "UI language (en, pt, es, ru)")
	flags.BoolVar(&c.Notifications, "notify", c.Notifications, "send a desktop notification at each phase boundary")

	if err := flags.Parse(args); err != nil {
		return err
	}
	c.AlarmPath = expandPath(c.AlarmPath)
	return nil
}

func (c *Config) clamp() {
	c.StudyMinutes = clampInt(c.StudyMinutes, MinStudyMinutes, MaxStudyMinutes)
	c.BreakMinutes = clampInt(c.BreakMinutes, MinBreakMinutes, MaxBreakMinutes)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
