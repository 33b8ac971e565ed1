// Package config loads match settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tennisx/internal/random"
)

// Dispatch modes.
const (
	DispatchAsync  = "async"
	DispatchTicked = "ticked"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the settings of one match.
type Config struct {
	SetsToWin int           `yaml:"sets_to_win"`
	Seed      uint64        `yaml:"seed"` // 0 picks a random seed
	Dispatch  string        `yaml:"dispatch"`
	TickRate  time.Duration `yaml:"tick_rate"`
	LogLevel  string        `yaml:"log_level"`
	Players   []Player      `yaml:"players"`
}

// Player configures one participant. An empty name is generated.
type Player struct {
	Name    string `yaml:"name"`
	HitRate int    `yaml:"hit_rate"`
}

// Default returns a best-of-three match between two unnamed players.
func Default() *Config {
	return &Config{
		SetsToWin: 2,
		Dispatch:  DispatchAsync,
		TickRate:  time.Millisecond,
		LogLevel:  "info",
		Players:   []Player{{HitRate: 70}, {HitRate: 70}},
	}
}

// Load reads path over the defaults, then applies TENNIS_* environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("TENNIS_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TENNIS_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := getenv("TENNIS_SETS_TO_WIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TENNIS_SETS_TO_WIN: %w", err)
		}
		c.SetsToWin = n
	}
	if v := getenv("TENNIS_DISPATCH"); v != "" {
		c.Dispatch = v
	}
	if v := getenv("TENNIS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.SetsToWin < 1 {
		errs = append(errs, fmt.Errorf("sets_to_win %d must be at least 1", c.SetsToWin))
	}
	switch c.Dispatch {
	case DispatchAsync:
	case DispatchTicked:
		if c.TickRate <= 0 {
			errs = append(errs, fmt.Errorf("tick_rate %v must be positive", c.TickRate))
		}
	default:
		errs = append(errs, fmt.Errorf("dispatch %q is not %q or %q", c.Dispatch, DispatchAsync, DispatchTicked))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Players) != 2 {
		errs = append(errs, fmt.Errorf("need 2 players, got %d", len(c.Players)))
	}
	seen := make(map[string]bool)
	for i, p := range c.Players {
		if p.HitRate < 0 || p.HitRate > 100 {
			errs = append(errs, fmt.Errorf("players[%d]: hit_rate %d outside [0,100]", i, p.HitRate))
		}
		if p.Name == "" {
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("players[%d]: duplicate name %q", i, p.Name))
		}
		seen[p.Name] = true
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// FillNames gives every unnamed player a generated name distinct from the
// others. Names depend only on the seed.
func (c *Config) FillNames() {
	taken := make(map[string]bool)
	missing := 0
	for _, p := range c.Players {
		if p.Name == "" {
			missing++
		}
		taken[p.Name] = true
	}
	if missing == 0 {
		return
	}
	src := random.New(c.Seed)
	for i := range c.Players {
		if c.Players[i].Name != "" {
			continue
		}
		name := src.Name()
		for taken[name] {
			name = src.Name()
		}
		taken[name] = true
		c.Players[i].Name = name
	}
}
