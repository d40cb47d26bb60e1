// Package config loads server settings from defaults, a .env file, the
// environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting of the server.
type Config struct {
	Port  string
	Debug bool

	BoardSize int
	// InitialTime is the clock of each color; zero means untimed.
	InitialTime time.Duration
	BlueName    string
	RedName     string

	// APIKeys are "KEY:name" pairs binding a key to a player name.
	APIKeys []string

	QueueCapacity int
	ClockInterval time.Duration
	AllowedOrigin string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:          "8080",
		BoardSize:     11,
		BlueName:      "Blue Player",
		RedName:       "Red Player",
		QueueCapacity: 64,
		ClockInterval: time.Second,
	}
}

// Load builds a Config from the given .env files (".env" when none are
// named), the process environment and args. Missing .env files are not an
// error.
func Load(args []string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides c with the variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("BLUE_PLAYER", &c.BlueName)
	str("RED_PLAYER", &c.RedName)
	str("FRONTEND_PATH", &c.AllowedOrigin)

	if v, ok := lookup("DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: DEBUG: %w", ErrInvalidConfig, err)
		}
		c.Debug = b
	}
	if v, ok := lookup("BOARD_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: BOARD_SIZE: %w", ErrInvalidConfig, err)
		}
		c.BoardSize = n
	}
	if v, ok := lookup("QUEUE_CAPACITY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: QUEUE_CAPACITY: %w", ErrInvalidConfig, err)
		}
		c.QueueCapacity = n
	}
	if v, ok := lookup("INITIAL_TIME"); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: INITIAL_TIME: %w", ErrInvalidConfig, err)
		}
		c.InitialTime = d
	}
	if v, ok := lookup("CLOCK_INTERVAL"); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: CLOCK_INTERVAL: %w", ErrInvalidConfig, err)
		}
		c.ClockInterval = d
	}
	if v, ok := lookup("API_KEYS"); ok && v != "" {
		c.APIKeys = splitList(v)
	}
	return nil
}

// ApplyFlags overrides c with command-line flags.
func (c *Config) ApplyFlags(args []string) error {
	flags := flag.NewFlagSet("hex-server", flag.ContinueOnError)

	flags.StringVar(&c.Port, "port", c.Port, "server port")
	flags.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	flags.IntVar(&c.BoardSize, "board-size", c.BoardSize, "board edge length (3-255)")
	flags.DurationVar(&c.InitialTime, "time", c.InitialTime, "clock per player, 0 for untimed")
	flags.StringVar(&c.BlueName, "blue", c.BlueName, "blue player name")
	flags.StringVar(&c.RedName, "red", c.RedName, "red player name")
	flags.IntVar(&c.QueueCapacity, "queue", c.QueueCapacity, "command queue capacity")
	flags.DurationVar(&c.ClockInterval, "clock-interval", c.ClockInterval, "clock broadcast interval")
	flags.StringVar(&c.AllowedOrigin, "origin", c.AllowedOrigin, "allowed websocket origin, empty allows any")
	keys := flags.String("api-keys", strings.Join(c.APIKeys, ","), "comma-separated KEY:name pairs")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.APIKeys = splitList(*keys)
	return nil
}

// Validate checks the ranges of every setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is empty"))
	}
	if c.BoardSize < 3 || c.BoardSize > 255 {
		errs = append(errs, fmt.Errorf("board size %d outside [3, 255]", c.BoardSize))
	}
	if c.InitialTime < 0 {
		errs = append(errs, fmt.Errorf("initial time %s is negative", c.InitialTime))
	}
	if c.BlueName == "" || c.RedName == "" {
		errs = append(errs, errors.New("player names must not be empty"))
	} else if c.BlueName == c.RedName {
		errs = append(errs, fmt.Errorf("player names must differ, both are %q", c.BlueName))
	}
	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("queue capacity %d must be positive", c.QueueCapacity))
	}
	if c.ClockInterval <= 0 {
		errs = append(errs, fmt.Errorf("clock interval %s must be positive", c.ClockInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// parseDuration accepts Go durations ("90s", "5m") and plain seconds.
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
