package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    Server    `yaml:"server" envPrefix:"SERVER_"`
	Redis     Redis     `yaml:"redis" envPrefix:"REDIS_"`
	Postgres  Postgres  `yaml:"postgres" envPrefix:"POSTGRES_"`
	Questions Questions `yaml:"questions" envPrefix:"QUESTIONS_"`
	Game      Game      `yaml:"game" envPrefix:"GAME_"`
	Log       Log       `yaml:"log" envPrefix:"LOG_"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	// TTL bounds how long a game checkpoint outlives its last change.
	TTL string `yaml:"ttl" env:"TTL"`
}

type Postgres struct {
	URL string `yaml:"url" env:"URL"`
}

type Questions struct {
	File string `yaml:"file" env:"FILE"`
	TTL  string `yaml:"ttl" env:"TTL"`
}

// Game holds the tunable rules and pacing. Zero values fall back to defaults.
type Game struct {
	StartingBankroll int64    `yaml:"starting_bankroll" env:"STARTING_BANKROLL"`
	BetStep          int64    `yaml:"bet_step" env:"BET_STEP"`
	Countdown        int      `yaml:"countdown" env:"COUNTDOWN"`
	RequireEmptySlot *bool    `yaml:"require_empty_slot" env:"REQUIRE_EMPTY_SLOT"`
	FullBoardDrop    *float64 `yaml:"full_board_drop" env:"FULL_BOARD_DROP"`
	ReducedBoardDrop *float64 `yaml:"reduced_board_drop" env:"REDUCED_BOARD_DROP"`
	Intro            string   `yaml:"intro" env:"INTRO"`
	Reveal           string   `yaml:"reveal" env:"REVEAL"`
	Settle           string   `yaml:"settle" env:"SETTLE"`
	Warning          string   `yaml:"warning" env:"WARNING"`
}

type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// Load reads YAML config from path, then applies MONEYDROP_* environment overrides.
// A missing file is not an error; the environment alone can configure the service.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MONEYDROP_"}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// LogLevel maps debug, info, warn and error; anything else is info.
func LogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
