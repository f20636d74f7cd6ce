package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings shared by the commands.
type Config struct {
	Port      int    `env:"AUTODUEL_PORT" envDefault:"9000"`
	WebPort   int    `env:"AUTODUEL_WEB_PORT" envDefault:"8080"`
	Roster    string `env:"AUTODUEL_ROSTER" envDefault:"rosters.yaml"`
	Seed      int64  `env:"AUTODUEL_SEED" envDefault:"0"`
	LogLevel  string `env:"AUTODUEL_LOG_LEVEL" envDefault:"info"`
	Players   int    `env:"AUTODUEL_PLAYERS" envDefault:"4"`
	ReplayFPS int    `env:"AUTODUEL_REPLAY_FPS" envDefault:"30"`
}

// Load reads an optional .env file and parses AUTODUEL_* variables.
// Variables already set in the environment win over .env entries.
func Load(files ...string) (Config, error) {
	if err := loadDotenv(files...); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if c.Players < 2 {
		return fmt.Errorf("players must be at least 2, got %d", c.Players)
	}
	if c.ReplayFPS < 1 || c.ReplayFPS > 240 {
		return fmt.Errorf("replay fps must be in [1, 240], got %d", c.ReplayFPS)
	}
	return nil
}

// BindFlags registers flags on fs with the loaded values as defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Port, "port", c.Port, "TCP port for networked tournaments")
	fs.IntVar(&c.WebPort, "web-port", c.WebPort, "HTTP port for the web server")
	fs.StringVar(&c.Roster, "roster", c.Roster, "path to roster YAML file")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "RNG seed (0 for time based)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&c.Players, "players", c.Players, "number of seats when no roster is used")
	fs.IntVar(&c.ReplayFPS, "fps", c.ReplayFPS, "replay frames per second")
}

// Parse loads env config, then applies command-line flags on top.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}
