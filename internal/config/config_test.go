package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 || cfg.WebPort != 8080 || cfg.Players != 4 || cfg.ReplayFPS != 30 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Roster != "rosters.yaml" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadEnvAndDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("AUTODUEL_PLAYERS=6\nAUTODUEL_SEED=99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("AUTODUEL_PLAYERS") })
	t.Setenv("AUTODUEL_PORT", "9100")
	// godotenv.Load does not override variables that are already set
	t.Setenv("AUTODUEL_SEED", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Port)
	}
	if cfg.Players != 6 {
		t.Errorf("players = %d, want 6 from .env", cfg.Players)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed = %d, want 7 from environment", cfg.Seed)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("AUTODUEL_PLAYERS", "3")
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"-players", "8", "-seed", "5"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Players != 8 || cfg.Seed != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("AUTODUEL_PLAYERS", "1")
	if _, err := Load(filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Error("expected an error for a single player")
	}
}
