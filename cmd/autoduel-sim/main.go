package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/peterkuimelis/autoduel/internal/config"
	"github.com/peterkuimelis/autoduel/internal/logger"
	"github.com/peterkuimelis/autoduel/internal/sim"
)

func main() {
	hero1 := flag.String("hero1", "medic", "hero id of fighter 1")
	hero2 := flag.String("hero2", "striker", "hero id of fighter 2")
	cards1 := flag.String("cards1", "", "fighter 1 cards, comma separated id or id:level")
	cards2 := flag.String("cards2", "", "fighter 2 cards, comma separated id or id:level")
	n := flag.Int("n", 1000, "number of duels")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel duels")

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	m := sim.Matchup{Hero1: *hero1, Hero2: *hero2}
	if m.Cards1, err = sim.ParseCards(*cards1); err != nil {
		log.Fatal().Err(err).Msg("cards1")
	}
	if m.Cards2, err = sim.ParseCards(*cards2); err != nil {
		log.Fatal().Err(err).Msg("cards2")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	report, err := sim.Batch(ctx, m, *n, seed, *workers)
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}
	log.Info().Int("duels", report.Duels).Int64("seed", seed).Dur("elapsed", time.Since(start)).Msg("batch done")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("encode report")
	}
}
