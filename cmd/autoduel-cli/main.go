package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/peterkuimelis/autoduel/internal/config"
	"github.com/peterkuimelis/autoduel/internal/logger"
	adnet "github.com/peterkuimelis/autoduel/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  autoduel host [--name N] [--hero H] [--port P] [--roster FILE --roster-number N] [--players N]")
	fmt.Println("  autoduel join [--name N] [--hero H] [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a tournament server and play seat 0")
	fmt.Println("  join    Connect to a tournament server and play seat 1")
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	name := fs.String("name", "Host", "your player name")
	hero := fs.String("hero", "", "hero id (keeps the seat's hero when empty)")
	rosterNumber := fs.Int("roster-number", 0, "roster to play (1-indexed, 0 for random seats)")
	maxRounds := fs.Int("max-rounds", 0, "stop after this many rounds (0 for no limit)")
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}

	// The REPL owns stdout.
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	srv := &adnet.Server{
		Port:         strconv.Itoa(cfg.Port),
		RosterFile:   cfg.Roster,
		RosterNumber: *rosterNumber,
		Players:      cfg.Players,
		HostName:     *name,
		HostHero:     *hero,
		Seed:         cfg.Seed,
		MaxRounds:    *maxRounds,
		Log:          log,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	name := fs.String("name", "Guest", "your player name")
	hero := fs.String("hero", "", "hero id (keeps the seat's hero when empty)")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	return adnet.Connect(ctx, *addr, *name, *hero)
}
