package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/autoduel/internal/config"
	"github.com/peterkuimelis/autoduel/internal/logger"
	admcp "github.com/peterkuimelis/autoduel/internal/mcp"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol.
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	admcp.SetRosterFile(cfg.Roster)
	admcp.SetPort(strconv.Itoa(cfg.Port))

	s := server.NewMCPServer("autoduel", "1.0.0")
	admcp.RegisterTools(s)

	log.Info().Str("roster", cfg.Roster).Int("human_port", cfg.Port).Msg("serving MCP on stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Error().Err(err).Msg("stdio server stopped")
		os.Exit(1)
	}
}
