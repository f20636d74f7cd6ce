package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/peterkuimelis/autoduel/internal/config"
	"github.com/peterkuimelis/autoduel/internal/logger"
	"github.com/peterkuimelis/autoduel/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fx.New(
		fx.Provide(loadConfig),
		fx.Provide(newLogger),
		fx.Provide(newWebServer),
		fx.NopLogger,
		fx.Invoke(runServer),
	).Run()
}

func loadConfig() (config.Config, error) {
	return config.Parse(flag.CommandLine, os.Args[1:])
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logger.New(cfg.LogLevel)
}

func newWebServer(cfg config.Config, log zerolog.Logger) *web.Server {
	return web.NewServer(web.Options{
		RosterFile: cfg.Roster,
		FPS:        cfg.ReplayFPS,
		Logger:     log,
	})
}

func runServer(lc fx.Lifecycle, cfg config.Config, srv *web.Server, log zerolog.Logger) {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebPort),
		Handler: srv.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", httpSrv.Addr).Msg("web server starting")
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("web server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("shutting down web server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("web server shutdown failed")
				return err
			}
			log.Info().Msg("web server stopped")
			return nil
		},
	})
}
