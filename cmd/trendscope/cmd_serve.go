package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	apihttp "github.com/trendscope/trendscope/internal/interfaces/http"
)

const version = "1.2.0"

// serveCmd runs the classification API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trendscope classification API",
	Long: `Start the HTTP API exposing trend classification and decline assessment,
plus /health and /metrics endpoints.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	if err := rt.metrics.Register(promRegistry); err != nil {
		return err
	}

	handlers := apihttp.NewHandlers(rt.pipeline, rt.tracker, version)
	server := apihttp.NewServer(apihttp.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
		IdleTimeout:  cfg.Server.GetIdleTimeout(),
	}, handlers, promRegistry)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
