package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jusunglee/nexttrain/api/handlers"
	"github.com/jusunglee/nexttrain/internal/config"
	"github.com/jusunglee/nexttrain/internal/logging"
	"github.com/jusunglee/nexttrain/internal/metrics"
	"github.com/jusunglee/nexttrain/pkg/mta"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "nexttrain-server",
		Usage: "Serves subway arrival countdowns over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.IntFlag{Name: "port", Usage: "override server port"},
			&cli.BoolFlag{Name: "pretty", Usage: "console log output", EnvVars: []string{"NEXTTRAIN_PRETTY_LOG"}},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if p := c.Int("port"); p != 0 {
		cfg.Server.Port = p
	}
	if err := logging.Setup(cfg.LogLevel, c.Bool("pretty")); err != nil {
		return err
	}
	if cfg.Feed.APIKey == "" {
		log.Warn().Msg("No MTA API key configured, requests are sent without one")
	}

	collector := metrics.NewCollector()

	clientConfig := mta.FromConfig(cfg)
	clientConfig.Poll = true
	clientConfig.Metrics = collector

	client, err := mta.NewLocal(clientConfig)
	if err != nil {
		return fmt.Errorf("create MTA client: %w", err)
	}
	defer client.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(client, cfg.DefaultLimit, collector),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Feed.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

// newRouter mounts the API and metrics. Routes accept OPTIONS so that
// preflight requests reach corsMiddleware.
func newRouter(client mta.Client, defaultLimit int, collector *metrics.Collector) *mux.Router {
	r := mux.NewRouter()
	handlers.NewHandler(client, defaultLimit).RegisterRoutes(r)
	r.Handle("/metrics", collector.Handler()).Methods("GET", "OPTIONS")

	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)
	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
