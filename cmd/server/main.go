// Command server runs the GoodData specific provisioner HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/api"
	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/config"
	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/gooddata"
	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/middleware"
	"github.com/agile-lab-dev/witboost-gooddata-specific-provisioner/internal/service"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "GoodData specific provisioner",
		Long:          "HTTP server that provisions GoodData workspaces for data product components.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
	return cmd
}

func run(ctx context.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := gooddata.NewRestClient(cfg.GoodDataHost, cfg.GoodDataToken, gooddata.SnowflakeConnection{
		User:      cfg.SnowflakeUser,
		Password:  cfg.SnowflakePassword,
		Account:   cfg.SnowflakeAccount,
		Warehouse: cfg.SnowflakeWarehouse,
		Role:      cfg.SnowflakeRole,
		Port:      strconv.Itoa(cfg.SnowflakePort),
	}, logger)

	provisioner := service.NewGoodDataProvisioner(client, logger)
	handler := api.NewHandler(provisioner, logger)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))
	r.Get("/health", handler.Health)
	if cfg.AuthJWTSecret != "" {
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth([]byte(cfg.AuthJWTSecret)))
			handler.Register(r)
		})
	} else {
		handler.Register(r)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr, "host", cfg.GoodDataHost)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
