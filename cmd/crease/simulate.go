package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	service "github.com/okian/crease/internal/app"
	"github.com/okian/crease/internal/config"
	"github.com/okian/crease/internal/scenario"
	"github.com/okian/crease/pkg/logger"
	"github.com/okian/crease/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func newSimulateCmd() *cobra.Command {
	var (
		undo        int
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Play a scripted match and print the scorecard",
		Long: "Play a scripted match and print the scorecard.\n\n" +
			"With --metrics-addr the Prometheus endpoint stays up after the scorecard\n" +
			"is printed, until the process is interrupted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			return simulate(cmd, path, args[0], undo, metricsAddr)
		},
	}
	cmd.Flags().IntVar(&undo, "undo", 0, "undo this many deliveries after play")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address, e.g. :9090")
	return cmd
}

func simulate(cmd *cobra.Command, configPath, scenarioPath string, undo int, metricsAddr string) error {
	ctx := cmd.Context()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if metricsAddr == "" {
		metricsAddr = cfg.MetricsAddr
	}
	if metricsAddr != "" {
		srv := serveMetrics(ctx, log, metricsAddr)
		defer func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
			}
		}()
	}

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	opts, err := service.FromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	svc := service.New(append(opts, service.WithLogger(log))...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	runner := scenario.NewRunner(svc)
	m, playErr := runner.Play(ctx, sc)
	if playErr != nil && m.ID == "" {
		return playErr
	}
	if playErr == nil && undo > 0 {
		if m, err = runner.Undo(ctx, m.ID, undo); err != nil {
			return fmt.Errorf("undo: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if err := scenario.WriteScorecard(out, m); err != nil {
		return err
	}
	if m.RatingsApplied {
		for _, team := range m.Teams {
			players, err := svc.Roster(ctx, team.Name)
			if err != nil {
				return fmt.Errorf("roster %s: %w", team.Name, err)
			}
			if err := scenario.WriteRatings(out, team.Name, players); err != nil {
				return err
			}
		}
	}
	return playErr
}

func serveMetrics(ctx context.Context, log logger.Logger, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return srv
}
