package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/poketrack/internal/config"
	"github.com/codyseavey/poketrack/internal/logging"
	"github.com/codyseavey/poketrack/internal/models"
	"github.com/codyseavey/poketrack/internal/remote"
	"github.com/codyseavey/poketrack/internal/tracker"
	"github.com/codyseavey/poketrack/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	apiURL := flag.String("api", "", "API base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.Client.BaseURL = *apiURL
	}

	logger, logFile, err := logging.NewFile(cfg.Client.LogLevel, cfg.Client.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Client.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.Client.MetricsAddr, logger)
	}

	client := remote.NewClient(cfg.Client.BaseURL,
		remote.WithTimeout(cfg.Client.Timeout),
		remote.WithRateLimit(cfg.Client.RateLimit, cfg.Client.Burst),
	)
	t := tracker.New(ctx, client,
		tracker.WithLogger(logger),
		tracker.WithDefaultWindow(models.Window(cfg.Client.DefaultDays)),
	)
	logger.Info("client starting", "api", cfg.Client.BaseURL, "days", cfg.Client.DefaultDays)

	p := tea.NewProgram(tui.New(t), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// serveMetrics exposes the client's request counters until ctx is done
func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
