// Package main is the entry point for the sofia conversation server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sofialabs/sofia"
	"github.com/sofialabs/sofia/internal/augment"
	"github.com/sofialabs/sofia/internal/config"
	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/internal/llm"
	"github.com/sofialabs/sofia/internal/observability"
	"github.com/sofialabs/sofia/internal/providers/country"
	"github.com/sofialabs/sofia/internal/providers/weather"
	"github.com/sofialabs/sofia/internal/recovery"
	"github.com/sofialabs/sofia/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, cfgManager, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}
	if cfgManager != nil {
		defer cfgManager.Close()
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger.Slog())
	logger.Info("starting sofia conversation server", "version", sofia.Version)

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRate:  cfg.Tracing.SampleRate,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	client, err := buildClient(cfg, logger.Slog())
	if err != nil {
		return err
	}
	defer client.Close()

	handler := newRouter(client, cfg, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// loadConfig returns the effective config, plus a live manager when a file
// was given so edits hot-reload.
func loadConfig(ctx context.Context, path string) (*config.Config, *config.Manager, error) {
	if path == "" {
		return config.DefaultConfig(), nil, nil
	}
	mgr, err := config.NewManager(path, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := mgr.Watch(ctx); err != nil {
		slog.Warn("config hot-reload disabled", "error", err)
	}
	return mgr.Get(), mgr, nil
}

func newLogger(cfg config.LoggingConfig) *observability.Logger {
	return observability.NewLogger(observability.LoggerConfig{
		Level:      observability.ParseLevel(cfg.Level),
		Output:     os.Stdout,
		JSONFormat: cfg.Format != "text",
	}, observability.NewRedactor())
}

// buildClient wires the assistant from config: session store, cache backend,
// data providers, generator and audit sink.
func buildClient(cfg *config.Config, logger *slog.Logger) (*sofia.Client, error) {
	lib := lexicon.Default()
	if cfg.Engine.LexiconOverlay != "" {
		if err := lib.LoadOverlay(cfg.Engine.LexiconOverlay); err != nil {
			logger.Warn("lexicon overlay not loaded, using built-ins",
				"path", cfg.Engine.LexiconOverlay, "error", err)
		}
	}

	opts := []sofia.Option{
		sofia.WithLogger(logger),
		sofia.WithLexicon(lib),
		sofia.WithStoreConfig(store.Config{
			MaxSessions:   cfg.Store.MaxSessions,
			IdleTTL:       cfg.Store.IdleTTL,
			SweepInterval: cfg.Store.SweepInterval,
		}),
		sofia.WithHistoryWindow(cfg.Engine.HistoryWindow),
		sofia.WithRateLimits(cfg.Providers.Weather.RequestsPerMin, cfg.Providers.Country.RequestsPerMin),
	}

	if cfg.Cache.Backend == "redis" {
		cache, err := augment.NewRedisStore(augment.RedisConfig{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			Namespace: cfg.Cache.Namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("connect cache backend: %w", err)
		}
		opts = append(opts, sofia.WithCacheStore(cache))
	}

	weatherOpts := []weather.Option{
		weather.WithAPIKey(cfg.Providers.Weather.APIKey),
		weather.WithHTTPClient(&http.Client{Timeout: cfg.Providers.Weather.Timeout}),
	}
	if cfg.Providers.Weather.BaseURL != "" {
		weatherOpts = append(weatherOpts, weather.WithBaseURL(cfg.Providers.Weather.BaseURL))
	}
	opts = append(opts, sofia.WithWeatherProvider(weather.New(weatherOpts...)))

	countryOpts := []country.Option{
		country.WithHTTPClient(&http.Client{Timeout: cfg.Providers.Country.Timeout}),
	}
	if cfg.Providers.Country.BaseURL != "" {
		countryOpts = append(countryOpts, country.WithBaseURL(cfg.Providers.Country.BaseURL))
	}
	opts = append(opts, sofia.WithCountryProvider(country.New(countryOpts...)))

	if cfg.Providers.LLM.APIKey != "" {
		llmOpts := []llm.OpenAIOption{
			llm.WithOpenAIModel(cfg.Providers.LLM.Model),
			llm.WithOpenAIHTTPClient(&http.Client{Timeout: cfg.Providers.LLM.Timeout}),
		}
		if cfg.Providers.LLM.BaseURL != "" {
			llmOpts = append(llmOpts, llm.WithOpenAIBaseURL(cfg.Providers.LLM.BaseURL))
		}
		opts = append(opts, sofia.WithGenerator(llm.NewOpenAI(cfg.Providers.LLM.APIKey, llmOpts...)))
	} else {
		logger.Warn("no completion api key configured, serving offline replies")
	}

	if cfg.Recovery.AuditDSN != "" {
		sink, err := recovery.NewPostgresSink(cfg.Recovery.AuditDSN)
		if err != nil {
			return nil, fmt.Errorf("connect recovery audit: %w", err)
		}
		opts = append(opts, sofia.WithRecoveryAudit(sink))
	}

	return sofia.New(opts...)
}
