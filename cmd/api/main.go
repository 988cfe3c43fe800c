package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/billboard/backend/internal/config"
	"github.com/zhouzirui/billboard/backend/internal/handler"
	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/model/location"
	"github.com/zhouzirui/billboard/backend/internal/service/ai"
	"github.com/zhouzirui/billboard/backend/internal/service/chat"
	"github.com/zhouzirui/billboard/backend/internal/service/greeting"
	"github.com/zhouzirui/billboard/backend/internal/service/lookup"
	"github.com/zhouzirui/billboard/backend/internal/service/preference"
)

const upstreamTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", logger.Err(err))
		os.Exit(1)
	}

	log := slog.New(logger.NewHandler(os.Stdout, &logger.Options{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.DateTime,
		NoColor:    cfg.Log.NoColor,
	}))
	slog.SetDefault(log)

	if envErr != nil {
		log.Debug("no .env file loaded, continuing with system environment", logger.Err(envErr))
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", logger.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) (err error) {
	httpClient := &http.Client{Timeout: upstreamTimeout}

	backend, backendErr := preference.NewBackend(ctx, cfg.Storage)
	if backendErr != nil {
		log.Warn("primary preference store unavailable, using memory", "backend", cfg.Storage.Backend, logger.Err(backendErr))
		backend = nil
	}
	preferences := preference.NewService(backend, preference.NewMemoryStore(), log)
	defer func() {
		if closeErr := closeAll(preferences); closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()
	log.Info("preference store ready", "backend", preferences.Backend())

	deps := handler.Dependencies{
		Preferences:    preferences,
		StorageBackend: preferences.Backend(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
	}

	if cfg.AI.Enabled() {
		chatModel, err := ai.NewChatModel(ctx, cfg.AI)
		if err != nil {
			return fmt.Errorf("create chat model: %w", err)
		}
		aiService, err := ai.NewService(ctx, chatModel, log)
		if err != nil {
			return fmt.Errorf("create ai service: %w", err)
		}

		gateway := lookup.NewGateway(
			lookup.NewNominatimGeocoder(cfg.Lookup.GeocoderBaseURL, cfg.Lookup.GeocoderUserAgent, httpClient),
			lookup.NewOpenWeatherClient(cfg.Lookup.WeatherBaseURL, cfg.Lookup.WeatherAPIKey, httpClient),
			location.NewMemoryDirectory(location.Seed()),
			log,
		)

		deps.Chat = chat.NewService(aiService, log)
		deps.Greeter = greeting.NewComposer(gateway, aiService, nil, log)
		log.Info("AI service initialized", "provider", cfg.AI.Provider)
	} else {
		log.Warn("LLM credentials not configured, chat and greeting routes will fail", "provider", cfg.AI.Provider)
	}
	if cfg.Lookup.WeatherAPIKey == "" {
		log.Warn("WEATHER_API_KEY not set, greetings will fail")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("billboard backend listening", "addr", srv.Addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type closer interface {
	Close() error
}

func closeAll(closers ...closer) error {
	var result *multierror.Error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
