package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/daily-pick/app/api"
	"github.com/lysyi3m/daily-pick/app/cache"
	"github.com/lysyi3m/daily-pick/app/cfg"
	"github.com/lysyi3m/daily-pick/app/daily"
	"github.com/lysyi3m/daily-pick/app/database"
	"github.com/lysyi3m/daily-pick/app/feed"
	"github.com/lysyi3m/daily-pick/app/selection"
	"github.com/lysyi3m/daily-pick/app/translate"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Daily Pick", "version", appCfg.Version, "timezone", time.Local.String())

	registry := feed.NewRegistry(appCfg.FeedsDir, appCfg.PrioritiesFile)
	if err := registry.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "count", registry.GetSourceCount())

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	sourceRepo := database.NewSourceRepository(db)
	for _, source := range registry.GetSources() {
		urlChanged, err := sourceRepo.UpsertSource(source.Name, source.URL, source.DisplayName)
		if err != nil {
			slog.Warn("Failed to register source", "category", source.Name, "error", err)
			continue
		}
		if urlChanged {
			slog.Info("Source URL updated", "category", source.Name, "url", source.URL)
		}
	}

	fetcher := feed.NewFetcher(&http.Client{}, appCfg.UserAgent)
	collector := feed.NewCollector(registry, fetcher, feed.NewParser(),
		feed.NewNormalizer(feed.NewSanitizer(), time.Local), sourceRepo, appCfg.FetchConcurrency)

	engine := selection.NewEngine(registry, appCfg.MinQualityScore, appCfg.ExtendedMinQualityScore)

	var backend translate.Backend
	if appCfg.EnableTranslation {
		gemini, err := translate.NewGeminiBackend(context.Background(), appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to initialize translation, continuing without it", "error", err)
		} else {
			defer gemini.Close()
			backend = gemini
			slog.Info("Translation enabled", "language", appCfg.TranslationLanguage, "model", appCfg.GeminiModel)
		}
	}
	translator := translate.NewAdapter(backend, appCfg.TranslationLanguage)

	var extractor daily.Extractor
	if appCfg.ExtractContent {
		extractor = feed.NewContentExtractor(fetcher, time.Duration(feed.DefaultTimeout)*time.Second)
	}

	results := cache.New[daily.Response]()
	service := daily.NewService(collector, engine, results, translator, extractor,
		appCfg.LookbackDays, appCfg.ExtendedLookbackDays)

	handler := api.NewHandler(service, collector, registry, sourceRepo, results, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Daily Pick shutdown complete")
}
