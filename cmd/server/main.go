package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/texforge/backend/internal/api"
	"github.com/texforge/backend/internal/config"
	"github.com/texforge/backend/internal/convert"
	"github.com/texforge/backend/internal/ingest"
	"github.com/texforge/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	configPath := filepath.Join(filepath.Dir(exePath), "texforge.config.xml")
	if p := os.Getenv("TEXFORGE_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile := convert.DefaultProfile()
	if cfg.Model.ProfilePath != "" {
		profile, err = convert.LoadProfile(cfg.Model.ProfilePath)
		if err != nil {
			logger.Error("failed to load model profile", "path", cfg.Model.ProfilePath, "error", err)
			os.Exit(1)
		}
	}

	var converter convert.Converter
	if cfg.Model.Backend == convert.BackendGemini && !cfg.GeminiConfig().Configured() {
		logger.Warn("gemini backend not configured, conversion disabled",
			"hint", "set GCP_PROJECT and VERTEX_AI_REGION")
	} else {
		converter, err = convert.New(ctx, cfg.Model.Backend, cfg.GeminiConfig(), profile, logger)
		if err != nil {
			logger.Error("failed to initialize converter", "backend", cfg.Model.Backend, "error", err)
			os.Exit(1)
		}
		if closer, ok := converter.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	}

	registry := ingest.NewRegistry()
	ingestSvc := ingest.NewService(cfg.IntakeConfig(), ingest.Options{VerifyPDF: cfg.Upload.VerifyPDF}, registry, logger)

	// Start background batch cleanup
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := registry.CleanupOldBatches(cfg.BatchRetention()); n > 0 {
					logger.Debug("expired ingested batches", "count", n)
				}
			}
		}
	}()

	var origins []string
	if cfg.Server.EnableCORS {
		origins = api.SplitOrigins(cfg.Server.AllowOrigins)
		if len(origins) == 0 {
			origins = []string{"*"}
		}
	}

	e := api.NewServer(&api.Dependencies{
		Ingest:             ingestSvc,
		Converter:          converter,
		MaxConcurrentReads: cfg.Upload.MaxConcurrentReads,
		ConvertTimeout:     cfg.ConvertTimeout(),
		Health: api.HealthInfo{
			Version:          Version,
			Environment:      cfg.Advanced.Environment,
			GeminiConfigured: cfg.GeminiConfig().Configured(),
		},
		Logger: logger,
	}, api.MiddlewareConfig{
		RequestLogging: cfg.Advanced.EnableRequestLogging,
		ShowDetails:    cfg.IsDevelopment(),
		BodyLimit:      cfg.Server.BodyLimit,
		AllowOrigins:   origins,
	})

	embeddedMode := web.HasEmbeddedFiles()
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			logger.Warn("failed to register static routes", "error", err)
			embeddedMode = false
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           TexForge Resume Conversion Server               ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Backend:    %-45s║\n", converter.Name())
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Accepts:   %-46s║\n", cfg.IntakeConfig().MaxSizeLabel()+" per file")
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
