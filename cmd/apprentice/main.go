// Package main is the entry point for Apprentice.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/save"
	"github.com/samdwyer/apprentice/internal/telemetry"
	"github.com/samdwyer/apprentice/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $APPRENTICE_CONFIG)")
	scriptPath := flag.String("script", "", "run the commands in this file headless instead of the terminal UI")
	flag.Parse()

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx := context.Background()

	// The terminal UI owns the screen, so its logs go to a file.
	if *scriptPath == "" {
		logFile, err := openLogFile()
		if err != nil {
			log.Printf("Note: logging to stderr: %v", err)
			logger.Init(os.Stderr)
		} else {
			defer logFile.Close()
			logger.Init(logFile)
		}
	} else {
		logger.Init(os.Stderr)
	}

	shutdown, err := telemetry.Setup(ctx)
	switch {
	case errors.Is(err, telemetry.ErrNotConfigured):
		// No exporter configured - run without traces
	case err != nil:
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
	default:
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	if *configPath == "" {
		*configPath = os.Getenv("APPRENTICE_CONFIG")
	}
	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	g, err := game.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}
	defer g.Close()

	saves, err := save.Open(cfg.SaveDir, cfg.SaveSlots)
	if err != nil {
		logger.For("main").WithError(err).Warn("save store unavailable")
		saves = nil
	} else {
		defer saves.Close()
	}

	if err := run(ctx, g, saves, *scriptPath); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

func run(ctx context.Context, g *game.Game, saves *save.Store, scriptPath string) error {
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return ui.RunScript(ctx, g, saves, f, os.Stdout)
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Close()
	return ui.NewApp(screen, g, saves).Run(ctx)
}

// openLogFile opens $APPRENTICE_LOG_FILE, or apprentice.log, for appending.
func openLogFile() (*os.File, error) {
	path := os.Getenv("APPRENTICE_LOG_FILE")
	if path == "" {
		path = "apprentice.log"
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_APPRENTICE_API_KEY")
	if apiKey == "" {
		// Leave any OTEL_* settings from the environment alone
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// The .env file may hold an unexpanded variable reference, so the
	// headers are built here
	dataset := os.Getenv("HONEYCOMB_APPRENTICE_DATASET")
	if dataset == "" {
		dataset = "apprentice" // default dataset name
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
