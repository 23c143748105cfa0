package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adelossa/pregame/config"
	"github.com/adelossa/pregame/internal/adapters/polymarket"
	"github.com/adelossa/pregame/internal/adapters/report"
	"github.com/adelossa/pregame/internal/adapters/storage"
	"github.com/adelossa/pregame/internal/pipeline"
	"github.com/adelossa/pregame/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	marketsOnly := flag.Bool("markets-only", false, "stop after collation, skip price history fetch")
	audit := flag.Bool("audit", false, "print questions that look like matches but failed strict parsing")
	noStore := flag.Bool("no-store", false, "skip SQLite persistence and cache")
	csvPath := flag.String("csv", "", "CSV output path (overrides config)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *csvPath != "" {
		cfg.Output.CSVPath = *csvPath
	}
	setupLogger(cfg.Log)

	catalog, err := config.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		// Única condición que abortamos ruidosamente: un catálogo inválido
		// produce resultados silenciosamente incorrectos.
		slog.Error("invalid team catalog", "err", err)
		os.Exit(1)
	}

	slog.Info("pregame starting",
		"config", *configPath,
		"teams", len(catalog.Teams()),
		"pre_game_offset", cfg.PreGameOffset(),
		"lookback", cfg.Lookback(),
		"markets_only", *marketsOnly,
	)

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase)

	var store *storage.SQLiteStorage
	if !*noStore {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	reporter := report.NewConsole(cfg.Output.CSVPath, *audit)

	pipeCfg := pipeline.DefaultConfig()
	pipeCfg.PreGameOffset = cfg.PreGameOffset()
	pipeCfg.Lookback = cfg.Lookback()
	pipeCfg.MinVolume = cfg.Analysis.MinVolume
	pipeCfg.MarketsOnly = *marketsOnly

	p := pipeline.New(pipeCfg, catalog, client, client, storageOrNil(store), reporter)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := p.Run(ctx); err != nil {
		slog.Error("pipeline failed", "err", err)
		os.Exit(1)
	}

	slog.Info("pregame finished")
}

// storageOrNil evita pasar un interface no-nil con puntero nil al pipeline.
func storageOrNil(s *storage.SQLiteStorage) ports.Storage {
	if s == nil {
		return nil
	}
	return s
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
