package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conorfennell/recall/internal/config"
	"github.com/conorfennell/recall/internal/deck"
	"github.com/conorfennell/recall/internal/seed"
	"github.com/conorfennell/recall/internal/storage"
	"github.com/conorfennell/recall/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("recall", pflag.ExitOnError)
	configFile := flags.String("config", "", "Path to a YAML config file")
	flags.String("db", "recall.db", "Path to the sqlite database file")
	flags.String("addr", ":8080", "Address for the HTTP API")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.StringSlice("sources", nil, "Card sources to seed from: local directories or git URLs")
	flags.String("repos-dir", "repos", "Directory for local clones of git sources")
	seedOnly := flags.BoolP("seed-only", "s", false, "Seed from the configured sources and exit")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	db, err := storage.Open(cfg.DB)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DB, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database opened", "path", cfg.DB)

	d, err := deck.New(db, log)
	if err != nil {
		log.Error("failed to load deck", "error", err)
		os.Exit(1)
	}
	d.SetEngagement(func(total int) {
		log.Debug("review recorded", "total_reviews", total)
	})

	if len(cfg.Sources) > 0 {
		report, err := seed.Run(d, cfg.Sources, cfg.ReposDir, log)
		if err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		log.Info("seeding complete",
			"accepted", report.Accepted,
			"rejected", report.Rejected,
			"duplicates", report.Duplicates,
		)
	}
	if *seedOnly {
		return
	}

	server := web.NewServer(d, log)
	log.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
