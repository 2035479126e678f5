package main

import (
	"fmt"
	"log/slog"

	"github.com/caselens/rfescope/internal/rules"
	"github.com/caselens/rfescope/internal/rulesdsl"
	"github.com/caselens/rfescope/internal/shared"
	"github.com/caselens/rfescope/internal/storage"
)

// setup loads the config, initializes logging, applies rule settings, and
// loads the optional firm rules pack. Every subcommand starts here.
func setup() (shared.Config, *slog.Logger, error) {
	cfg, _ := shared.LoadConfig(configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	rules.SetSettings(rules.Settings{
		Disabled:           rules.DisabledSet(cfg.Assessment.DisabledRules),
		MaxPriorityActions: cfg.Assessment.MaxPriorityActions,
		DeadlineWindowDays: cfg.Assessment.DeadlineWindowDays,
	})

	if cfg.Assessment.RulesPack != "" {
		n, err := rulesdsl.LoadAndRegister(cfg.Assessment.RulesPack)
		if err != nil {
			return cfg, logger, fmt.Errorf("load rules pack: %w", err)
		}
		logger.Info("rules pack loaded", "path", cfg.Assessment.RulesPack, "rules", n)
	}
	return cfg, logger, nil
}

// openDB opens the SQLite store and ensures the schema exists.
func openDB(dsn string) (*storage.DB, error) {
	db, err := storage.OpenSQLite(dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}
