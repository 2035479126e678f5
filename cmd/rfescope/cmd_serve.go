package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/caselens/rfescope/internal/api"
	"github.com/caselens/rfescope/internal/assess"
)

var serveFlags struct {
	addr   string
	dbPath string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment HTTP API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "Listen address (default from config)")
	f.StringVar(&serveFlags.dbPath, "db", "", "SQLite database path")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if serveFlags.addr == "" {
		serveFlags.addr = cfg.Server.Addr
	}
	if serveFlags.dbPath == "" {
		serveFlags.dbPath = cfg.Database.DSN
	}

	db, err := openDB(serveFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Engine:          assess.NewEngine(assess.WithLogger(logger)),
		Logger:          logger,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		SessionDuration: time.Duration(cfg.Server.SessionHours) * time.Hour,
	}

	logger.Info("serving", "addr", serveFlags.addr, "db", serveFlags.dbPath)
	if err := http.ListenAndServe(serveFlags.addr, srv.Routes()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
