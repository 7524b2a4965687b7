package main

import (
	"log"

	"github.com/sajithv/hospmeals/internal/api"
	"github.com/sajithv/hospmeals/internal/config"
	"github.com/sajithv/hospmeals/internal/db"
	"github.com/sajithv/hospmeals/internal/logging"
	"github.com/sajithv/hospmeals/internal/session"
	"github.com/sajithv/hospmeals/internal/sync"
	"github.com/sajithv/hospmeals/internal/web"
	"github.com/sajithv/hospmeals/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	client := api.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger)
	sessions := session.NewManager(client, session.NewStore(database), logger)
	registry := sync.NewRegistry(client, logger)

	server := web.NewServer(sessions, registry, client, templates.FS, logger, web.Options{
		CSRFKey:    cfg.CSRFKey,
		CSRFSecure: cfg.CSRFSecure,
	})

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
