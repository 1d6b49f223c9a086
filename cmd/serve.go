package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/chessweb/internal/accounts"
	"github.com/jon4hz/chessweb/internal/api"
	"github.com/jon4hz/chessweb/internal/config"
	"github.com/jon4hz/chessweb/internal/database"
	"github.com/spf13/cobra"
)

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile, cmd.Flags())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
		if rootCmdPersistentFlags.LogLevel == "" {
			log.SetLevel(log.DebugLevel)
		}
		log.Debug("debug mode is on")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := cmd.Context()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database, check the credentials", "driver", cfg.Database.Driver, "user", cfg.Database.User, "error", err)
	}
	defer db.Close() //nolint:errcheck

	server, err := api.New(cfg, accounts.New(db))
	if err != nil {
		log.Fatalf("failed to create web server: %v", err)
	}

	log.Info("chessweb started successfully", "addr", cfg.Addr())
	if err := server.Run(ctx); err != nil {
		log.Error("web server error", "error", err)
		return
	}
	log.Info("chessweb stopped")
}
