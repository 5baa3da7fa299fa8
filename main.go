package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"planner-api/config"
	"planner-api/logger"
	"planner-api/routes"
	"planner-api/utils"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or TOML config file")
	envPath := flag.String("env", ".env", "path to a .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	appLog, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create logger")
	}

	store, err := utils.OpenStore(cfg.Store, cfg.StorePath())
	if err != nil {
		appLog.Fatal().Err(err).Str("store", cfg.Store).Str("path", cfg.StorePath()).Msg("Failed to open store")
	}
	defer store.Close()

	if appLog.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	records := utils.NewRecords(store, utils.WithLogger(appLog))
	r := routes.NewRouter(records, routes.Options{
		StaticDir: cfg.StaticDir,
		Logger:    appLog,
	})

	// Start the server
	appLog.Info().
		Int("port", cfg.Port).
		Str("store", cfg.Store).
		Str("path", cfg.StorePath()).
		Msg("Server running")
	if err := r.Run(cfg.Addr()); err != nil {
		appLog.Fatal().Err(err).Msg("Server stopped")
	}
}
