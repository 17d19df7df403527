package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/smarthealth/internal/config"
	"github.com/jwalitptl/smarthealth/internal/mockapi"
	"github.com/jwalitptl/smarthealth/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to a smarthealth.yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := mockapi.NewServer(cfg.Mock, appLogger)
	if err != nil {
		appLogger.Fatal(err, "failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		appLogger.Fatal(err, "server failed")
	}
	appLogger.Info("server exited")
}
