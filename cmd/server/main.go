package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/telechess-backend/internal/config"
	"github.com/benbeisheim/telechess-backend/internal/controller"
	"github.com/benbeisheim/telechess-backend/internal/service"
	"github.com/gofiber/fiber/v2/log"
)

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(logLevels[strings.ToLower(cfg.LogLevel)])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	gameManager := service.NewGameManager(cfg.SessionTTL)
	go gameManager.Run(ctx, time.Minute)
	gameService := service.NewGameService(gameManager)

	app := controller.NewApp(gameService, cfg.Origins())

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
