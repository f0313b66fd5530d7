package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Notifuse/notifuse/config"
	"github.com/Notifuse/notifuse/internal/app"
)

// osExit is a variable to allow mocking os.Exit in tests
var osExit = os.Exit

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application := app.NewApp(cfg)

	if err := application.Initialize(); err != nil {
		application.GetLogger().WithField("error", err.Error()).Fatal("Failed to initialize application")
		osExit(1)
		return
	}

	go func() {
		if err := application.Start(); err != nil {
			application.GetLogger().WithField("error", err.Error()).Error("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	application.GetLogger().Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		application.GetLogger().WithField("error", err.Error()).Error("Error during shutdown")
		osExit(1)
	}
}
