package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drstein77/foodwizz/internal/app"
	"go.uber.org/zap"
)

func main() {
	const shutdownTimeout = 5 * time.Second
	// Root context for background jobs, cancelled once the server is down
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	server := app.NewServer(ctx)
	go func() {
		sig := <-signalCh
		server.Log.Info("Received signal", zap.Stringer("signal", sig))

		// Drain requests, then stop the watcher and backups
		server.Shutdown(shutdownTimeout)
		cancel()
	}()

	// Blocks until Shutdown has finished
	server.Serve()
}
