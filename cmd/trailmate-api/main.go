// README: Entry point; loads config, wires services, starts the HTTP API and the session sweeper.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trailmate/internal/app"
	"trailmate/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := app.NewLogger(os.Stderr, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Fatal(err)
	}
}
