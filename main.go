package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	config, err := LoadConfig(".env")
	if err != nil {
		Logger.Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}
	Logger.Debugf("configuration: %+v", config)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := NewPipeline(config, os.Stdout).Run(ctx); err != nil {
		Logger.Errorf("plot generation failed: %v", err)
		cancel()
		os.Exit(1)
	}
}
