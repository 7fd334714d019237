// Command fsquery answers questions about the Freshservice API from a local
// index of its documentation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/ai"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/config/file"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/cli"
	"github.com/08nikhil/freshservice-Application/internal/core/services"
)

var version = "dev"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	settings := services.NewSettingsService(configStore, ai.NewConfigValidator())

	cli.SetVersion(version)
	cli.SetSettingsService(settings)
	cli.SetEngineFactory(func(ctx context.Context) (*cli.Engine, error) {
		return buildEngine(ctx, settings)
	})

	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
