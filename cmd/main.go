package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/folio/internal/services"
	"github.com/desertthunder/folio/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	httpClient := &http.Client{}
	if config.API.TimeoutSeconds > 0 {
		httpClient.Timeout = time.Duration(config.API.TimeoutSeconds) * time.Second
	}

	library := services.NewLibraryService(config.API.BaseURL, config.API.Key, httpClient, logger)
	apiService := services.NewAPIService(config.API.BaseURL, config.API.Key, httpClient)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Library:    library,
		API:        apiService,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "folio",
		Usage:    "Read and sync books from your content server",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
