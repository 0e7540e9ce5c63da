package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/temperature-capture/internal/api/http"
	"github.com/i474232898/temperature-capture/internal/config"
	"github.com/i474232898/temperature-capture/internal/logging"
	"github.com/i474232898/temperature-capture/internal/scheduler"
	"github.com/i474232898/temperature-capture/internal/store"
	"github.com/i474232898/temperature-capture/internal/weather"
	"github.com/i474232898/temperature-capture/internal/weather/providers"
)

const appName = "temperature-capture"

// Overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		envFile string
		dryRun  bool
	)

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Capture the current Atlanta temperature into blob storage",
		Long:          "Fetch one OpenWeatherMap reading for Atlanta, GA and upload it as JSON to Azure Blob Storage.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(out, envFile)
			if err != nil {
				return err
			}

			var objects weather.ObjectStore
			var mem *store.MemoryStore
			if dryRun {
				mem = store.NewMemoryStore()
				objects = mem
			} else {
				objects = store.NewAzureBlobStore(store.AzureConfig{
					ConnectionString: cfg.AzureConnectionString,
					Container:        cfg.AzureContainer,
				})
			}

			res, err := newService(cfg, logger, objects).Run(cmd.Context())
			if err != nil {
				return err
			}

			if mem != nil {
				reportDryRun(logger, mem, res.ObjectPath)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "keep the document in memory instead of uploading it")

	rootCmd.AddCommand(serveCmd(out, &envFile))
	return rootCmd
}

func reportDryRun(logger *slog.Logger, mem *store.MemoryStore, path string) {
	obj, err := mem.Get(path)
	if err != nil {
		logger.Warn("dry run: document not found in memory", "object", path, "err", err)
		return
	}
	logger.Info("dry run: document not uploaded", "object", path, "document", string(obj.Data))
}

func serveCmd(out io.Writer, envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Capture on a fixed interval and expose run status over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(out, *envFile)
			if err != nil {
				return err
			}

			objects := store.NewAzureBlobStore(store.AzureConfig{
				ConnectionString: cfg.AzureConnectionString,
				Container:        cfg.AzureContainer,
			})
			service := newService(cfg, logger, objects)

			sched := scheduler.New(service, cfg.CaptureInterval, 0, logger)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer sched.Stop()

			app := fiber.New(fiber.Config{
				AppName:               appName,
				DisableStartupMessage: true,
				ReadTimeout:           10 * time.Second,
				WriteTimeout:          10 * time.Second,
				ErrorHandler: func(c *fiber.Ctx, err error) error {
					code := fiber.StatusInternalServerError
					if e, ok := err.(*fiber.Error); ok {
						code = e.Code
					}
					return c.Status(code).JSON(fiber.Map{
						"error":   true,
						"message": err.Error(),
					})
				},
			})
			app.Use(recover.New())
			httpapi.RegisterRoutes(app, sched)

			go func() {
				logger.Info("status server listening", "addr", cfg.HTTPAddr)
				if err := app.Listen(cfg.HTTPAddr); err != nil {
					logger.Error("fiber server stopped", "err", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
}

func setup(out io.Writer, envFile string) (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return nil, nil, err
	}

	logger := logging.New(out, *cfg, version, appName)
	return cfg, logger, nil
}

func newService(cfg *config.AppConfig, logger *slog.Logger, objects weather.ObjectStore) *weather.Service {
	// Shared HTTP client for the provider call.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcherCfg := weather.DefaultFetcherConfig(cfg.OpenWeatherAPIKey)
	fetcherCfg.Timeout = cfg.HTTPTimeout

	fetcher := weather.NewFetcher(fetcherCfg, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherBaseURL), logger)
	publisher := weather.NewPublisher(objects, logger)
	return weather.NewService(fetcher, publisher, logger)
}
