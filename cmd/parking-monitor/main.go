// Command parking-monitor polls the parking-guidance APIs of Swiss
// cities and appends normalized snapshots to per-city, per-day JSON
// files.
//
// Usage:
//
//	parking-monitor collect                  # one cycle over all enabled cities
//	parking-monitor collect --city basel     # one cycle for a single city
//	parking-monitor watch --interval 15m     # continuous collection
//	parking-monitor watch --serve            # ... plus the status API
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	httpapi "github.com/parkmon/swiss-parking-monitor/internal/api/http"
	"github.com/parkmon/swiss-parking-monitor/internal/config"
	"github.com/parkmon/swiss-parking-monitor/internal/parking"
	"github.com/parkmon/swiss-parking-monitor/internal/parking/adapters"
	"github.com/parkmon/swiss-parking-monitor/internal/scheduler"
	"github.com/parkmon/swiss-parking-monitor/internal/store"
)

var logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
	TimeFormat: time.Kitchen,
}))

// Fetch timeout per city request; a hanging upstream delays the next
// city by at most this much.
const fetchTimeout = 10 * time.Second

var (
	configPath string
	dataDir    string
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "parking-monitor",
		Short:         "Monitor parking availability in Swiss cities with PLS systems",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to cities config (default "+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "base directory for snapshot storage (default from config)")

	root.AddCommand(collectCmd())
	root.AddCommand(watchCmd())

	if err := root.Execute(); err != nil {
		logger.Error("exiting", "err", err)
		os.Exit(1)
	}
}

// loadConfig resolves config and applies flag overrides.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// buildService wires stores, HTTP client and adapters into the
// orchestrator.
func buildService(cfg *config.AppConfig) (*parking.Service, *store.MemoryStore) {
	client := &http.Client{Timeout: fetchTimeout}
	files := store.NewFileStore(cfg.DataDir)
	mem := store.NewMemoryStore()
	svc := parking.NewService(cfg.Cities, adapters.ForTag, client, files, mem, logger)
	return svc, mem
}

// --------------------------------------------------------------------------
// collect command
// --------------------------------------------------------------------------

func collectCmd() *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, _ := buildService(cfg)

			ctx := cmd.Context()

			if city != "" {
				result, err := svc.CollectCity(ctx, city)
				if err != nil {
					return err
				}
				logger.Info("collection finished", "city", city, "result", result.String())
				if !result.Success() {
					return fmt.Errorf("collection for %q finished with %s", city, result)
				}
				return nil
			}

			results := svc.CollectAll(ctx)
			for id, result := range results {
				logger.Info("collection finished", "city", id, "result", result.String())
			}
			if !parking.AllSuccess(results) {
				return fmt.Errorf("at least one city failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "collect a single city only (e.g. 'basel')")

	return cmd
}

// --------------------------------------------------------------------------
// watch command
// --------------------------------------------------------------------------

func watchCmd() *cobra.Command {
	var (
		city     string
		interval time.Duration
		serve    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Collect continuously on a fixed interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if interval > 0 {
				cfg.Interval = interval
			}
			svc, mem := buildService(cfg)

			sched := scheduler.New(svc, cfg.Interval, city, logger)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}
			defer sched.Stop()
			logger.Info("watching", "interval", cfg.Interval.String(), "data_dir", cfg.DataDir)

			var app *fiber.App
			if serve {
				app = newAPI(svc, mem)
				go func() {
					if err := app.Listen(":" + cfg.Port); err != nil {
						logger.Error("api server stopped", "err", err)
					}
				}()
				logger.Info("status api listening", "port", cfg.Port)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			logger.Info("shutting down")

			if app != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := app.ShutdownWithContext(shutdownCtx); err != nil {
					logger.Error("error during shutdown", "err", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "watch a single city only")
	cmd.Flags().DurationVar(&interval, "interval", 0, "collection interval (default from config, 15m)")
	cmd.Flags().BoolVar(&serve, "serve", false, "serve the status API while watching")

	return cmd
}

func newAPI(svc *parking.Service, mem *store.MemoryStore) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "parking-monitor",
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

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "parking-monitor",
		})
	})

	httpapi.RegisterRoutes(app, svc, mem)
	return app
}
