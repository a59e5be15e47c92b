// @title			Event Service API
// @version		1.0
// @description	Handles user-to-user event management.
// @BasePath		/api/v1

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

	"github.com/urfave/cli/v2"

	"github.com/TheFriendRequest/Event-Service/internal/config"
	"github.com/TheFriendRequest/Event-Service/internal/database"
	"github.com/TheFriendRequest/Event-Service/internal/handler"
	"github.com/TheFriendRequest/Event-Service/internal/logger"
	"github.com/TheFriendRequest/Event-Service/internal/worker"
)

func main() {
	app := &cli.App{
		Name:  "eventservice",
		Usage: "User-to-user event management service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Value:   config.DefaultWorkerCount,
						Usage:   "Background executor goroutines",
						EnvVars: []string{"WORKER_COUNT"},
					},
					&cli.IntFlag{
						Name:    "queue-capacity",
						Value:   config.DefaultQueueCapacity,
						Usage:   "Pending task queue capacity",
						EnvVars: []string{"QUEUE_CAPACITY"},
					},
				},
				Action: runServe,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	workers := c.Int("workers")
	if workers <= 0 {
		workers = config.DefaultWorkerCount
	}
	queueCapacity := c.Int("queue-capacity")
	if queueCapacity <= 0 {
		queueCapacity = config.DefaultQueueCapacity
	}

	pool := worker.NewPool(
		worker.WithConcurrency(workers),
		worker.WithQueueCapacity(queueCapacity),
		worker.WithLogger(slog.Default()),
	)
	pool.Start(ctx)
	defer pool.Stop()

	h := handler.New(db.Pool(), pool)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
