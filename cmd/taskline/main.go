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

	"github.com/joho/godotenv"
	"github.com/taskline/taskline/internal/config"
	"github.com/taskline/taskline/internal/database"
	"github.com/taskline/taskline/internal/event"
	"github.com/taskline/taskline/internal/handler"
	"github.com/taskline/taskline/internal/logger"
	"github.com/taskline/taskline/internal/repository"
	"github.com/taskline/taskline/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "taskline",
		Usage: "Task tracker with a diff-based activity audit trail",
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
				},
				Action: runServe,
			},
			{
				Name:  "purge-completed",
				Usage: "Remove completed tasks older than the given age",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Value: mustParseDuration(config.DefaultPurgeAge),
						Usage: "Minimum age of completed tasks to purge",
					},
				},
				Action: runPurgeCompleted,
			},
		},
		Action: runServe,
	}

	// A local .env is optional; flags and real env vars win.
	_ = godotenv.Load()

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

	dispatcher := event.NewDispatcher()
	event.RegisterLogging(dispatcher)

	h := handler.New(db.Pool(), dispatcher)

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

func runPurgeCompleted(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")
	olderThan := c.Duration("older-than")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	dispatcher := event.NewDispatcher()
	event.RegisterLogging(dispatcher)

	pool := db.Pool()
	taskService := service.NewTaskService(
		pool,
		repository.NewTaskRepository(pool),
		repository.NewActivityRepository(pool),
		repository.NewTagRepository(pool),
		dispatcher,
	)

	count, err := taskService.PurgeCompleted(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("purge completed tasks: %w", err)
	}

	slog.Info("purge finished", "tasks_removed", count)
	return nil
}

func mustParseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
