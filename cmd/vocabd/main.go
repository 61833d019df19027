package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/tbtran/vocabd/internal/config"
	"github.com/tbtran/vocabd/internal/database"
	"github.com/tbtran/vocabd/internal/handler"
	"github.com/tbtran/vocabd/internal/logger"
	"github.com/tbtran/vocabd/internal/repository"
)

func main() {
	// Real environment variables take precedence over .env values.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	if err := newApp(runServe, runMigrate).Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// serveFlags returns fresh flag instances; the root app and the serve
// command each need their own.
func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   config.DefaultPort,
			Usage:   "HTTP server port",
			EnvVars: []string{"PORT"},
		},
		&cli.StringFlag{
			Name:    "cors-allowed-origins",
			Value:   config.DefaultAllowedOrigins,
			Usage:   "Comma separated list of allowed CORS origins",
			EnvVars: []string{"CORS_ALLOWED_ORIGINS"},
		},
	}
}

func newApp(serve, migrate cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:  "vocabd",
		Usage: "HTTP API for a vocabulary collection",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.Uint64Flag{
				Name:    "db-connect-attempts",
				Value:   config.DefaultConnectAttempts,
				Usage:   "Database ping attempts before giving up",
				EnvVars: []string{"DB_CONNECT_ATTEMPTS"},
			},
		}, serveFlags()...),
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Flags:  serveFlags(),
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations and exit",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: migrate,
			},
		},
		Action: serve,
	}
}

// serverConfig resolves the server configuration from flags and environment.
func serverConfig(c *cli.Context) config.Server {
	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	return config.Server{
		Port:            port,
		DatabaseURL:     c.String("database-url"),
		AllowedOrigins:  config.ParseOrigins(c.String("cors-allowed-origins")),
		ConnectAttempts: c.Uint64("db-connect-attempts"),
	}
}

func connect(ctx context.Context, cfg config.Server) (*database.DB, error) {
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.ConnectAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	cfg := serverConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	h := handler.New(repository.NewVocabRepository(db.Pool()), db)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Router(cfg.AllowedOrigins),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Routes are fully registered; binding is the last step.
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	serverErr := make(chan error, 1)

	go func() {
		slog.Info("server started", "port", cfg.Port, "server_addr", "http://localhost:"+cfg.Port)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if err := awaitShutdown(ctx, serverErr); err != nil {
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// awaitShutdown blocks until the server fails, ctx is cancelled or the
// process receives SIGINT or SIGTERM. The signal handler is released on return.
func awaitShutdown(ctx context.Context, serverErr <-chan error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down server")
		return nil
	}
}

func runMigrate(c *cli.Context) error {
	cfg := serverConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := connect(c.Context, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Bool("down") {
		if err := database.RollbackMigration(c.Context, db.Pool()); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return nil
	}

	if err := database.RunMigrations(c.Context, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
