// Package main provides the tagtime server and its maintenance commands.
//
// Usage:
//
//	tagtime serve                   # start the HTTP API (default)
//	tagtime check-schema            # report whether the database schema is valid
//	tagtime token -subject NAME     # issue a bearer token for the API
//
// @title						tagtime API
// @version					1.0
// @description				Track time sessions, tag them and aggregate durations.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tagtime/config"
	_ "tagtime/docs"
	"tagtime/internal/adapters/auth"
	deliveryhttp "tagtime/internal/delivery/http"
	"tagtime/internal/delivery/http/controllers"
	"tagtime/internal/delivery/http/middleware"
	"tagtime/internal/domain"
	"tagtime/internal/repository/sqlstore"
	"tagtime/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "help", "-h", "--help":
		printUsage()
		return nil
	case "serve", "check-schema", "token":
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "check-schema":
		return runCheckSchema(ctx, cfg, logger)
	case "token":
		return runToken(cfg, args)
	default:
		return runServe(ctx, cfg, logger)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqlstore.Store, error) {
	dialect, err := sqlstore.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	return sqlstore.Open(ctx, sqlstore.Config{
		Dialect:      dialect,
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
	}, sqlstore.WithLogger(logger))
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	repos := sqlstore.NewRepositories(store)
	tracker := services.NewTrackerService(repos.Tags, repos.Sessions, repos.Links, repos.Stats, logger, cfg.Timeout())

	var verifier domain.TokenVerifier
	if cfg.AuthEnabled() {
		verifier = auth.NewJWTVerifier(cfg.AuthSecret)
	} else {
		logger.Warn("TAGTIME_AUTH_SECRET is not set, API routes are unauthenticated")
	}

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Tags:     controllers.NewTagController(logger, tracker),
		Sessions: controllers.NewSessionController(logger, tracker),
		Stats:    controllers.NewStatsController(logger, tracker),
	}, middleware.RequireAuth(verifier, logger))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(logger, mux, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "driver", cfg.DBDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runCheckSchema(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	valid, err := store.ValidateSchema(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d\n", version)
	if !valid {
		return errors.New("schema is invalid")
	}
	fmt.Println("schema is valid")
	return nil
}

func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "", "subject to embed in the token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		return errors.New("token: -subject is required")
	}
	if !cfg.AuthEnabled() {
		return errors.New("token: TAGTIME_AUTH_SECRET is not set")
	}

	token, err := auth.NewJWTIssuer(cfg.AuthSecret).Issue(*subject, cfg.TokenTTL())
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Println(token)
	return nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: tagtime <command> [flags]

Commands:
  serve          Start the HTTP API (default)
  check-schema   Report whether the database schema is valid
  token          Issue a bearer token (-subject NAME)
  help           Show this help

Configuration is read from TAGTIME_* environment variables and an optional .env file.
`)
}
