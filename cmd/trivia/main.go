package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/trivia/internal/config"
	"github.com/conorfennell/trivia/internal/importer"
	"github.com/conorfennell/trivia/internal/logger"
	"github.com/conorfennell/trivia/internal/session"
	"github.com/conorfennell/trivia/internal/triviaapi"
	"github.com/conorfennell/trivia/internal/view"
	"github.com/conorfennell/trivia/internal/web"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Set up logging
	log := logger.New(cfg.Log, os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Wire the API client
	client, err := triviaapi.NewClient(triviaapi.Options{
		BaseURL:     cfg.API.BaseURL,
		Credentials: cfg.API.Credentials,
		ContentType: cfg.API.ContentType,
		Timeout:     cfg.API.Timeout,
	}, log)
	if err != nil {
		log.Error("Failed to create API client", "error", err)
		os.Exit(1)
	}

	if cfg.Import.File != "" || cfg.Import.Repo != "" {
		if err := runImport(ctx, client, cfg.Import, log); err != nil {
			log.Error("Import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// 4. Open the session store
	var (
		store  view.Store
		expire session.Expirer
		health func(context.Context) error
	)
	switch cfg.Session.Store {
	case "sqlite":
		db, err := session.OpenSQLite(cfg.Session.DSN)
		if err != nil {
			log.Error("Failed to open session database", "dsn", cfg.Session.DSN, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store, expire, health = db, db, db.Ping
		log.Info("Session database opened", "dsn", cfg.Session.DSN)
	default:
		mem := session.NewMemoryStore()
		store, expire = mem, mem
	}
	go session.RunJanitor(ctx, expire, cfg.Session.TTL, time.Minute, log)

	// 5. Wire the view and the server
	srv, err := web.NewServer(view.New(client, store, log), log, web.Options{
		SecureCookies:  cfg.Server.SecureCookies,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Health:         health,
	})
	if err != nil {
		log.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.API.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Serve until interrupted
	go func() {
		log.Info("Server listening", "addr", cfg.Server.Addr, "api", cfg.API.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not listen", "addr", cfg.Server.Addr, "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server exiting")
}

func runImport(ctx context.Context, api importer.API, cfg config.Import, log *slog.Logger) error {
	var (
		res importer.Result
		err error
	)
	if cfg.Repo != "" {
		dir := cfg.Dir
		if dir == "" {
			if dir, err = os.MkdirTemp("", "trivia-import-*"); err != nil {
				return err
			}
			defer os.RemoveAll(dir)
		}
		if err := importer.Checkout(ctx, cfg.Repo, dir, log); err != nil {
			return err
		}
		res, err = importer.ImportDir(ctx, api, dir, log)
	} else {
		f, openErr := os.Open(cfg.File)
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		res, err = importer.Import(ctx, api, f, log)
	}

	log.Info("Import finished", "created", res.Created, "skipped", res.Skipped)
	return err
}
