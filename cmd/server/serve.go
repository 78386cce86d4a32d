package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"drspecialist/internal/config"
	"drspecialist/internal/core"
	"drspecialist/internal/db"
	httpserver "drspecialist/internal/http"
	"drspecialist/internal/logger"
	"drspecialist/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	advisor, err := newAdvisor(cfg, log)
	if err != nil {
		return err
	}

	store, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		recorder core.InquiryRecorder
		opts     = httpserver.Options{
			CookieName:   cfg.Session.CookieName,
			QueryTimeout: cfg.LLM.Timeout(),
		}
	)
	if cfg.Database.InquiryLogEnabled() {
		conn, err := openInquiryLog(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()
		repo := db.NewRepository(conn, db.NewNotifier(conn, cfg.Database.Postgres.NotifyChannel))
		recorder = repo
		opts.Stats = repo
		log.Info("inquiry log enabled", map[string]interface{}{"notify_channel": cfg.Database.Postgres.NotifyChannel})
	}

	ctrl := core.NewController(advisor, store, recorder, log)
	srv, err := httpserver.NewServer(ctrl, advisor, log, opts)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeoutMS),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeoutMS),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", map[string]interface{}{
			"address":  cfg.Server.Address,
			"provider": cfg.LLM.Provider,
			"sessions": cfg.Session.Backend,
		})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func openSessionStore(ctx context.Context, cfg *config.Config, log logger.Logger) (core.StateStore, func(), error) {
	if cfg.Session.Backend == config.SessionRedis {
		store := session.NewRedisStore(session.NewRedisClient(cfg.Database.Redis), cfg.Session.TTL())
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	store := session.NewMemoryStore(cfg.Session.TTL())
	janitorCtx, cancel := context.WithCancel(ctx)
	go store.RunJanitor(janitorCtx, time.Minute)
	log.Debug("using in-memory session store", map[string]interface{}{"ttl": cfg.Session.TTL().String()})
	return store, cancel, nil
}

func openInquiryLog(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	conn, err := db.Open(ctx, cfg.Database.Postgres.URL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
