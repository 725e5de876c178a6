package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"kisan_bazaar/config"
	"kisan_bazaar/httputil"
	"kisan_bazaar/identity"
	"kisan_bazaar/logging"
	"kisan_bazaar/marketplace"
	"kisan_bazaar/storage"
)

// quietConsole drops the stderr log sink, for commands that own the terminal.
var quietConsole bool

// app is the wiring shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    storage.DocumentStore
	pipeline *marketplace.Pipeline

	closeLog func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	path := cfg.LogFile
	if logFile != "" {
		path = logFile
	}
	logger, closeLog, err := logging.New(level, path, quietConsole)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, closeLog: closeLog}

	// An incomplete configuration still yields a pipeline; every fetch and write
	// then fails with a configuration error the user can act on.
	var collection marketplace.Collection
	endpoint := ""
	if missing := cfg.Missing(); missing != "" {
		logger.Warn("Marketplace not configured", zap.String("missing", missing))
	} else {
		clients := httputil.NewClients(cfg.FetchTimeout)
		store, err := storage.Open(ctx, cfg, clients, cfg.Auth.Token)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
		}
		a.store = store
		collection = store
		endpoint = cfg.CollectionPath()
		logger.Debug("Storage opened",
			zap.String("backend", cfg.Backend),
			zap.String("target", a.storageTarget()),
			zap.String("collection", endpoint),
		)
	}

	a.pipeline = marketplace.New(marketplace.Options{
		Collection:   collection,
		Endpoint:     endpoint,
		Identity:     identity.NewTokenProvider(cfg.Auth.Token, cfg.Auth.JWTSecret),
		Categories:   cfg.Categories,
		LocationHint: cfg.UserLocation,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       logger,
	})
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Closing store", zap.Error(err))
		}
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

func (a *app) storageTarget() string {
	switch a.cfg.Backend {
	case config.BackendPostgres:
		return maskConnectionString(a.cfg.Supabase.DBURL)
	case config.BackendSQLite:
		return a.cfg.DBPath
	default:
		return a.cfg.Supabase.URL
	}
}

// userError turns a pipeline error into the message shown to the user.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(marketplace.UserMessage(err))
}

// maskConnectionString masks the password in a connection string for logging.
func maskConnectionString(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	return u.Redacted()
}
