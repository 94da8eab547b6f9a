package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mcoot/minigolf-go/internal/api"
	"github.com/mcoot/minigolf-go/internal/config"
	"github.com/mcoot/minigolf-go/internal/factory"
	"github.com/mcoot/minigolf-go/internal/logging"
	"github.com/mcoot/minigolf-go/internal/services/room"
	redisstorage "github.com/mcoot/minigolf-go/internal/storage/redis"
	"github.com/mcoot/minigolf-go/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.Init(logging.Config{
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Env:       logging.ParseEnv(cfg.Logging.Env),
		Backend:   logging.Backend(strings.ToLower(cfg.Logging.Backend)),
		Level:     logging.ParseLevel(cfg.Logging.Level),
		AddSource: cfg.Logging.AddSource,
	})

	// Build factory config
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		RoomConfig: room.Config{
			BcryptCost: cfg.Rooms.BcryptCost,
			IdleTTL:    cfg.Rooms.IdleTTL,
		},
	}
	if cfg.Storage.Type == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close application", slog.String("error", err.Error()))
		}
	}()

	if _, err := os.Stat(cfg.Server.StaticDir); err != nil {
		logger.Warn("static directory not found", slog.String("dir", cfg.Server.StaticDir))
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Controller: app.Controller,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:     logger,
		Controller: app.Controller,
		Hub:        app.Hub,
		HubManager: app.HubManager,
		StaticDir:  cfg.Server.StaticDir,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle(api.PathPrefix+"/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	server := api.NewServer(mux, serverConfig, logger)

	// Upgraded sockets and open streams are not closed by http.Server
	server.OnShutdown(app.Hub.CloseAll)
	server.OnShutdown(app.HubManager.Close)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Controller.RunJanitor(ctx, cfg.Rooms.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
