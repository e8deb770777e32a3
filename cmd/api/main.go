package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/instaclone/api/internal/auth"
	"github.com/instaclone/api/internal/auth/password"
	"github.com/instaclone/api/internal/auth/token"
	"github.com/instaclone/api/internal/config"
	"github.com/instaclone/api/internal/database"
	"github.com/instaclone/api/internal/logger"
	"github.com/instaclone/api/internal/server"
	"github.com/instaclone/api/internal/telemetry"
	"github.com/instaclone/api/internal/user"
)

const serviceName = "instaclone-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault(serviceName).Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log := logger.New(cfg.Logging, serviceName)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		provider, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName: serviceName,
			Environment: cfg.Application.Environment,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			SampleRate:  cfg.Telemetry.SampleRate,
		})
		if err != nil {
			log.Fatal("Failed to initialize telemetry", map[string]interface{}{"error": err.Error()})
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Warn("Telemetry shutdown failed", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	dsn := cfg.Database.DSN()
	if err := database.Migrate(ctx, dsn); err != nil {
		log.Fatal("Failed to run migrations", map[string]interface{}{"error": err.Error()})
	}

	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	defer pool.Close()

	keys := token.Config{
		PrivateKey: cfg.JWT.PrivateKey,
		PublicKey:  cfg.JWT.PublicKey,
	}

	users := user.NewPostgresRepository(pool)
	hasher := password.NewHasher(cfg.Password)
	service := auth.NewService(users, hasher, keys)
	authenticator := auth.NewAuthenticator(keys)

	serverCfg := server.Config{
		Host:    cfg.Application.Host,
		Port:    cfg.Application.Port,
		Tracing: cfg.Telemetry.Enabled,
	}
	router := server.NewRouter(serverCfg, server.NewAuthHandler(service, log), authenticator, log)

	srv := server.New(serverCfg, router, log)
	if err := srv.Start(); err != nil {
		log.Fatal("Failed to start server", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Server started", map[string]interface{}{
		"host": cfg.Application.Host,
		"port": cfg.Application.Port,
		"env":  cfg.Application.Environment,
	})

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
