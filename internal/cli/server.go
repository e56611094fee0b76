package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameshow-quiz-service/internal/app"
	"gameshow-quiz-service/internal/config"
	"gameshow-quiz-service/internal/infra/memory"
	"gameshow-quiz-service/internal/infra/postgres"
	rediscache "gameshow-quiz-service/internal/infra/redis"
	"gameshow-quiz-service/internal/logger"
	"gameshow-quiz-service/internal/metrics"
	transport "gameshow-quiz-service/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the gameshow server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret not configured")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		games     app.GameRepository
		templates app.TemplateRepository
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo := postgres.NewGameRepository(pool)
		games, templates = repo, repo
	} else {
		log.Warn("postgres not configured, games are kept in memory")
		store := memory.NewGameStore(memory.GameshowTemplate())
		games, templates = store, store
	}

	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		games = rediscache.NewGameCache(redisClient, games, cacheTTL, log)
	} else {
		games = memory.NewGameCache(games, cacheTTL)
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	service := app.NewGameshowService(games, templates, log)
	router := transport.NewRouter(service, metrics.New(), log, cfg.Auth.JWTSecret)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting gameshow service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
