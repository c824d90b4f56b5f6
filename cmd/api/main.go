package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/storefront/shop-api/docs"
	"github.com/storefront/shop-api/internal/api"
	"github.com/storefront/shop-api/internal/api/middleware"
	"github.com/storefront/shop-api/internal/core/ports"
	"github.com/storefront/shop-api/internal/core/service"
	"github.com/storefront/shop-api/internal/infrastructure/catalog"
	"github.com/storefront/shop-api/internal/infrastructure/db/file"
	"github.com/storefront/shop-api/internal/infrastructure/db/mongo"
	"github.com/storefront/shop-api/internal/infrastructure/db/redis"
	"github.com/storefront/shop-api/internal/infrastructure/db/userstore"
	infrahttp "github.com/storefront/shop-api/internal/infrastructure/http"
	"github.com/storefront/shop-api/internal/infrastructure/http/handlers"
	"github.com/storefront/shop-api/internal/infrastructure/security"
	"github.com/storefront/shop-api/internal/pkg/config"
	"github.com/storefront/shop-api/pkg/logger"
)

const (
	serviceName = "storefront-api"
	version     = "1.0.0"
)

// @title        Storefront API
// @version      1.0
// @description  Product catalog, accounts and orders for the storefront.
// @BasePath     /api
func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	// --- Optional MongoDB ---
	var (
		dbRepo      ports.UserRepository
		mongoClient *mongodriver.Client
	)
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			Timeout:     cfg.Mongo.Timeout,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
			MinPoolSize: cfg.Mongo.MinPoolSize,
		})
		if err != nil {
			log.Error().Err(err).Msg("mongodb client unavailable, using file store only")
		} else {
			mongoClient = client
			repo := mongo.NewUserRepository(db, cfg.Mongo.Timeout)
			if err := mongo.Ping(ctx, client, cfg.Mongo.Timeout); err != nil {
				log.Warn().Err(err).Msg("mongodb not reachable yet, requests will fall back to the file store")
			} else if err := repo.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure user indexes")
			}
			dbRepo = repo
			log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb user store enabled")
		}
	}

	// --- Optional Redis ---
	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login rate limiting disabled")
		} else {
			redisClient = client
		}
	}

	// --- Dependencies ---
	users := userstore.New(dbRepo, file.NewUserRepository(cfg.Storage.UsersFile, log), log)
	products := catalog.New(cfg.Storage.CatalogPaths, log)
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	deps := api.Deps{
		Log:          log,
		Prefix:       cfg.APIPrefix,
		ExposeErrors: cfg.IsDevelopment(),
		Auth:         service.NewAuthService(users, hasher, log),
		Products:     service.NewProductService(products),
		Ops: infrahttp.Ops{
			Service:       serviceName,
			Version:       version,
			Dependencies:  dependencies(mongoClient, redisClient),
			UserStoreMode: users.Mode(),
			CatalogSource: products.Source,
		},
	}
	if redisClient != nil {
		deps.LoginLimiter = loginLimiter(redisClient, cfg)
	}

	e, err := api.NewRouter(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid route table")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("user_store", users.Mode()).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	closeClients(shutdownCtx, log, mongoClient, redisClient)

	log.Info().Msg("server stopped")
}

func loginLimiter(client *goredis.Client, cfg *config.Config) middleware.Limiter {
	return redis.NewAttemptLimiter(client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
}

// dependencies lists the optional backing services for the readiness probe.
func dependencies(mc *mongodriver.Client, rc *goredis.Client) []handlers.Dependency {
	deps := []handlers.Dependency{{Name: "mongodb"}, {Name: "redis"}}
	if mc != nil {
		deps[0].Check = func(ctx context.Context) error { return mc.Ping(ctx, nil) }
	}
	if rc != nil {
		deps[1].Check = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}
	return deps
}

func closeClients(ctx context.Context, log zerolog.Logger, mc *mongodriver.Client, rc *goredis.Client) {
	if mc != nil {
		if err := mc.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}
	if rc != nil {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}
}
