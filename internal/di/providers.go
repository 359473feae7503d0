package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/firstrankcoders/credential-service/internal/app"
	"github.com/firstrankcoders/credential-service/internal/config"
	"github.com/firstrankcoders/credential-service/internal/database"
	"github.com/firstrankcoders/credential-service/internal/health"
	"github.com/firstrankcoders/credential-service/internal/http/handler"
	"github.com/firstrankcoders/credential-service/internal/http/router"
	"github.com/firstrankcoders/credential-service/internal/messaging"
	"github.com/firstrankcoders/credential-service/internal/observability"
	"github.com/firstrankcoders/credential-service/internal/repository"
	"github.com/firstrankcoders/credential-service/internal/security"
	"github.com/firstrankcoders/credential-service/internal/service"
)

const serviceDisplayName = "Credential Service"

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	providePublisher,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewAuthRecordRepository,
	repository.NewUserProfileRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
	providePasswordHasher,
)

var ServiceSet = wire.NewSet(
	provideVerificationNotifier,
	providePasswordResetNotifier,
	provideProfileCacheStore,
	provideUserService,
	service.NewAuthService,
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	provideBannerHandler,
	handler.NewHealthHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	logger := observability.InitLogger(cfg, runtime.LoggerProvider)
	observability.WarnInsecureDefaults(cfg, logger)
	return logger
}

// provideRuntimeDB opens the database, applies the schema and seeds the optional dev account.
func provideRuntimeDB(cfg *config.Config, hasher *security.PasswordHasher) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if cfg.SeedDevAccountEmail == "" {
		return db, nil
	}
	hash, err := hasher.Hash(cfg.SeedDevAccountPassword)
	if err != nil {
		return nil, fmt.Errorf("hash dev account password: %w", err)
	}
	if _, err := database.SeedDevAccount(db, cfg.SeedDevAccountEmail, hash); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

// providePublisher returns nil when AMQP delivery is disabled.
func providePublisher(cfg *config.Config, logger *slog.Logger) (*messaging.Publisher, error) {
	if !cfg.NotificationsAMQPEnabled {
		return nil, nil
	}
	return messaging.NewPublisher(cfg.NotificationsAMQPURL, cfg.NotificationsAMQPExchange, logger)
}

func provideVerificationNotifier(pub *messaging.Publisher, logger *slog.Logger) service.EmailVerificationNotifier {
	if pub != nil {
		return pub
	}
	return service.NewLogNotifier(logger)
}

func providePasswordResetNotifier(pub *messaging.Publisher, logger *slog.Logger) service.PasswordResetNotifier {
	if pub != nil {
		return pub
	}
	return service.NewLogNotifier(logger)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
}

func providePasswordHasher(cfg *config.Config) *security.PasswordHasher {
	return security.NewPasswordHasher(cfg.PasswordHashCost)
}

func provideProfileCacheStore(cfg *config.Config, redisClient redis.UniversalClient) service.UserProfileCacheStore {
	switch {
	case !cfg.UserProfileCacheEnabled:
		return service.NewNoopUserProfileCacheStore()
	case redisClient != nil:
		return service.NewRedisUserProfileCacheStore(redisClient, "credential_service:profile_cache")
	default:
		return service.NewInMemoryUserProfileCacheStore()
	}
}

func provideUserService(
	cfg *config.Config,
	profiles repository.UserProfileRepository,
	cache service.UserProfileCacheStore,
	logger *slog.Logger,
) *service.UserService {
	return service.NewUserService(profiles, cache, cfg.UserProfileCacheTTL, logger)
}

func provideBannerHandler() *handler.BannerHandler {
	return handler.NewBannerHandler(serviceDisplayName)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	bannerHandler *handler.BannerHandler,
	healthHandler *handler.HealthHandler,
	jwt *security.JWTManager,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		BannerHandler:  bannerHandler,
		HealthHandler:  healthHandler,
		JWTManager:     jwt,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		EnableOTelHTTP: cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(
	cfg *config.Config,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	pub *messaging.Publisher,
) *health.ProbeRunner {
	checkers := []health.Checker{health.NewDBChecker(db)}
	if cfg.RedisEnabled {
		checkers = append(checkers, health.NewRedisChecker(redisClient))
	}
	if pub != nil {
		checkers = append(checkers, health.NewFuncChecker("amqp", pub.Ping))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, 0, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	pub *messaging.Publisher,
) *app.App {
	a := app.New(cfg, logger, server, runtime)
	a.DB = db
	a.Redis = redisClient
	if pub != nil {
		a.Publisher = pub
	}
	return a
}
