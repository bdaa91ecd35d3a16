package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/mentorhub/internal/app/controllers"
	appMigrations "github.com/yigit/mentorhub/internal/app/migrations"
	appRepos "github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/app/repositories/inmem"
	appRoutes "github.com/yigit/mentorhub/internal/app/routes"
	appServices "github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/config"
	"github.com/yigit/mentorhub/internal/db"
	appMiddleware "github.com/yigit/mentorhub/internal/middleware"
	pkgAuth "github.com/yigit/mentorhub/internal/pkg/auth"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
	"github.com/yigit/mentorhub/internal/pkg/logger"
	"github.com/yigit/mentorhub/internal/pkg/presence"
	"github.com/yigit/mentorhub/internal/pkg/validation"
	"github.com/yigit/mentorhub/internal/pkg/websocket"
	"github.com/yigit/mentorhub/internal/seed"
)

// Storage is the selected persistence backend
type Storage struct {
	Repos *appRepos.Repositories
	// Postgres is nil for the memory driver
	Postgres *db.PostgresDB
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s != nil && s.Postgres != nil {
		s.Postgres.Close()
	}
}

// Presence is the selected presence tracker and the client behind it
type Presence struct {
	Tracker presence.Tracker
	redis   *redis.Client
}

// Close closes the Redis client, if any
func (p *Presence) Close() error {
	if p == nil || p.redis == nil {
		return nil
	}
	return p.redis.Close()
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config   *config.Config
	Storage  *Storage
	Presence *Presence
	Clock    appServices.Clock
	Logger   zerolog.Logger

	JWTService     *pkgAuth.JWTService
	Services       *appServices.Services
	Hub            *websocket.Hub
	MessageHandler *websocket.MessageHandler
	AuthMiddleware *appMiddleware.AuthMiddleware

	AuthController     *appControllers.AuthController
	PageController     *appControllers.PageController
	UserController     *appControllers.UserController
	ScheduleController *appControllers.ScheduleController
	ChatController     *appControllers.ChatController
	ForumController    *appControllers.ForumController
	WebSocketHandler   *websocket.Handler
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("logFormat", cfg.Logging.Format).
		Str("dbDriver", cfg.Database.Driver).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured backend. For Postgres it also runs the
// migrations. Seeding is done separately by SeedDefaultData.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		return &Storage{Repos: inmem.NewRepositories()}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	return &Storage{Repos: appRepos.NewRepositories(database), Postgres: database}, nil
}

// SeedDefaultData creates the default accounts when seeding is enabled.
// Failures are logged and do not stop startup.
func SeedDefaultData(ctx context.Context, cfg *config.Config, storage *Storage, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	if err := seed.CreateDefaultData(ctx, storage.Repos, cfg.Seed.Password, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupPresence selects Redis when enabled, otherwise an in-process tracker.
func SetupPresence(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Presence, error) {
	window := helpers.ParseDuration(cfg.App.OnlineWindow, 5*time.Minute)
	if !cfg.Redis.Enabled {
		return &Presence{Tracker: presence.NewMemoryTracker(window)}, nil
	}

	client, err := presence.NewRedisClient(ctx, presence.RedisConfig{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("window", window).Msg("Presence tracked in Redis")
	return &Presence{
		Tracker: presence.NewRedisTracker(client, cfg.Redis.KeyPrefix, window),
		redis:   client,
	}, nil
}

// BuildDependencies initializes services, the websocket hub and controllers.
func BuildDependencies(cfg *config.Config, storage *Storage, pres *Presence, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps := &Dependencies{
		Config:   cfg,
		Storage:  storage,
		Presence: pres,
		Clock:    appServices.NewClock(cfg.Location(), nil),
		Logger:   lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(lgr.With().Str("component", "ws-hub").Logger())

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:    storage.Repos,
		JWT:      deps.JWTService,
		Presence: pres.Tracker,
		Notifier: deps.Hub,
		Clock:    deps.Clock,
		Logger:   lgr,

		PasswordCost: cfg.App.BcryptCost,
	})

	deps.MessageHandler = websocket.NewMessageHandler(deps.Services.Chat, deps.Hub, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.Server.LoginPath, lgr)

	// A nil *db.PostgresDB must not become a non-nil Pinger
	var pinger appControllers.Pinger
	if storage.Postgres != nil {
		pinger = storage.Postgres
	}

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth, cfg.Server.CookieSecure, lgr)
	deps.PageController = appControllers.NewPageController(pinger, pres.Tracker, lgr)
	deps.UserController = appControllers.NewUserController(deps.Services.User, lgr)
	deps.ScheduleController = appControllers.NewScheduleController(
		deps.Services.Dashboard,
		deps.Services.Meeting,
		deps.Services.Task,
		lgr,
	)
	deps.ChatController = appControllers.NewChatController(deps.Services.Chat, lgr)
	deps.ForumController = appControllers.NewForumController(deps.Services.Forum, lgr)
	deps.WebSocketHandler = websocket.NewHandler(deps.Hub, lgr)

	return deps, nil
}

// StartBackground runs the websocket hub and the inbound message handler until ctx is done
func (d *Dependencies) StartBackground(ctx context.Context) {
	go d.Hub.Run(ctx)
	d.MessageHandler.Start(ctx)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	if len(cfg.Server.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	}

	appRoutes.SetupRouter(router, appRoutes.Handlers{
		Auth:           deps.AuthController,
		Pages:          deps.PageController,
		Users:          deps.UserController,
		Schedule:       deps.ScheduleController,
		Chat:           deps.ChatController,
		Forum:          deps.ForumController,
		WebSocket:      deps.WebSocketHandler,
		AuthMiddleware: deps.AuthMiddleware,
		Presence:       appMiddleware.TrackPresence(deps.Presence.Tracker, deps.Clock.Now, lgr),
	})

	return router
}

// corsConfig allows the front end to send the access_token cookie
func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
