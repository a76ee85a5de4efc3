package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/clubrecruit/internal/app/auth"
	appControllers "github.com/yigit/clubrecruit/internal/app/controllers"
	appMigrations "github.com/yigit/clubrecruit/internal/app/migrations"
	appRepos "github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/app/repositories/memory"
	"github.com/yigit/clubrecruit/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/clubrecruit/internal/app/routes"
	appServices "github.com/yigit/clubrecruit/internal/app/services"
	"github.com/yigit/clubrecruit/internal/config"
	"github.com/yigit/clubrecruit/internal/db"
	appMiddleware "github.com/yigit/clubrecruit/internal/middleware"
	"github.com/yigit/clubrecruit/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/clubrecruit/internal/pkg/auth"
	"github.com/yigit/clubrecruit/internal/pkg/helpers"
	"github.com/yigit/clubrecruit/internal/pkg/logger"
	"github.com/yigit/clubrecruit/internal/pkg/metrics"
	"github.com/yigit/clubrecruit/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos              *appRepos.Repositories
	Metrics            *metrics.Metrics
	Gatherer           prometheus.Gatherer
	JWTService         *pkgAuth.JWTService
	AuthzService       *appAuth.AuthorizationService
	AuthService        *appServices.AuthService
	MembershipService  appServices.MembershipService
	ApplicationService appServices.ApplicationService
	ThreadService      appServices.ThreadService
	CommentService     appServices.CommentService
	Controllers        appRoutes.Controllers
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured storage driver. For postgres it also runs migrations;
// the returned close function releases the pool.
func SetupStorage(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, func(), error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage; data is lost on restart")
		return memory.NewRepositories(memory.NewStore()), func() {}, nil

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		migrationsDir := cfg.Database.MigrationsDir
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			database.Close()
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrator"))
		if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		return postgres.NewRepositories(database), database.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// BuildDependencies initializes services, controllers and middleware on top of repos.
// reg receives the application metrics and is served on the metrics endpoint.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, reg *prometheus.Registry, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Repos:    repos,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Logger:   lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.DurationOr("jwt.access_token_expiration", cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(
		repos.Clubs,
		repos.OpenRoles,
		repos.Applications,
		deps.Metrics,
		logger.Component("authz"),
	)

	deps.AuthService = appServices.NewAuthService(repos.Users, deps.JWTService, logger.Component("auth"))
	deps.MembershipService = appServices.NewMembershipService(repos, deps.Metrics, logger.Component("membership"))
	deps.ApplicationService = appServices.NewApplicationService(repos, deps.Metrics, logger.Component("recruitment"))
	deps.ThreadService = appServices.NewThreadService(repos, deps.AuthzService, deps.Metrics, logger.Component("threads"))
	deps.CommentService = appServices.NewCommentService(repos, deps.AuthzService, deps.Metrics, logger.Component("comments"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		Club:        appControllers.NewClubController(deps.MembershipService),
		Application: appControllers.NewApplicationController(deps.ApplicationService),
		Thread:      appControllers.NewThreadController(deps.ThreadService),
		Comment:     appControllers.NewCommentController(deps.CommentService),
	}

	return deps
}

// SeedDemoData creates the demo club when enabled in config. Failures are logged only.
func SeedDemoData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Seed.DemoData {
		return
	}
	err := seed.CreateDemoData(ctx, seed.Services{
		Auth:        deps.AuthService,
		Membership:  deps.MembershipService,
		Application: deps.ApplicationService,
	}, cfg.Seed.Password, time.Now(), logger.Component("seed"))
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.ContextWithFallback = true
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.Metrics(deps.Metrics))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	router.NoRoute(func(c *gin.Context) {
		appMiddleware.HandleAPIError(c, apperrors.NewResourceNotFoundError("no route for "+c.Request.Method+" "+c.Request.URL.Path))
	})

	return router
}
