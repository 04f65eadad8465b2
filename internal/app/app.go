package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	structValidator "github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/haguru/jiraiya/config"
	"github.com/haguru/jiraiya/internal/auth"
	"github.com/haguru/jiraiya/internal/interfaces"
	apimetrics "github.com/haguru/jiraiya/internal/metrics"
	"github.com/haguru/jiraiya/internal/middleware"
	mongoPostRepo "github.com/haguru/jiraiya/internal/postrepo/mongo"
	postgresPostRepo "github.com/haguru/jiraiya/internal/postrepo/postgres"
	sqlitePostRepo "github.com/haguru/jiraiya/internal/postrepo/sqlite"
	"github.com/haguru/jiraiya/internal/postservice"
	"github.com/haguru/jiraiya/internal/routes"
	"github.com/haguru/jiraiya/internal/server"
	mongoUserRepo "github.com/haguru/jiraiya/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/jiraiya/internal/userrepo/postgres"
	sqliteUserRepo "github.com/haguru/jiraiya/internal/userrepo/sqlite"
	"github.com/haguru/jiraiya/internal/userservice"
	"github.com/haguru/jiraiya/pkg/databases/mongo"
	"github.com/haguru/jiraiya/pkg/databases/postgres"
	"github.com/haguru/jiraiya/pkg/databases/sqlite"
	"github.com/haguru/jiraiya/pkg/metrics"
	"github.com/haguru/jiraiya/pkg/zerolog"
)

var (
	// StartupTimeout bounds connecting to and migrating the database.
	StartupTimeout = 30 * time.Second
	// ShutdownTimeout bounds draining in-flight requests.
	ShutdownTimeout = 15 * time.Second
)

// App represents the main application, containing server and configuration.
// It initializes with a config file, validates settings, and manages routes.
type App struct {
	Server   *server.Server
	Config   *config.ServiceConfig
	Logger   interfaces.Logger
	Metrics  interfaces.Metrics
	dbClient interfaces.DBClient
}

// storage groups the repositories of one backend with the client they share.
type storage struct {
	client interfaces.DBClient
	users  interfaces.UserRepository
	posts  interfaces.PostRepository
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnvOverrides(cfg)

	return NewAppFromConfig(cfg)
}

// NewAppFromConfig validates cfg and wires every component. The database is
// connected and migrated before it returns.
func NewAppFromConfig(cfg *config.ServiceConfig) (*App, error) {
	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		var validationErrors structValidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validation error: %s", validationErrors)
		}
		return nil, fmt.Errorf("validation error: %w", err)
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: newMetrics(cfg.ServiceName),
	}

	tokens, err := app.initializeTokenManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), StartupTimeout)
	defer cancel()

	store, err := app.initializeStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.dbClient = store.client

	userService, err := userservice.NewUserService(store.users, auth.NewBcryptHasher(cfg.Token.BcryptCost), logger)
	if err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize user service: %w", err)
	}
	postService := postservice.NewPostService(store.posts, logger)

	route := routes.NewRoute(app.Metrics, userService, postService, tokens, validator, logger, store.client)

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger)
	app.Server.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, app.Metrics),
	)

	if err := route.Register(app.Server, app.loginRateLimit()); err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return app, nil
}

// Run serves until SIGINT or SIGTERM, then drains requests and closes the database.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return app.RunContext(ctx)
}

// RunContext serves until ctx is done or the server fails.
func (app *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.ListenAndServe()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Server shutdown failed", "error", err)
		}
		serveErr = <-errCh
	}

	if err := app.Close(context.Background()); err != nil {
		app.Logger.Error("Failed to close database", "error", err)
	}
	app.Logger.Info("Server exited")

	return serveErr
}

// Close disconnects the database.
func (app *App) Close(ctx context.Context) error {
	if app.dbClient == nil {
		return nil
	}
	return app.dbClient.Disconnect(ctx)
}

func newMetrics(serviceName string) interfaces.Metrics {
	appMetrics := metrics.NewMetrics(serviceName)
	apimetrics.RegisterAPIMetrics(appMetrics)
	return appMetrics
}

func (app *App) initializeTokenManager() (interfaces.TokenManager, error) {
	tokenCfg := app.Config.Token

	switch tokenCfg.Algorithm {
	case auth.AlgorithmES256:
		privateKey, err := auth.LoadECDSAPrivateKey(tokenCfg.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}
		return auth.NewECDSAManager(privateKey, auth.WithIssuer(tokenCfg.Issuer))
	case auth.AlgorithmHS256:
		return auth.NewHMACManager([]byte(tokenCfg.SecretKey), auth.WithIssuer(tokenCfg.Issuer))
	default:
		return nil, fmt.Errorf("unsupported signing algorithm: %s", tokenCfg.Algorithm)
	}
}

func (app *App) initializeStorage(ctx context.Context) (*storage, error) {
	dbCfg := app.Config.Database

	var (
		client interfaces.DBClient
		build  func() (interfaces.UserRepository, interfaces.PostRepository, error)
	)
	switch dbCfg.Type {
	case "sqlite":
		c := sqlite.NewSQLiteDatabaseClient(app.Logger)
		client = c
		build = func() (interfaces.UserRepository, interfaces.PostRepository, error) {
			users, err := sqliteUserRepo.NewSQLiteUserRepository(c)
			if err != nil {
				return nil, nil, err
			}
			posts, err := sqlitePostRepo.NewSQLitePostRepository(c)
			return users, posts, err
		}

	case "postgres":
		opts := dbCfg.Postgres.Options
		c := postgres.NewPostgresDatabaseClient(opts.MaxOpenConns, opts.MaxIdleConns, opts.ConnMaxLifetime, app.Logger)
		client = c
		build = func() (interfaces.UserRepository, interfaces.PostRepository, error) {
			users, err := postgresUserRepo.NewPostgresUserRepository(c)
			if err != nil {
				return nil, nil, err
			}
			posts, err := postgresPostRepo.NewPostgresPostRepository(c)
			return users, posts, err
		}

	case "mongo":
		c := mongo.NewMongoDB(&dbCfg.MongoDB, app.Logger)
		client = c
		build = func() (interfaces.UserRepository, interfaces.PostRepository, error) {
			users, err := mongoUserRepo.NewMongoUserRepository(c)
			if err != nil {
				return nil, nil, err
			}
			posts, err := mongoPostRepo.NewMongoPostRepository(c)
			return users, posts, err
		}

	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbCfg.Type)
	}

	if err := client.Connect(ctx, dbCfg.DSN()); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dbCfg.Type, err)
	}

	users, posts, err := build()
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create %s repositories: %w", dbCfg.Type, err)
	}

	return ensureIndices(ctx, &storage{client: client, users: users, posts: posts})
}

func ensureIndices(ctx context.Context, s *storage) (*storage, error) {
	if err := s.users.EnsureIndices(ctx); err != nil {
		_ = s.client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ensure user indices: %w", err)
	}
	if err := s.posts.EnsureIndices(ctx); err != nil {
		_ = s.client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ensure post indices: %w", err)
	}
	return s, nil
}

// loginRateLimit returns nil when rate limiting is disabled.
func (app *App) loginRateLimit() routes.Middleware {
	rl := app.Config.RateLimit
	if rl.LoginRPS <= 0 {
		return nil
	}
	burst := rl.LoginBurst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rl.LoginRPS), burst)
	return middleware.RateLimitMiddleware(limiter, func() {
		app.Metrics.IncCounter(apimetrics.LoginRateLimitedTotal)
	})
}
