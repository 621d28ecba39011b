package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/emporium/internal/auth"
	"github.com/BradenHooton/emporium/internal/background"
	"github.com/BradenHooton/emporium/internal/config"
	"github.com/BradenHooton/emporium/internal/database"
	"github.com/BradenHooton/emporium/internal/handlers"
	middlewareCustom "github.com/BradenHooton/emporium/internal/middleware"
	"github.com/BradenHooton/emporium/internal/repositories"
	"github.com/BradenHooton/emporium/internal/routes"
	"github.com/BradenHooton/emporium/internal/services"
	pkgauth "github.com/BradenHooton/emporium/pkg/auth"
	pkghttp "github.com/BradenHooton/emporium/pkg/http"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
)

// store bundles the repositories of whichever backend STORE_DRIVER selects
type store struct {
	users    services.UserRepository
	products services.ProductRepository
	health   handlers.HealthChecker
	close    func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("store", cfg.Store.Driver),
	)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStore(startCtx, cfg, logger)
	startCancel()
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.close(ctx); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	hasher := pkgauth.NewBcryptHasher(cfg.Auth.BcryptCost)
	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Login gate
	verifier, err := auth.NewCredentialVerifier(st.users, hasher)
	if err != nil {
		logger.Error("failed to initialize credential verifier", slog.Any("error", err))
		os.Exit(1)
	}
	tracker := auth.NewAttemptTracker(auth.AttemptConfig{
		MaxFailures: cfg.Auth.MaxFailedAttempts,
		Window:      cfg.Auth.LockoutWindow,
	})
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	gate := auth.NewLoginGate(tracker, verifier, tokenManager, logger)
	gate.SetTimingDelay(auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.FailureDelayMs,
		RandomDelayMs: cfg.Auth.FailureJitterMs,
	}))
	gate.SetLockoutNotifier(newLockoutNotifier(cfg, logger))

	// Services and handlers
	userService := services.NewUserService(st.users, hasher, logger)
	productService := services.NewProductService(st.products, logger)

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	ensureAdminUser(bootstrapCtx, cfg, userService, logger)
	bootstrapCancel()

	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	loginLimit := middlewareCustom.DefaultLoginRateLimit()
	loginLimit.RequestsPerMinute = cfg.Auth.LoginRatePerMinute
	loginLimit.IPConfig = ipConfig
	apiLimit := middlewareCustom.DefaultAuthenticatedRateLimit()
	apiLimit.IPConfig = ipConfig

	routes.RegisterRoutes(router, routes.Dependencies{
		AuthHandler:    handlers.NewAuthHandler(gate, auditLogger, ipConfig),
		UserHandler:    handlers.NewUserHandler(userService, auditLogger, ipConfig),
		ProductHandler: handlers.NewProductHandler(productService, auditLogger, ipConfig),
		HealthHandler:  handlers.NewHealthHandler(st.health, logger),
		Tokens:         tokenManager,
		Users:          st.users,
		LoginRateLimit: loginLimit,
		APIRateLimit:   apiLimit,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start attempt sweeper
	cleanupManager := background.NewCleanupManager(tracker, logger, cfg.Auth.AttemptSweepPeriod)
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		return
	}

	logger.Info("server stopped gracefully")
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if err := database.Migrate(ctx, cfg.Database.DSN(), logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := database.NewConnection(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return &store{
			users:    repositories.NewPostgresUserRepository(db),
			products: repositories.NewPostgresProductRepository(db),
			health:   db,
			close:    db.Close,
		}, nil

	case config.StoreMongo:
		db, err := database.NewMongoConnection(ctx, &cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		return &store{
			users:    repositories.NewMongoUserRepository(db),
			products: repositories.NewMongoProductRepository(db),
			health:   db,
			close:    db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newLockoutNotifier(cfg *config.Config, logger *slog.Logger) auth.LockoutNotifier {
	if !cfg.Email.LockoutAlertsEnabled {
		return services.NewLogLockoutNotifier(logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notifier, err := services.NewSESLockoutNotifier(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, cfg.Auth.LockoutWindow, logger)
	if err != nil {
		logger.Warn("SES unavailable, lockout alerts will only be logged", slog.Any("error", err))
		return services.NewLogLockoutNotifier(logger)
	}
	return notifier
}

// ensureAdminUser creates the first admin account when ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminUser(ctx context.Context, cfg *config.Config, users *services.UserService, logger *slog.Logger) {
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
		return
	}

	created, err := users.EnsureAdmin(ctx, "Admin", cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	if err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
		return
	}
	if created {
		logger.Info("admin user created", slog.String("email", pkglogger.SanitizedEmail(cfg.Auth.AdminEmail)))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
