package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/institute-service/internal/api/http"
	"github.com/spec-kit/institute-service/internal/api/http/handlers"
	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/config"
	"github.com/spec-kit/institute-service/internal/events"
	"github.com/spec-kit/institute-service/internal/observability"
	"github.com/spec-kit/institute-service/internal/otp"
	"github.com/spec-kit/institute-service/internal/persistence"
	"github.com/spec-kit/institute-service/internal/repository"
	"github.com/spec-kit/institute-service/internal/repository/memory"
	"github.com/spec-kit/institute-service/internal/service"
	"github.com/spec-kit/institute-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	repos, err := repositories(ctx, cfg, pg, logger)
	if err != nil {
		return err
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification, cfg.App), logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: repos.users,
		RoleRepo: repos.roles,
		Tokens:   tokens,
		Hasher:   hasher,
	})
	userService := service.NewUserService(repos.users)
	roleService := service.NewRoleService(repos.roles, repos.users, dispatcher)
	courseService := service.NewCourseService(repos.courses, repos.users, repos.roles, dispatcher)
	donationService := service.NewDonationService(repos.donations, repos.users, dispatcher, logger)
	otpService := otp.NewService(otp.NewRedisStore(redis.Client), logger, metrics)
	resetService := service.NewPasswordResetService(repos.users, otpService, hasher, dispatcher, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:  logger,
		Metrics: metrics,
		Timeout: cfg.App.RequestTimeout(),
		Debug:   !cfg.App.IsProduction(),
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, userService, cfg.Auth.CookieSecure),
		PasswordReset:  handlers.NewPasswordResetHandler(resetService),
		Users:          handlers.NewUsersHandler(userService, authService),
		Roles:          handlers.NewRolesHandler(roleService),
		Courses:        handlers.NewCoursesHandler(courseService),
		Donations:      handlers.NewDonationsHandler(donationService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Permissions:    auth.DefaultPermissionTable(),
		Metrics:        metrics,
	})

	done := make(chan error, 1)
	go func() {
		done <- app.Listen(cfg.App.Addr())
	}()
	logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-done:
		return err
	}
}

type stores struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	courses   repository.CourseRepository
	donations repository.DonationRepository
}

// repositories picks the Postgres stores, or in-memory ones for local runs without a DSN.
func repositories(ctx context.Context, cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) (*stores, error) {
	pool := pg.PoolHandle()
	if pool == nil {
		if cfg.App.IsProduction() {
			return nil, errors.New("POSTGRES_DSN is required in production")
		}
		logger.Warn("using in-memory stores; data is lost on restart")
		users := memory.NewUserRepository()
		return &stores{
			users:     users,
			roles:     memory.NewRoleRepository(users),
			courses:   memory.NewCourseRepository(users),
			donations: memory.NewDonationRepository(),
		}, nil
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return &stores{
		users:     repository.NewUserRepository(pool),
		roles:     repository.NewRoleRepository(pool),
		courses:   repository.NewCourseRepository(pool),
		donations: repository.NewDonationRepository(pool),
	}, nil
}
