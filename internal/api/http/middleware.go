package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/institute-service/internal/observability"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// MiddlewareConfig controls the global middleware chain.
type MiddlewareConfig struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Timeout time.Duration
	// Debug adds the underlying cause and panic stacks to error bodies.
	Debug bool
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app.Use(observability.RequestLogger(logger, cfg.Metrics))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(logger, cfg.Metrics, cfg.Debug))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, debugInfo bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		var stack []byte
		defer func() {
			if r := recover(); r != nil {
				stack = debug.Stack()
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", stack))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err == nil {
				return
			}

			domainErr := toDomainError(err)
			metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("path", c.Path()),
					zap.String("code", domainErr.Code),
					zap.Error(domainErr))
			}

			errBody := fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}
			if len(domainErr.Details) > 0 {
				errBody["details"] = domainErr.Details
			}
			response := fiber.Map{
				"success": false,
				"message": domainErr.Message,
				"error":   errBody,
			}
			if debugInfo && (domainErr.Err != nil || stack != nil) {
				dbg := fiber.Map{}
				if domainErr.Err != nil {
					dbg["cause"] = domainErr.Err.Error()
				}
				if stack != nil {
					dbg["stack"] = string(stack)
				}
				response["debug"] = dbg
			}

			c.Status(domainErr.HTTPStatus)
			err = c.JSON(response)
		}()
		return c.Next()
	}
}

func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.FromStatus(fiberErr.Code, fiberErr.Message)
	}
	return apperrors.ToDomainError(err)
}
