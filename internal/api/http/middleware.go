package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/observability"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// RegisterMiddlewares installs the request deadline, the access log and the
// error renderer. The logger wraps the renderer so it sees the final status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", observability.RequestID(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			domainErr := toResponseError(err)
			metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

			body := fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}
			if len(domainErr.Details) > 0 {
				body["details"] = domainErr.Details
			}
			if id := observability.RequestID(c); id != "" {
				body["requestId"] = id
			}
			if domainErr.HTTPStatus >= 500 {
				logger.Error("request failed",
					zap.String("request_id", observability.RequestID(c)),
					zap.String("code", domainErr.Code),
					zap.Error(err),
				)
			}
			c.Status(domainErr.HTTPStatus)
			_ = c.JSON(fiber.Map{"error": body})
			err = nil
		}()
		return c.Next()
	}
}

// toResponseError maps an unclassified request deadline to 504.
func toResponseError(err error) *apperrors.DomainError {
	var de *apperrors.DomainError
	if !errors.As(err, &de) && errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDomainError("REQUEST_TIMEOUT", "request timed out", fiber.StatusGatewayTimeout, nil)
	}
	return apperrors.ToDomainError(err)
}
