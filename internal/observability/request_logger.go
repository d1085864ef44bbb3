package observability

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// RequestLogger logs every request once it has been handled and feeds the
// HTTP collectors. Errors are resolved here the same way the error handler
// resolves them so the logged status matches the response.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		code := ""
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				de := apperrors.ToDomainError(err)
				status = de.HTTPStatus
				code = de.Code
			}
		}

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request failed", append(fields, zap.Error(err))...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request", fields...)
		}

		metrics.RecordRequest(path, c.Method(), status, elapsed)
		if code != "" {
			metrics.RecordError(path, c.Method(), code)
		}
		return err
	}
}
