package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ErrorReporter receives recovered panics.
type ErrorReporter interface {
	Capture(ctx context.Context, err error, tags map[string]string)
}

func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return RecoveryWithReporter(logger, nil)
}

// RecoveryWithReporter turns a panic into a 500 response, logs the stack
// and forwards the panic to reporter when it is not nil.
func RecoveryWithReporter(logger zerolog.Logger, reporter ErrorReporter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)

					logger.Error().
						Str("request_id", fmt.Sprintf("%v", c.Get("request_id"))).
						Str("panic", fmt.Sprintf("%v", r)).
						Str("stack", string(stack[:n])).
						Msg("panic recovered")

					if reporter != nil {
						perr, ok := r.(error)
						if !ok {
							perr = fmt.Errorf("panic: %v", r)
						}
						reporter.Capture(c.Request().Context(), perr, map[string]string{
							"path":   c.Path(),
							"method": c.Request().Method,
						})
					}

					err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
			}()
			return next(c)
		}
	}
}
