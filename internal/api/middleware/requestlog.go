package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestLog returns echo middleware that writes one structured log line per
// request and threads a request ID through the echo context and the response
// header. Repeated successful hits on /healthz and /readyz are suppressed
// after the first one; a probe failure is always logged at WARN and re-arms
// the success log so recovery shows up in the output.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var mu sync.Mutex
	probeLogged := make(map[string]bool)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			attrs := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}

			switch {
			case !isProbePath(path):
				log.Info("request", attrs...)
			case status >= 400:
				mu.Lock()
				probeLogged[path] = false
				mu.Unlock()
				log.Warn("request", attrs...)
			default:
				mu.Lock()
				seen := probeLogged[path]
				probeLogged[path] = true
				mu.Unlock()
				if !seen {
					log.Info("request", attrs...)
				}
			}

			return err
		}
	}
}

func isProbePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}
