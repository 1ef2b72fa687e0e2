package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/football_store/pkg/logging"
	authmw "github.com/Skotchmaster/football_store/pkg/middleware/auth"
)

type Config struct {
	Logger *slog.Logger
	// QuietPaths log successful requests at debug level, e.g. health probes.
	QuietPaths []string
}

func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return RequestLoggerWithConfig(Config{Logger: base})
}

// RequestLoggerWithConfig puts a request-scoped logger into the request context
// and writes one http_request line when the handler returns.
func RequestLoggerWithConfig(cfg Config) echo.MiddlewareFunc {
	base := cfg.Logger
	if base == nil {
		base = slog.Default()
	}
	quiet := make(map[string]struct{}, len(cfg.QuietPaths))
	for _, p := range cfg.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"path", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			if userID, uerr := authmw.UserID(c); uerr == nil {
				attrs = append(attrs, "user_id", userID.String())
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
				if err != nil {
					attrs = append(attrs, "error", err.Error())
				}
			case status >= 400:
				level = slog.LevelWarn
			default:
				if _, ok := quiet[req.URL.Path]; ok {
					level = slog.LevelDebug
				}
			}
			l.Log(req.Context(), level, "http_request", attrs...)
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
