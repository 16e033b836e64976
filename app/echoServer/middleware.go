// app/echoServer/middleware.go
package echoServer

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ashraf-g/book-review-api/app/echoServer/jwtx"
	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/apperr"
	"github.com/ashraf-g/book-review-api/util/jwt"
	"github.com/ashraf-g/book-review-api/util/metrics"
)

const (
	msgTokenInvalid = "Invalid or expired token. Please log in again to continue."
	msgRateLimited  = "Too many requests from this IP, please try again later."
)

type MiddlewareConfig struct {
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
}

func RegisterMiddlewares(e *echo.Echo, log *slog.Logger, cfg MiddlewareConfig) {

	// request id first so the access log sees it, and the access log
	// outside Recover so panicking requests are still logged
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(Slog(log))
	e.Use(middleware.Recover())
	e.Use(Metrics())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(middleware.Secure())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 1024,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("X-No-Compression") != ""
		},
	}))
	e.Use(middleware.BodyLimit("1M"))

	if cfg.RateLimit > 0 {
		e.Use(RateLimit(cfg.RateLimit, cfg.RateWindow))
	}
}

func Slog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// resolve the status before logging it
				c.Error(err)
			}
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			log.Info("http",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return nil
		}
	}
}

// Metrics records request count and latency per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.TrackActiveRequest(true)
			defer metrics.TrackActiveRequest(false)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
			return nil
		}
	}
}

type TokenVerifier interface {
	Verify(token string) (model.Identity, error)
}

// JWTAuth rejects requests without a valid bearer token and attaches the
// caller identity for the handlers behind it.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  jwtx.EchoKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return v.Verify(auth)
		},
		SuccessHandler: func(c echo.Context) {
			if id, ok := c.Get(jwtx.EchoKey).(model.Identity); ok {
				jwtx.Attach(c, id)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, jwt.ErrInvalidToken) || errors.Is(err, echojwt.ErrJWTInvalid) {
				metrics.RecordAuthFailure("invalid_token")
				return apperr.Wrap(apperr.ErrUnauthorized, msgTokenInvalid, err)
			}
			metrics.RecordAuthFailure("missing_token")
			return apperr.Wrap(apperr.ErrUnauthorized, jwtx.MsgTokenMissing, err)
		},
	})
}

type rateLimitBody struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	RetryAfter string `json:"retryAfter"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
}

// RateLimit allows requests per window for each client IP.
func RateLimit(requests int, window time.Duration) echo.MiddlewareFunc {
	return echo.WrapMiddleware(httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded),
	))
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	limit, _ := strconv.Atoi(h.Get("X-RateLimit-Limit"))
	remaining, _ := strconv.Atoi(h.Get("X-RateLimit-Remaining"))

	retry := h.Get("Retry-After")
	if retry == "" {
		if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			retry = strconv.FormatInt(max(reset-time.Now().Unix(), 0), 10)
		} else {
			retry = "0"
		}
	}

	h.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(rateLimitBody{
		Status:     "fail",
		Message:    msgRateLimited,
		RetryAfter: retry + " seconds",
		Limit:      limit,
		Remaining:  remaining,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       r.URL.RequestURI(),
		Method:     r.Method,
	})
}
