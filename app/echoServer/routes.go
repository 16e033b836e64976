package echoServer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ashraf-g/book-review-api/app/echoServer/controller/auth"
	"github.com/ashraf-g/book-review-api/app/echoServer/controller/book"
	"github.com/ashraf-g/book-review-api/app/echoServer/controller/review"
	"github.com/ashraf-g/book-review-api/app/echoServer/validation"
	_ "github.com/ashraf-g/book-review-api/docs"
)

type C struct {
	Auth   *auth.Controller
	Book   *book.Controller
	Review *review.Controller

	Tokens  TokenVerifier
	BaseURL string
}

// New returns an echo instance with the JSON codec, validator, error
// handler and middleware chain installed.
func New(log *slog.Logger, cfg MiddlewareConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	RegisterMiddlewares(e, log, cfg)
	return e
}

func Register(e *echo.Echo, c C) {
	gate := JWTAuth(c.Tokens)
	api := e.Group(c.BaseURL)

	// Public
	user := api.Group("/user")
	user.POST("/register", c.Auth.Register)
	user.POST("/login", c.Auth.Login)

	// Books
	books := api.Group("/books")
	books.POST("/add", c.Book.Add, gate)
	books.GET("/all", c.Book.List)
	books.GET("/search", c.Book.Search)
	books.GET("/:id", c.Book.Detail)
	books.POST("/:id/reviews", c.Book.SubmitReview, gate)

	// Reviews, owner only
	reviews := api.Group("/reviews")
	reviews.PUT("/:id", c.Review.Update, gate)
	reviews.DELETE("/:id", c.Review.Delete, gate)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterOps mounts the routes that live outside the API base path.
func RegisterOps(e *echo.Echo, db Pinger) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to server."})
	})

	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("health check failed", "err", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status":  "unavailable",
				"message": "Database is unreachable",
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
