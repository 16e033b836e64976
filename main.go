// Package main book review API.
//
// @title           Book Review API
// @version         1.0
// @description     Users register and log in, add books, browse and search them, and review them.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashraf-g/book-review-api/app/echoServer"
	authctrl "github.com/ashraf-g/book-review-api/app/echoServer/controller/auth"
	bookctrl "github.com/ashraf-g/book-review-api/app/echoServer/controller/book"
	reviewctrl "github.com/ashraf-g/book-review-api/app/echoServer/controller/review"
	"github.com/ashraf-g/book-review-api/config"
	bookrepo "github.com/ashraf-g/book-review-api/repository/book"
	reviewrepo "github.com/ashraf-g/book-review-api/repository/review"
	userrepo "github.com/ashraf-g/book-review-api/repository/user"
	authsvc "github.com/ashraf-g/book-review-api/service/auth"
	booksvc "github.com/ashraf-g/book-review-api/service/book"
	reviewsvc "github.com/ashraf-g/book-review-api/service/review"
	"github.com/ashraf-g/book-review-api/util/database"
	"github.com/ashraf-g/book-review-api/util/jwt"
	"github.com/ashraf-g/book-review-api/util/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config invalid", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger: stdout, plus app.log/error.log when LOG_DIR is set
	log, closeLogs, err := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.LogDir)
	if err != nil {
		slog.Error("log sink", "err", err)
		os.Exit(1)
	}
	defer closeLogs()
	slog.SetDefault(log)

	// DB: pgxpool
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			log.Error("migrate failed", "err", err)
			os.Exit(1)
		}
	}

	tokens, err := jwt.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Error("token issuer", "err", err)
		os.Exit(1)
	}

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	rr := reviewrepo.New(db)

	// services
	as := authsvc.New(ur, tokens)
	bs := booksvc.New(br, rr)
	rs := reviewsvc.New(rr)

	// controllers
	authC := &authctrl.Controller{Svc: as, Log: log, SecureCookie: cfg.IsProduction(), CookieTTL: tokens.TTL()}
	bookC := &bookctrl.Controller{Svc: bs, Log: log}
	reviewC := &reviewctrl.Controller{Svc: rs, Log: log}

	// echo
	e := echoServer.New(log, echoServer.MiddlewareConfig{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimitRequests,
		RateWindow:  cfg.RateLimitWindow,
	})
	echoServer.RegisterOps(e, db)
	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Book:    bookC,
		Review:  reviewC,
		Tokens:  tokens,
		BaseURL: cfg.BaseURL,
	})

	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("server stopped")
}
