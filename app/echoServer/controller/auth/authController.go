// app/echoServer/controller/auth/authController.go
package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashraf-g/book-review-api/model"
	authsvc "github.com/ashraf-g/book-review-api/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	Log *slog.Logger

	// SecureCookie marks the login cookie Secure; set in production.
	SecureCookie bool
	CookieTTL    time.Duration
}

// Register a new user
// @Summary      Register user
// @Description  Register a new user with email/username uniqueness and validation
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  model.Response
// @Failure      400  {object}  model.Response
// @Failure      409  {object}  model.Response "email/username already taken"
// @Failure      500  {object}  model.Response "internal server error"
// @Router       /api/v1/user/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq

	// Bind
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}

	// Validate
	if err := c.Validate(&req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return err
	}

	if _, err := ct.Svc.Register(c.Request().Context(), req); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, model.NewResponse(http.StatusCreated, nil, "User registered successfully"))
}

// Login
// @Summary      Login
// @Description  Login with email or username + password, returns JWT and sets the token cookie
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  model.Response{data=model.LoginResult}
// @Failure      400  {object}  model.Response
// @Failure      401  {object}  model.Response
// @Failure      500  {object}  model.Response
// @Router       /api/v1/user/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}

	res, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(ct.CookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   ct.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, model.NewResponse(http.StatusOK, res, "User logged in successfully"))
}
