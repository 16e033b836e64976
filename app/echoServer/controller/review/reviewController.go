package review

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ashraf-g/book-review-api/app/echoServer/jwtx"
	"github.com/ashraf-g/book-review-api/model"
	reviewsvc "github.com/ashraf-g/book-review-api/service/review"
	"github.com/ashraf-g/book-review-api/util/apperr"
)

type Controller struct {
	Svc reviewsvc.Service
	Log *slog.Logger
}

// Update
// @Summary      Update own review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string           true  "review id"
// @Param        payload  body  model.ReviewReq  true  "rating 1-5 and comment"
// @Success      200  {object}  model.Response{data=model.Review}
// @Failure      400  {object}  model.Response
// @Failure      401  {object}  model.Response
// @Failure      403  {object}  model.Response "not the review owner"
// @Failure      404  {object}  model.Response
// @Router       /api/v1/reviews/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, ok := jwtx.IdentityFromContext(c)
	if !ok {
		return jwtx.ErrNoIdentity
	}

	var req model.ReviewReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rv, err := h.Svc.Update(c.Request().Context(), c.Param("id"), id.UserID, req.Rating, req.Comment)
	if err != nil {
		if apperr.Code(err) == apperr.ErrForbidden {
			h.Log.Warn("review update denied", "review_id", c.Param("id"), "user_id", id.UserID)
		}
		return err
	}
	return c.JSON(http.StatusOK, model.NewResponse(http.StatusOK, rv, "Review updated successfully"))
}

// Delete
// @Summary      Delete own review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "review id"
// @Success      200  {object}  model.Response
// @Failure      400  {object}  model.Response
// @Failure      401  {object}  model.Response
// @Failure      403  {object}  model.Response "not the review owner"
// @Failure      404  {object}  model.Response
// @Router       /api/v1/reviews/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, ok := jwtx.IdentityFromContext(c)
	if !ok {
		return jwtx.ErrNoIdentity
	}

	if err := h.Svc.Delete(c.Request().Context(), c.Param("id"), id.UserID); err != nil {
		if apperr.Code(err) == apperr.ErrForbidden {
			h.Log.Warn("review delete denied", "review_id", c.Param("id"), "user_id", id.UserID)
		}
		return err
	}
	return c.JSON(http.StatusOK, model.NewResponse(http.StatusOK, nil, "Review deleted successfully"))
}
