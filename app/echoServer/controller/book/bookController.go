package book

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ashraf-g/book-review-api/app/echoServer/jwtx"
	"github.com/ashraf-g/book-review-api/model"
	booksvc "github.com/ashraf-g/book-review-api/service/book"
	"github.com/ashraf-g/book-review-api/util/pagination"
)

type Controller struct {
	Svc booksvc.Service
	Log *slog.Logger
}

func caller(c echo.Context) (model.Identity, error) {
	id, ok := jwtx.IdentityFromContext(c)
	if !ok {
		return model.Identity{}, jwtx.ErrNoIdentity
	}
	return id, nil
}

// Add
// @Summary      Add a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  model.AddBookReq  true  "Book payload"
// @Success      201  {object}  model.Response
// @Failure      400  {object}  model.Response
// @Failure      401  {object}  model.Response
// @Failure      409  {object}  model.Response "title/author already exists"
// @Router       /api/v1/books/add [post]
func (h *Controller) Add(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req model.AddBookReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.Svc.AddBook(c.Request().Context(), id.UserID, req)
	if err != nil {
		return err
	}
	h.Log.Info("book added", "book_id", b.ID, "user_id", id.UserID)
	return c.JSON(http.StatusCreated, model.NewResponse(http.StatusCreated, nil, "Book added successfully"))
}

// List
// @Summary      List books
// @Description  Newest first; author is a case-insensitive substring, genre an exact match
// @Tags         books
// @Produce      json
// @Param        author  query  string  false  "author filter"
// @Param        genre   query  string  false  "genre filter"
// @Param        page    query  int     false  "page (default 1)"
// @Param        limit   query  int     false  "page size (default 10, max 100)"
// @Success      200  {object}  model.BookPage
// @Router       /api/v1/books/all [get]
func (h *Controller) List(c echo.Context) error {
	page, limit := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"), pagination.DefaultLimit)
	f := model.BookFilter{Author: c.QueryParam("author"), Genre: c.QueryParam("genre")}

	res, err := h.Svc.List(c.Request().Context(), f, page, limit)
	if err != nil {
		return err
	}
	books := res.Books
	if books == nil {
		books = []model.Book{}
	}
	return c.JSON(http.StatusOK, model.BookPage{
		Success:    true,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		Count:      len(books),
		Books:      books,
	})
}

// Detail
// @Summary      Get a book with a page of its reviews
// @Tags         books
// @Produce      json
// @Param        id     path   string  true   "book id"
// @Param        page   query  int     false  "review page (default 1)"
// @Param        limit  query  int     false  "reviews per page (default 5)"
// @Success      200  {object}  model.Response{data=model.BookDetail}
// @Failure      400  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/books/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	page, limit := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"), pagination.DefaultReviewLimit)
	d, err := h.Svc.Detail(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return err
	}
	if d.Reviews == nil {
		d.Reviews = []model.ReviewWithAuthor{}
	}
	return c.JSON(http.StatusOK, model.NewResponse(http.StatusOK, d, "Book retrieved successfully"))
}

// Search
// @Summary      Search books by title or author
// @Tags         books
// @Produce      json
// @Param        query  query  string  true  "substring, case-insensitive"
// @Success      200  {object}  model.Response{data=[]model.BookSummary}
// @Failure      400  {object}  model.Response
// @Router       /api/v1/books/search [get]
func (h *Controller) Search(c echo.Context) error {
	rows, err := h.Svc.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []model.BookSummary{}
	}
	return c.JSON(http.StatusOK, model.NewResponse(http.StatusOK, rows, "Books retrieved successfully"))
}

// SubmitReview
// @Summary      Review a book
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string           true  "book id"
// @Param        payload  body  model.ReviewReq  true  "rating 1-5 and comment"
// @Success      201  {object}  model.Response{data=model.Review}
// @Failure      400  {object}  model.Response
// @Failure      401  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Failure      409  {object}  model.Response "already reviewed"
// @Router       /api/v1/books/{id}/reviews [post]
func (h *Controller) SubmitReview(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req model.ReviewReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rv, err := h.Svc.SubmitReview(c.Request().Context(), c.Param("id"), id.UserID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, model.NewResponse(http.StatusCreated, rv, "Review submitted successfully"))
}
