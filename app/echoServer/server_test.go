package echoServer_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ashraf-g/book-review-api/app/echoServer"
	authctrl "github.com/ashraf-g/book-review-api/app/echoServer/controller/auth"
	bookctrl "github.com/ashraf-g/book-review-api/app/echoServer/controller/book"
	reviewctrl "github.com/ashraf-g/book-review-api/app/echoServer/controller/review"
	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/apperr"
	"github.com/ashraf-g/book-review-api/util/jwt"
)

const secret = "test-secret"

// --- fakes ---

type fakeAuth struct {
	registerFn func(ctx context.Context, req model.RegisterReq) (*model.User, error)
	loginFn    func(ctx context.Context, req model.LoginReq) (*model.LoginResult, error)
}

func (f *fakeAuth) Register(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	if f.registerFn == nil {
		return &model.User{ID: uuid.New()}, nil
	}
	return f.registerFn(ctx, req)
}

func (f *fakeAuth) Login(ctx context.Context, req model.LoginReq) (*model.LoginResult, error) {
	return f.loginFn(ctx, req)
}

type fakeBooks struct {
	addFn    func(ctx context.Context, callerID uuid.UUID, req model.AddBookReq) (*model.Book, error)
	listFn   func(ctx context.Context, f model.BookFilter, page, limit int) (*model.BookList, error)
	detailFn func(ctx context.Context, id string, page, limit int) (*model.BookDetail, error)
	searchFn func(ctx context.Context, q string) ([]model.BookSummary, error)
	reviewFn func(ctx context.Context, bookID string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error)
}

func (f *fakeBooks) AddBook(ctx context.Context, callerID uuid.UUID, req model.AddBookReq) (*model.Book, error) {
	return f.addFn(ctx, callerID, req)
}

func (f *fakeBooks) List(ctx context.Context, fl model.BookFilter, page, limit int) (*model.BookList, error) {
	return f.listFn(ctx, fl, page, limit)
}

func (f *fakeBooks) Detail(ctx context.Context, id string, page, limit int) (*model.BookDetail, error) {
	return f.detailFn(ctx, id, page, limit)
}

func (f *fakeBooks) Search(ctx context.Context, q string) ([]model.BookSummary, error) {
	return f.searchFn(ctx, q)
}

func (f *fakeBooks) SubmitReview(ctx context.Context, bookID string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error) {
	return f.reviewFn(ctx, bookID, callerID, rating, comment)
}

type fakeReviews struct {
	updateFn func(ctx context.Context, id string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error)
	deleteFn func(ctx context.Context, id string, callerID uuid.UUID) error
}

func (f *fakeReviews) Update(ctx context.Context, id string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error) {
	return f.updateFn(ctx, id, callerID, rating, comment)
}

func (f *fakeReviews) Delete(ctx context.Context, id string, callerID uuid.UUID) error {
	return f.deleteFn(ctx, id, callerID)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

// --- harness ---

type harness struct {
	e       *echo.Echo
	issuer  *jwt.Issuer
	auth    *fakeAuth
	books   *fakeBooks
	reviews *fakeReviews
}

func newHarness(t *testing.T, cfg echoServer.MiddlewareConfig) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	iss, err := jwt.NewIssuer(secret, 24*time.Hour)
	require.NoError(t, err)

	h := &harness{issuer: iss, auth: &fakeAuth{}, books: &fakeBooks{}, reviews: &fakeReviews{}}
	h.e = echoServer.New(log, cfg)
	echoServer.RegisterOps(h.e, pinger{})
	echoServer.Register(h.e, echoServer.C{
		Auth:    &authctrl.Controller{Svc: h.auth, Log: log, CookieTTL: 24 * time.Hour},
		Book:    &bookctrl.Controller{Svc: h.books, Log: log},
		Review:  &reviewctrl.Controller{Svc: h.reviews, Log: log},
		Tokens:  iss,
		BaseURL: "/api/v1",
	})
	return h
}

func (h *harness) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) bearer(t *testing.T, id uuid.UUID) string {
	t.Helper()
	tok, err := h.issuer.Issue(id, model.RoleReader)
	require.NoError(t, err)
	return "Bearer " + tok
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

// --- tests ---

func TestGate_MissingOrMalformed(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})

	for _, hdr := range []string{"", "Token abc", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz"} {
		rec := h.do(http.MethodPost, "/api/v1/books/add", `{}`, "Authorization", hdr)
		require.Equal(t, http.StatusUnauthorized, rec.Code, hdr)
		body := decode(t, rec)
		require.Equal(t, false, body["success"])
		require.Equal(t, float64(401), body["statusCode"])
		require.Nil(t, body["data"])
		require.Equal(t, "Authorization token is missing or malformed. Please log in to access this resource.", body["message"])
	}
}

func TestGate_InvalidToken(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})

	other, err := jwt.NewIssuer("another-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(uuid.New(), model.RoleReader)
	require.NoError(t, err)

	for _, hdr := range []string{"Bearer " + forged, "Bearer not.a.jwt", "Bearer a b"} {
		rec := h.do(http.MethodDelete, "/api/v1/reviews/"+uuid.NewString(), "", "Authorization", hdr)
		require.Equal(t, http.StatusUnauthorized, rec.Code, hdr)
		body := decode(t, rec)
		require.Equal(t, float64(401), body["statusCode"])
		require.Equal(t, "Invalid or expired token. Please log in again to continue.", body["message"])
	}
}

func TestGate_ExpiredToken(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	stale := h.issuer.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) })
	tok, err := stale.Issue(uuid.New(), model.RoleReader)
	require.NoError(t, err)

	rec := h.do(http.MethodPut, "/api/v1/reviews/"+uuid.NewString(), `{"rating":4}`, "Authorization", "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid or expired token. Please log in again to continue.", decode(t, rec)["message"])
}

func TestGate_PassesIdentity(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	me := uuid.New()
	var gotCaller uuid.UUID
	h.books.addFn = func(_ context.Context, callerID uuid.UUID, req model.AddBookReq) (*model.Book, error) {
		gotCaller = callerID
		return &model.Book{ID: uuid.New(), Title: req.Title}, nil
	}

	rec := h.do(http.MethodPost, "/api/v1/books/add", `{"title":"Dune","author":"Frank Herbert","genre":"Fiction"}`,
		"Authorization", h.bearer(t, me))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, me, gotCaller)

	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Nil(t, body["data"])
	require.Equal(t, "Book added successfully", body["message"])
}

func TestPublicRoutesSkipGate(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	h.books.searchFn = func(_ context.Context, q string) ([]model.BookSummary, error) {
		require.Equal(t, "xyz", q)
		return nil, nil
	}

	rec := h.do(http.MethodGet, "/api/v1/books/search?query=xyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, []any{}, body["data"])
}

func TestRouteNotFound(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/nope"},
		{http.MethodGet, "/api/v1/reviews/" + uuid.NewString()},
		{http.MethodPatch, "/api/v1/books/all"},
	} {
		rec := h.do(tc.method, tc.path, "")
		require.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		require.Equal(t, map[string]any{"success": false, "message": "Route not found"}, decode(t, rec))
	}
}

func TestErrorHandler_CodedAndInternal(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})

	h.books.detailFn = func(context.Context, string, int, int) (*model.BookDetail, error) {
		return nil, apperr.NotFound("Book not found")
	}
	rec := h.do(http.MethodGet, "/api/v1/books/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Book not found", decode(t, rec)["message"])

	h.books.detailFn = func(context.Context, string, int, int) (*model.BookDetail, error) {
		return nil, errors.New("pq: connection refused to 10.0.0.7")
	}
	rec = h.do(http.MethodGet, "/api/v1/books/"+uuid.NewString(), "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Internal server error", body["message"])
	require.NotContains(t, rec.Body.String(), "10.0.0.7")
}

func TestInvalidBody(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})

	rec := h.do(http.MethodPost, "/api/v1/user/register", `{"username":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid body", decode(t, rec)["message"])
}

func TestRegister_Created(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	var got model.RegisterReq
	h.auth.registerFn = func(_ context.Context, req model.RegisterReq) (*model.User, error) {
		got = req
		return &model.User{ID: uuid.New()}, nil
	}

	rec := h.do(http.MethodPost, "/api/v1/user/register",
		`{"username":"alice","email":"alice@x.com","password":"pw","role":"reader"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, model.RoleReader, got.Role)

	body := decode(t, rec)
	require.Equal(t, "User registered successfully", body["message"])
	require.Nil(t, body["data"])
}

func TestRegister_BadEmail(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	h.auth.registerFn = func(context.Context, model.RegisterReq) (*model.User, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}

	rec := h.do(http.MethodPost, "/api/v1/user/register",
		`{"username":"alice","email":"nope","password":"pw","role":"reader"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_SetsCookie(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	uid := uuid.New()
	h.auth.loginFn = func(_ context.Context, req model.LoginReq) (*model.LoginResult, error) {
		require.Equal(t, "alice", req.Identifier)
		return &model.LoginResult{UserID: uid, Username: "alice", Email: "alice@x.com", Role: model.RoleReader, Token: "tok"}, nil
	}

	rec := h.do(http.MethodPost, "/api/v1/user/login", `{"identifier":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Equal(t, "tok", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
	require.False(t, cookies[0].Secure)
	require.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	require.Equal(t, 86400, cookies[0].MaxAge)

	data := decode(t, rec)["data"].(map[string]any)
	require.Equal(t, uid.String(), data["user"])
	require.Equal(t, "tok", data["token"])
}

func TestList_FlatShape(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	h.books.listFn = func(_ context.Context, f model.BookFilter, page, limit int) (*model.BookList, error) {
		require.Equal(t, "herbert", f.Author)
		require.Equal(t, 1, page)
		require.Equal(t, 10, limit)
		return &model.BookList{
			Books: []model.Book{{ID: uuid.New(), Title: "Dune"}},
			Total: 11, Page: page, Limit: limit, TotalPages: 2,
		}, nil
	}

	rec := h.do(http.MethodGet, "/api/v1/books/all?author=herbert&page=0&limit=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(11), body["total"])
	require.Equal(t, float64(2), body["totalPages"])
	require.Equal(t, float64(1), body["count"])
	require.Len(t, body["books"], 1)
	require.NotContains(t, body, "statusCode")
}

func TestReviewUpdate_Forbidden(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	h.reviews.updateFn = func(context.Context, string, uuid.UUID, float64, string) (*model.Review, error) {
		return nil, apperr.Forbidden("You are not authorized to update this review")
	}

	rec := h.do(http.MethodPut, "/api/v1/reviews/"+uuid.NewString(), `{"rating":4,"comment":"x"}`,
		"Authorization", h.bearer(t, uuid.New()))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "You are not authorized to update this review", decode(t, rec)["message"])
}

func TestReviewDelete_OK(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	me, rid := uuid.New(), uuid.NewString()
	h.reviews.deleteFn = func(_ context.Context, id string, callerID uuid.UUID) error {
		require.Equal(t, rid, id)
		require.Equal(t, me, callerID)
		return nil
	}

	rec := h.do(http.MethodDelete, "/api/v1/reviews/"+rid, "", "Authorization", h.bearer(t, me))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Review deleted successfully", decode(t, rec)["message"])
}

func TestSubmitReview_PassesRating(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})
	bid := uuid.NewString()
	h.books.reviewFn = func(_ context.Context, bookID string, _ uuid.UUID, rating float64, comment string) (*model.Review, error) {
		require.Equal(t, bid, bookID)
		require.Equal(t, 4.5, rating)
		return nil, apperr.Validation("Rating must be an integer between 1 and 5")
	}

	rec := h.do(http.MethodPost, "/api/v1/books/"+bid+"/reviews", `{"rating":4.5,"comment":"ok"}`,
		"Authorization", h.bearer(t, uuid.New()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{RateLimit: 2, RateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/", "").Code)
	}
	rec := h.do(http.MethodGet, "/?x=1", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	body := decode(t, rec)
	require.Equal(t, "fail", body["status"])
	require.Equal(t, "Too many requests from this IP, please try again later.", body["message"])
	require.True(t, strings.HasSuffix(body["retryAfter"].(string), " seconds"))
	require.Equal(t, "/?x=1", body["path"])
	require.Equal(t, http.MethodGet, body["method"])
	require.NotEmpty(t, body["timestamp"])
}

func TestOpsRoutes(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})

	rec := h.do(http.MethodGet, "/", "")
	require.Equal(t, "Welcome to server.", decode(t, rec)["message"])

	rec = h.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestSwaggerDocJSON(t *testing.T) {
	h := newHarness(t, echoServer.MiddlewareConfig{})

	rec := h.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decode(t, rec)
	require.Equal(t, "Book Review API", doc["info"].(map[string]any)["title"])
	paths := doc["paths"].(map[string]any)
	for _, p := range []string{
		"/api/v1/user/register", "/api/v1/user/login",
		"/api/v1/books/add", "/api/v1/books/all", "/api/v1/books/search",
		"/api/v1/books/{id}", "/api/v1/books/{id}/reviews", "/api/v1/reviews/{id}",
	} {
		require.Contains(t, paths, p)
	}
}

func TestAccessLog_PanickingHandler(t *testing.T) {
	var buf bytes.Buffer
	e := echoServer.New(slog.New(slog.NewJSONHandler(&buf, nil)), echoServer.MiddlewareConfig{})
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal server error", decode(t, rec)["message"])

	require.Contains(t, buf.String(), `"msg":"http"`)
	require.Contains(t, buf.String(), `"status":500`)
	require.Contains(t, buf.String(), `"path":"/boom"`)
}
