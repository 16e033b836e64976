package booksvc

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/apperr"
	"github.com/ashraf-g/book-review-api/util/database"
	"github.com/ashraf-g/book-review-api/util/metrics"
	"github.com/ashraf-g/book-review-api/util/pagination"
)

const (
	msgMissingBookFields = "Title, author, and genre are required."
	msgDuplicateBook     = "A book with this title and author already exists."
	msgInvalidBookID     = "Invalid book ID"
	msgBookNotFound      = "Book not found"
	msgQueryRequired     = "Query parameter is required"
	msgInvalidRating     = "Rating must be an integer between 1 and 5"
	msgAlreadyReviewed   = "You have already reviewed this book"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ByTitleAuthor(ctx context.Context, title, author string) (*model.Book, error)
	ByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, f model.BookFilter, offset, limit int) ([]model.Book, error)
	Count(ctx context.Context, f model.BookFilter) (int64, error)
	Search(ctx context.Context, q string) ([]model.BookSummary, error)
}

type ReviewRepo interface {
	Create(ctx context.Context, rv *model.Review) error
	ByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (*model.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, offset, limit int) ([]model.ReviewWithAuthor, error)
	CountByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
}

type Service interface {
	AddBook(ctx context.Context, callerID uuid.UUID, req model.AddBookReq) (*model.Book, error)
	List(ctx context.Context, f model.BookFilter, page, limit int) (*model.BookList, error)
	Detail(ctx context.Context, id string, page, limit int) (*model.BookDetail, error)
	Search(ctx context.Context, query string) ([]model.BookSummary, error)
	SubmitReview(ctx context.Context, bookID string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error)
}

type service struct {
	r  Repo
	rv ReviewRepo
}

func New(r Repo, rv ReviewRepo) Service { return &service{r: r, rv: rv} }

func (s *service) AddBook(ctx context.Context, callerID uuid.UUID, req model.AddBookReq) (*model.Book, error) {
	b := &model.Book{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Genre:       strings.TrimSpace(req.Genre),
		Description: req.Description,
		AddedBy:     callerID,
	}
	if b.Title == "" || b.Author == "" || b.Genre == "" {
		return nil, apperr.Validation(msgMissingBookFields)
	}

	existing, err := s.r.ByTitleAuthor(ctx, b.Title, b.Author)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.RecordConflict("book")
		return nil, apperr.Conflict(msgDuplicateBook)
	}

	b.ID = uuid.New()
	if err := s.r.Create(ctx, b); err != nil {
		if name, ok := database.UniqueViolation(err); ok && name == database.BooksTitleAuthorKey {
			metrics.RecordConflict("book")
			return nil, apperr.Wrap(apperr.ErrConflict, msgDuplicateBook, err)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, f model.BookFilter, page, limit int) (*model.BookList, error) {
	page, limit = pagination.Clamp(page, limit, pagination.DefaultLimit)
	f.Author = strings.TrimSpace(f.Author)
	f.Genre = strings.TrimSpace(f.Genre)

	books, err := s.r.List(ctx, f, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.r.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.BookList{
		Books:      books,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pagination.TotalPages(total, limit),
	}, nil
}

func (s *service) Detail(ctx context.Context, id string, page, limit int) (*model.BookDetail, error) {
	bookID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, msgInvalidBookID, err)
	}
	page, limit = pagination.Clamp(page, limit, pagination.DefaultReviewLimit)

	b, err := s.r.ByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(msgBookNotFound)
	}

	reviews, err := s.rv.ListByBook(ctx, bookID, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.rv.CountByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &model.BookDetail{
		Book:         b,
		Reviews:      reviews,
		TotalReviews: total,
		Page:         page,
		TotalPages:   pagination.TotalPages(total, limit),
	}, nil
}

func (s *service) Search(ctx context.Context, query string) ([]model.BookSummary, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, apperr.Validation(msgQueryRequired)
	}
	return s.r.Search(ctx, q)
}

func (s *service) SubmitReview(ctx context.Context, bookID string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error) {
	bid, err := uuid.Parse(bookID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, msgInvalidBookID, err)
	}
	stars, ok := model.RatingValue(rating)
	if !ok {
		return nil, apperr.Validation(msgInvalidRating)
	}

	b, err := s.r.ByID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(msgBookNotFound)
	}

	prev, err := s.rv.ByBookAndUser(ctx, bid, callerID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		metrics.RecordConflict("review")
		return nil, apperr.Conflict(msgAlreadyReviewed)
	}

	rv := &model.Review{
		ID:      uuid.New(),
		BookID:  bid,
		UserID:  callerID,
		Rating:  stars,
		Comment: comment,
	}
	if err := s.rv.Create(ctx, rv); err != nil {
		if name, ok := database.UniqueViolation(err); ok && name == database.ReviewsBookUserKey {
			metrics.RecordConflict("review")
			return nil, apperr.Wrap(apperr.ErrConflict, msgAlreadyReviewed, err)
		}
		return nil, err
	}
	return rv, nil
}
