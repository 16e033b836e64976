package reviewrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/database"
)

type Repo interface {
	Create(ctx context.Context, rv *model.Review) error
	ByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (*model.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, offset, limit int) ([]model.ReviewWithAuthor, error)
	CountByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
	// UpdateOwned and DeleteOwned only touch the row when userID owns it;
	// they report (nil, nil) / (false, nil) otherwise.
	UpdateOwned(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*model.Review, error)
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const reviewCols = `id, book_id, user_id, rating, comment, created_at, updated_at`

func (r *repo) Create(ctx context.Context, rv *model.Review) error {
	const q = `
INSERT INTO reviews (id, book_id, user_id, rating, comment)
VALUES ($1,$2,$3,$4,$5)
RETURNING created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q, rv.ID, rv.BookID, rv.UserID, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return r.one(ctx, `SELECT `+reviewCols+` FROM reviews WHERE id = $1`, id)
}

func (r *repo) ByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (*model.Review, error) {
	return r.one(ctx, `SELECT `+reviewCols+` FROM reviews WHERE book_id = $1 AND user_id = $2`, bookID, userID)
}

func (r *repo) ListByBook(ctx context.Context, bookID uuid.UUID, offset, limit int) ([]model.ReviewWithAuthor, error) {
	const q = `
	SELECT rv.id, rv.book_id, rv.user_id, COALESCE(u.username, ''), rv.rating, rv.comment, rv.created_at, rv.updated_at
	FROM reviews rv
	LEFT JOIN users u ON u.id = rv.user_id
	WHERE rv.book_id = $1
	ORDER BY rv.created_at DESC, rv.id DESC
	LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, bookID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ReviewWithAuthor{}
	for rows.Next() {
		var rv model.ReviewWithAuthor
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.User.ID, &rv.User.Username,
			&rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *repo) CountByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&n)
	return n, err
}

func (r *repo) UpdateOwned(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*model.Review, error) {
	return r.one(ctx, `
		UPDATE reviews
		SET rating = $3, comment = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+reviewCols, id, userID, rating, comment)
}

func (r *repo) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repo) one(ctx context.Context, q string, args ...any) (*model.Review, error) {
	var rv model.Review
	err := r.db.Pool.QueryRow(ctx, q, args...).
		Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}
