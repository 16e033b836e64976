package bookrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/database"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	ByTitleAuthor(ctx context.Context, title, author string) (*model.Book, error)
	ByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, f model.BookFilter, offset, limit int) ([]model.Book, error)
	Count(ctx context.Context, f model.BookFilter) (int64, error)
	Search(ctx context.Context, q string) ([]model.BookSummary, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const bookCols = `id, title, author, genre, description, added_by, created_at, updated_at`

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (id, title, author, genre, description, added_by)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q, b.ID, b.Title, b.Author, b.Genre, b.Description, b.AddedBy).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) ByTitleAuthor(ctx context.Context, title, author string) (*model.Book, error) {
	return r.one(ctx, `SELECT `+bookCols+` FROM books WHERE title = $1 AND author = $2`, title, author)
}

func (r *repo) ByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.one(ctx, `SELECT `+bookCols+` FROM books WHERE id = $1`, id)
}

func (r *repo) List(ctx context.Context, f model.BookFilter, offset, limit int) ([]model.Book, error) {
	where, args := filterClause(f)
	args = append(args, limit, offset)
	q := fmt.Sprintf(`
	SELECT %s
	FROM books
	%s
	ORDER BY created_at DESC, id DESC
	LIMIT $%d OFFSET $%d`, bookCols, where, len(args)-1, len(args))

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Count(ctx context.Context, f model.BookFilter) (int64, error) {
	where, args := filterClause(f)
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM books `+where, args...).Scan(&n)
	return n, err
}

func (r *repo) Search(ctx context.Context, q string) ([]model.BookSummary, error) {
	const sq = `
SELECT id, title, author, genre
FROM books
WHERE title ILIKE $1 ESCAPE '\' OR author ILIKE $1 ESCAPE '\'
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, sq, containsPattern(q))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookSummary{}
	for rows.Next() {
		var s model.BookSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.Genre); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) one(ctx context.Context, q string, args ...any) (*model.Book, error) {
	var b model.Book
	err := scanBook(r.db.Pool.QueryRow(ctx, q, args...), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBook(row pgx.Row, b *model.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.AddedBy, &b.CreatedAt, &b.UpdatedAt)
}

func filterClause(f model.BookFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Author != "" {
		args = append(args, containsPattern(f.Author))
		conds = append(conds, fmt.Sprintf(`author ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if f.Genre != "" {
		args = append(args, f.Genre)
		conds = append(conds, fmt.Sprintf(`genre = $%d`, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
