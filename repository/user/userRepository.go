package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/database"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByIdentifier(ctx context.Context, identifier string) (*model.User, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const userCols = `id, username, email, password_hash, role, created_at, updated_at`

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO users(id, username, email, password_hash, role)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
}

func (r *repo) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.one(ctx, `SELECT `+userCols+` FROM users WHERE username = $1`, username)
}

// ByIdentifier matches either email or username exactly.
func (r *repo) ByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return r.one(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE email = $1 OR username = $1
		ORDER BY (email = $1) DESC
		LIMIT 1`, identifier)
}

// one returns (nil, nil) when no row matches.
func (r *repo) one(ctx context.Context, q string, args ...any) (*model.User, error) {
	u := &model.User{}
	err := r.db.Pool.QueryRow(ctx, q, args...).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
