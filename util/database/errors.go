package database

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from migrations; services map them to conflicts.
const (
	UsersEmailKey       = "users_email_key"
	UsersUsernameKey    = "users_username_key"
	BooksTitleAuthorKey = "books_title_author_key"
	ReviewsBookUserKey  = "reviews_book_user_key"
)

// UniqueViolation reports whether err is a Postgres unique_violation and
// returns the violated constraint name.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
