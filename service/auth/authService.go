package authsvc

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/apperr"
	"github.com/ashraf-g/book-review-api/util/database"
	"github.com/ashraf-g/book-review-api/util/hash"
	"github.com/ashraf-g/book-review-api/util/metrics"
)

const (
	msgMissingRegister = "Please provide username, email, password, and role"
	msgInvalidRole     = "Role must be one of: reader, moderator"
	msgEmailTaken      = "User already exists with this email"
	msgUsernameTaken   = "User already exists with this username"
	msgMissingLogin    = "Please provide email or username and password"
	msgInvalidCreds    = "Invalid credentials"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByIdentifier(ctx context.Context, identifier string) (*model.User, error)
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, role model.Role) (string, error)
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, error)
	Login(ctx context.Context, req model.LoginReq) (*model.LoginResult, error)
}

type service struct {
	ur     Repo
	tokens TokenIssuer
}

func New(ur Repo, tokens TokenIssuer) Service { return &service{ur: ur, tokens: tokens} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" || req.Role == "" {
		return nil, apperr.Validation(msgMissingRegister)
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation(msgInvalidRole)
	}

	// Email first, then username. The unique constraints below are what
	// actually hold under concurrent registrations.
	if u, err := s.ur.ByEmail(ctx, email); err != nil {
		return nil, err
	} else if u != nil {
		metrics.RecordConflict("user")
		return nil, apperr.Conflict(msgEmailTaken)
	}
	if u, err := s.ur.ByUsername(ctx, username); err != nil {
		return nil, err
	} else if u != nil {
		metrics.RecordConflict("user")
		return nil, apperr.Conflict(msgUsernameTaken)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         req.Role,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			metrics.RecordConflict("user")
			return nil, derr
		}
		return nil, err
	}
	return u, nil
}

func mapDuplicateErr(err error) error {
	name, ok := database.UniqueViolation(err)
	if !ok {
		return nil
	}
	switch name {
	case database.UsersEmailKey:
		return apperr.Wrap(apperr.ErrConflict, msgEmailTaken, err)
	case database.UsersUsernameKey:
		return apperr.Wrap(apperr.ErrConflict, msgUsernameTaken, err)
	default:
		return apperr.Wrap(apperr.ErrConflict, "User already exists", err)
	}
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.LoginResult, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, apperr.Validation(msgMissingLogin)
	}

	u, err := s.ur.ByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if u == nil || !hash.Check(u.PasswordHash, req.Password) {
		metrics.RecordAuthFailure("bad_credentials")
		return nil, apperr.Unauthorized(msgInvalidCreds)
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &model.LoginResult{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Token:    token,
	}, nil
}
