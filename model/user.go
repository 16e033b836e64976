package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleReader    Role = "reader"
	RoleModerator Role = "moderator"
)

func (r Role) Valid() bool { return r == RoleReader || r == RoleModerator }

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the authenticated caller, decoded from a verified token.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// RegisterReq represents user registration payload. Missing fields are
// reported by the auth service; tags only check format.
// swagger:model RegisterReq
type RegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"omitempty,oneof=reader moderator"`
}

// LoginReq represents login payload; Identifier is an email or a username.
// swagger:model LoginReq
type LoginReq struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	UserID   uuid.UUID `json:"user"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	Token    string    `json:"token"`
}
