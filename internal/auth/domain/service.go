package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*User, error)

	// Administrative user management.
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	UpdateRole(ctx context.Context, actor *User, userID snowflake.ID, role Role) error
	UpdateStatus(ctx context.Context, userID snowflake.ID, isActive bool) error
	DeleteUser(ctx context.Context, actor *User, userID snowflake.ID) error
	SetAccessOverride(ctx context.Context, userID snowflake.ID, allow bool) error
	ListSalesmen(ctx context.Context) ([]User, error)
	FindUser(ctx context.Context, userID snowflake.ID) (*User, error)
	CountUsers(ctx context.Context) (total, active int64, err error)
}

type RegisterRequest struct {
	Email    string
	Password string
	FullName string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}

// CreateUserRequest is the admin path for provisioning accounts with a role.
type CreateUserRequest struct {
	Email    string
	Password string
	FullName string
	Role     Role
}
