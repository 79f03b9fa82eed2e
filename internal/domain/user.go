package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleCompany   Role = "company"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id"` // identity provider subject
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Caller is the authenticated identity every core operation acts on behalf of.
type Caller struct {
	UserID string
	Role   Role
}

func (c Caller) Is(role Role) bool {
	return c.UserID != "" && c.Role == role
}

// Anonymous reports whether no user is attached.
func (c Caller) Anonymous() bool {
	return c.UserID == ""
}

// Routes are relative to the API base path.
var landingRoutes = map[Role]string{
	RoleCandidate: "/candidates/dashboard",
	RoleCompany:   "/employers/dashboard",
	RoleAdmin:     "/admin/dashboard",
}

// LandingRoute returns where a user of role is sent after sign-in.
func LandingRoute(role Role) string {
	if r, ok := landingRoutes[role]; ok {
		return r
	}
	return "/"
}

type RegisterInput struct {
	UserID string `json:"-"`
	Email  string `json:"-"`
	Role   Role   `json:"role" validate:"required,oneof=candidate company"`
}

type RegisterResult struct {
	User         *User  `json:"user"`
	LandingRoute string `json:"landing_route"`
}

type CurrentUser struct {
	User         *User  `json:"user"`
	LandingRoute string `json:"landing_route"`
	// ProfileComplete is false for candidates who have not passed the
	// personal info step yet.
	ProfileComplete bool `json:"profile_complete"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	Me(ctx context.Context, caller Caller) (*CurrentUser, error)
}
