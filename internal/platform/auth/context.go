package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	userKey      contextKey = "session_user"
	sessionIDKey contextKey = "session_id"
)

// Roles recognised by the application.
const (
	RoleAdmin        = "ADMIN"
	RoleDoctor       = "DOCTOR"
	RoleNurse        = "NURSE"
	RoleReceptionist = "RECEPTIONIST"
)

// Roles lists every valid role value.
var Roles = []string{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist}

// IsValidRole reports whether r is one of the recognised roles.
func IsValidRole(r string) bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SessionUser is the authenticated identity attached to every request.
type SessionUser struct {
	ID         uuid.UUID
	Email      string
	Name       string
	Role       string
	Privileges []string
}

// HasPrivilege reports whether the user holds the named privilege.
func (u *SessionUser) HasPrivilege(privilege string) bool {
	for _, p := range u.Privileges {
		if p == privilege {
			return true
		}
	}
	return false
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or nil when the request is
// unauthenticated.
func UserFromContext(ctx context.Context) *SessionUser {
	u, _ := ctx.Value(userKey).(*SessionUser)
	return u
}

// UserIDFromContext returns the authenticated user's id, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if u := UserFromContext(ctx); u != nil {
		return u.ID
	}
	return uuid.Nil
}

// SessionIDFromContext returns the id of the session backing the request,
// or uuid.Nil when the request was not cookie-authenticated.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(sessionIDKey).(uuid.UUID)
	return id
}

// RoleFromContext returns the authenticated user's role, or "".
func RoleFromContext(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return u.Role
	}
	return ""
}
