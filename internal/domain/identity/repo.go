package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error)
	ListByRole(ctx context.Context, role string) ([]*User, error)
	CountActiveAdmins(ctx context.Context) (int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context) ([]*Doctor, error)
}

type PrivilegeRepository interface {
	// Role defaults persisted in role_privileges.
	GetRolePrivileges(ctx context.Context, role string) ([]string, error)
	ReplaceRolePrivileges(ctx context.Context, role string, privileges []string) error
	ListAllRolePrivileges(ctx context.Context) (map[string][]string, error)

	// Per-user grants in user_privileges.
	GetUserPrivileges(ctx context.Context, userID uuid.UUID) ([]string, error)
	ReplaceUserPrivileges(ctx context.Context, userID uuid.UUID, privileges []string, grantedBy uuid.UUID) error
}
