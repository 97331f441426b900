package identity

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the users table.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Doctor maps to the doctors table. Every DOCTOR user has exactly one
// doctor profile row.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	LicenseNumber   string    `db:"license_number" json:"license_number"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Qualification   string    `db:"qualification" json:"qualification"`
	Experience      int       `db:"experience" json:"experience"`
	ConsultationFee float64   `db:"consultation_fee" json:"consultation_fee"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	// Populated on list queries that join users.
	Name  string `db:"-" json:"name,omitempty"`
	Email string `db:"-" json:"email,omitempty"`
}

// UserPrivilege maps to the user_privileges table.
type UserPrivilege struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Privilege string     `db:"privilege" json:"privilege"`
	Granted   bool       `db:"granted" json:"granted"`
	GrantedBy *uuid.UUID `db:"granted_by" json:"granted_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// CreateUserRequest is the admin user-creation payload. Doctor profile
// fields are required when role is DOCTOR.
type CreateUserRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	Phone           *string `json:"phone,omitempty"`
	LicenseNumber   string  `json:"license_number,omitempty"`
	Specialization  string  `json:"specialization,omitempty"`
	Qualification   string  `json:"qualification,omitempty"`
	Experience      *int    `json:"experience,omitempty"`
	ConsultationFee float64 `json:"consultation_fee,omitempty"`
}

// UpdateUserRequest carries the mutable user fields. Nil means leave
// unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserWithDoctor bundles a user with its doctor profile when present.
type UserWithDoctor struct {
	User
	Doctor *Doctor `json:"doctor,omitempty"`
}
