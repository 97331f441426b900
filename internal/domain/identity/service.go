package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/auth"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

// ResetPasswordDefault is the password set on an admin-initiated reset.
// The user is expected to change it on next login.
const ResetPasswordDefault = "password123"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrLastAdmin          = errors.New("at least one active admin must remain")
)

type Service struct {
	users      UserRepository
	doctors    DoctorRepository
	privileges PrivilegeRepository
	tx         func(ctx context.Context, fn func(context.Context) error) error
}

func NewService(pool *pgxpool.Pool, users UserRepository, doctors DoctorRepository, privs PrivilegeRepository) *Service {
	s := &Service{users: users, doctors: doctors, privileges: privs}
	if pool != nil {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error {
			return db.WithTx(ctx, pool, fn)
		}
	} else {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	return s
}

// -- Authentication --

func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}
	return u, nil
}

// LoadSessionUser satisfies the session middleware's user loader. The
// returned privilege set is the user's effective set: explicit grants
// when present, otherwise the role's persisted defaults, otherwise the
// static role defaults.
func (s *Service) LoadSessionUser(ctx context.Context, userID uuid.UUID) (*auth.SessionUser, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}
	privs, err := s.EffectivePrivileges(ctx, u)
	if err != nil {
		return nil, err
	}
	return &auth.SessionUser{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Privileges: privs,
	}, nil
}

func (s *Service) EffectivePrivileges(ctx context.Context, u *User) ([]string, error) {
	privs, err := s.privileges.GetUserPrivileges(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if len(privs) > 0 {
		return privs, nil
	}
	privs, err = s.privileges.GetRolePrivileges(ctx, u.Role)
	if err != nil {
		return nil, err
	}
	if len(privs) > 0 {
		return privs, nil
	}
	return auth.DefaultRolePrivileges(u.Role), nil
}

// -- Users --

func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest, createdBy uuid.UUID) (*UserWithDoctor, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !auth.IsValidRole(req.Role) {
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}
	if req.Role == auth.RoleDoctor {
		if req.LicenseNumber == "" || req.Specialization == "" || req.Qualification == "" || req.Experience == nil {
			return nil, fmt.Errorf("license_number, specialization, qualification and experience are required for doctors")
		}
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		IsActive:     true,
		Phone:        req.Phone,
	}
	var doc *Doctor
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		defaults, err := s.roleDefaults(ctx, u.Role)
		if err != nil {
			return err
		}
		if err := s.privileges.ReplaceUserPrivileges(ctx, u.ID, defaults, createdBy); err != nil {
			return err
		}
		if u.Role == auth.RoleDoctor {
			doc = &Doctor{
				UserID:          u.ID,
				LicenseNumber:   req.LicenseNumber,
				Specialization:  req.Specialization,
				Qualification:   req.Qualification,
				Experience:      *req.Experience,
				ConsultationFee: req.ConsultationFee,
			}
			if doc.ConsultationFee <= 0 {
				doc.ConsultationFee = 500
			}
			return s.doctors.Create(ctx, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &UserWithDoctor{User: *u, Doctor: doc}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*UserWithDoctor, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &UserWithDoctor{User: *u}
	if u.Role == auth.RoleDoctor {
		if doc, err := s.doctors.GetByUserID(ctx, u.ID); err == nil {
			out.Doctor = doc
		}
	}
	return out, nil
}

func (s *Service) ListUsers(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, params, limit, offset)
}

// UpdateUser applies the given fields. Demoting or deactivating the
// last active admin is rejected. A role change away from DOCTOR removes
// the doctor profile in the same transaction.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, updatedBy uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newRole := u.Role
	if req.Role != nil {
		if !auth.IsValidRole(*req.Role) {
			return nil, fmt.Errorf("invalid role: %s", *req.Role)
		}
		newRole = *req.Role
	}
	newActive := u.IsActive
	if req.IsActive != nil {
		newActive = *req.IsActive
	}

	losesAdmin := u.Role == auth.RoleAdmin && u.IsActive && (newRole != auth.RoleAdmin || !newActive)
	if losesAdmin {
		n, err := s.users.CountActiveAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if n <= 1 {
			return nil, ErrLastAdmin
		}
	}

	roleChanged := newRole != u.Role
	oldRole := u.Role
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	u.Role = newRole
	u.IsActive = newActive

	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		if !roleChanged {
			return nil
		}
		defaults, err := s.roleDefaults(ctx, u.Role)
		if err != nil {
			return err
		}
		if err := s.privileges.ReplaceUserPrivileges(ctx, u.ID, defaults, updatedBy); err != nil {
			return err
		}
		if oldRole == auth.RoleDoctor {
			return s.doctors.DeleteByUserID(ctx, u.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user and, for doctors, the doctor profile in the
// same transaction. The last active admin cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == auth.RoleAdmin && u.IsActive {
		n, err := s.users.CountActiveAdmins(ctx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return ErrLastAdmin
		}
	}
	return s.tx(ctx, func(ctx context.Context) error {
		if u.Role == auth.RoleDoctor {
			if err := s.doctors.DeleteByUserID(ctx, u.ID); err != nil {
				return err
			}
		}
		return s.users.Delete(ctx, u.ID)
	})
}

// ResetPassword sets the account back to the well-known default.
func (s *Service) ResetPassword(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := auth.HashPassword(ResetPasswordDefault)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// -- Doctors --

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.LicenseNumber == "" {
		return fmt.Errorf("license_number is required")
	}
	return s.doctors.Update(ctx, d)
}

// -- Privileges --

// UpdateRolePrivileges replaces the role's default set and overwrites
// the privilege set of every user currently holding the role. The whole
// cascade runs in one transaction.
func (s *Service) UpdateRolePrivileges(ctx context.Context, role string, privileges []string, updatedBy uuid.UUID) error {
	if !auth.IsValidRole(role) {
		return fmt.Errorf("invalid role: %s", role)
	}
	for _, p := range privileges {
		if !auth.IsValidPrivilege(p) {
			return fmt.Errorf("unknown privilege: %s", p)
		}
	}
	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.privileges.ReplaceRolePrivileges(ctx, role, privileges); err != nil {
			return err
		}
		users, err := s.users.ListByRole(ctx, role)
		if err != nil {
			return err
		}
		for _, u := range users {
			if err := s.privileges.ReplaceUserPrivileges(ctx, u.ID, privileges, updatedBy); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListRolePrivileges returns the persisted role defaults for every
// role, falling back to the static defaults for roles with no rows.
func (s *Service) ListRolePrivileges(ctx context.Context) (map[string][]string, error) {
	out, err := s.privileges.ListAllRolePrivileges(ctx)
	if err != nil {
		return nil, err
	}
	for _, role := range auth.Roles {
		if _, ok := out[role]; !ok {
			out[role] = auth.DefaultRolePrivileges(role)
		}
	}
	return out, nil
}

func (s *Service) SetUserPrivileges(ctx context.Context, userID uuid.UUID, privileges []string, grantedBy uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	for _, p := range privileges {
		if !auth.IsValidPrivilege(p) {
			return fmt.Errorf("unknown privilege: %s", p)
		}
	}
	return s.privileges.ReplaceUserPrivileges(ctx, userID, privileges, grantedBy)
}

func (s *Service) GetUserPrivileges(ctx context.Context, userID uuid.UUID) ([]string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.EffectivePrivileges(ctx, u)
}

func (s *Service) roleDefaults(ctx context.Context, role string) ([]string, error) {
	privs, err := s.privileges.GetRolePrivileges(ctx, role)
	if err != nil {
		return nil, err
	}
	if len(privs) > 0 {
		return privs, nil
	}
	return auth.DefaultRolePrivileges(role), nil
}
