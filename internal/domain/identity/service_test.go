package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/auth"
)

// -- Mock Repositories --

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email already exists")
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	u.PasswordHash = hash
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		if role, ok := params["role"]; ok && u.Role != role {
			continue
		}
		result = append(result, u)
	}
	return result, len(result), nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]*User, error) {
	var result []*User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) CountActiveAdmins(_ context.Context) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.Role == auth.RoleAdmin && u.IsActive {
			n++
		}
	}
	return n, nil
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockDoctorRepo) Update(_ context.Context, d *Doctor) error {
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	for id, d := range m.doctors {
		if d.UserID == userID {
			delete(m.doctors, id)
		}
	}
	return nil
}

func (m *mockDoctorRepo) List(_ context.Context) ([]*Doctor, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		result = append(result, d)
	}
	return result, nil
}

type mockPrivilegeRepo struct {
	rolePrivs map[string][]string
	userPrivs map[uuid.UUID][]string
}

func newMockPrivilegeRepo() *mockPrivilegeRepo {
	return &mockPrivilegeRepo{
		rolePrivs: make(map[string][]string),
		userPrivs: make(map[uuid.UUID][]string),
	}
}

func (m *mockPrivilegeRepo) GetRolePrivileges(_ context.Context, role string) ([]string, error) {
	return m.rolePrivs[role], nil
}

func (m *mockPrivilegeRepo) ReplaceRolePrivileges(_ context.Context, role string, privs []string) error {
	m.rolePrivs[role] = privs
	return nil
}

func (m *mockPrivilegeRepo) ListAllRolePrivileges(_ context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(m.rolePrivs))
	for k, v := range m.rolePrivs {
		out[k] = v
	}
	return out, nil
}

func (m *mockPrivilegeRepo) GetUserPrivileges(_ context.Context, userID uuid.UUID) ([]string, error) {
	return m.userPrivs[userID], nil
}

func (m *mockPrivilegeRepo) ReplaceUserPrivileges(_ context.Context, userID uuid.UUID, privs []string, _ uuid.UUID) error {
	m.userPrivs[userID] = privs
	return nil
}

func newTestService() (*Service, *mockUserRepo, *mockDoctorRepo, *mockPrivilegeRepo) {
	users := newMockUserRepo()
	doctors := newMockDoctorRepo()
	privs := newMockPrivilegeRepo()
	return NewService(nil, users, doctors, privs), users, doctors, privs
}

func seedUser(t *testing.T, users *mockUserRepo, email, password, role string, active bool) *User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &User{Email: email, PasswordHash: hash, Name: "Test User", Role: role, IsActive: active}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// -- Tests --

func TestAuthenticate(t *testing.T) {
	svc, users, _, _ := newTestService()
	seedUser(t, users, "admin@clinic.local", "admin123", auth.RoleAdmin, true)

	u, err := svc.Authenticate(context.Background(), "admin@clinic.local", "admin123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Email != "admin@clinic.local" {
		t.Errorf("email = %q", u.Email)
	}

	// Email is case-insensitive.
	if _, err := svc.Authenticate(context.Background(), " Admin@Clinic.Local ", "admin123"); err != nil {
		t.Errorf("case-insensitive email: %v", err)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, users, _, _ := newTestService()
	seedUser(t, users, "admin@clinic.local", "admin123", auth.RoleAdmin, true)

	if _, err := svc.Authenticate(context.Background(), "admin@clinic.local", "nope12"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ghost@clinic.local", "admin123"); err != ErrInvalidCredentials {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_Inactive(t *testing.T) {
	svc, users, _, _ := newTestService()
	seedUser(t, users, "old@clinic.local", "secret99", auth.RoleNurse, false)

	if _, err := svc.Authenticate(context.Background(), "old@clinic.local", "secret99"); err != ErrAccountInactive {
		t.Errorf("expected ErrAccountInactive, got %v", err)
	}
}

func TestCreateUser_Doctor(t *testing.T) {
	svc, _, doctors, privs := newTestService()

	exp := 8
	u, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:          "doc@clinic.local",
		Password:       "doctor123",
		Name:           "Dr. Perera",
		Role:           auth.RoleDoctor,
		LicenseNumber:  "SLMC-1234",
		Specialization: "General Medicine",
		Qualification:  "MBBS",
		Experience:     &exp,
	}, uuid.New())
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Doctor == nil {
		t.Fatal("expected doctor profile to be created")
	}
	if u.Doctor.ConsultationFee != 500 {
		t.Errorf("default consultation fee = %v, want 500", u.Doctor.ConsultationFee)
	}
	if _, err := doctors.GetByUserID(context.Background(), u.User.ID); err != nil {
		t.Error("doctor profile not persisted")
	}
	if len(privs.userPrivs[u.User.ID]) == 0 {
		t.Error("expected default privileges to be assigned")
	}
}

func TestCreateUser_DoctorMissingProfile(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:    "doc@clinic.local",
		Password: "doctor123",
		Name:     "Dr. Perera",
		Role:     auth.RoleDoctor,
	}, uuid.Nil)
	if err == nil {
		t.Error("expected error for doctor without license fields")
	}
}

func TestCreateUser_DoctorMissingExperience(t *testing.T) {
	svc, users, _, _ := newTestService()
	_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:          "doc@clinic.local",
		Password:       "doctor123",
		Name:           "Dr. Perera",
		Role:           auth.RoleDoctor,
		LicenseNumber:  "SLMC-1234",
		Specialization: "General Medicine",
		Qualification:  "MBBS",
	}, uuid.Nil)
	if err == nil {
		t.Fatal("expected error for doctor without experience")
	}
	if len(users.users) != 0 {
		t.Error("user should not be persisted when validation fails")
	}
}

func TestCreateUser_InvalidRole(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:    "x@clinic.local",
		Password: "secret99",
		Name:     "X",
		Role:     "SUPERUSER",
	}, uuid.Nil)
	if err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestUpdateUser_LastAdminGuard(t *testing.T) {
	svc, users, _, _ := newTestService()
	admin := seedUser(t, users, "admin@clinic.local", "admin123", auth.RoleAdmin, true)

	inactive := false
	if _, err := svc.UpdateUser(context.Background(), admin.ID, &UpdateUserRequest{IsActive: &inactive}, uuid.Nil); err != ErrLastAdmin {
		t.Errorf("deactivate last admin: expected ErrLastAdmin, got %v", err)
	}

	demoted := auth.RoleNurse
	if _, err := svc.UpdateUser(context.Background(), admin.ID, &UpdateUserRequest{Role: &demoted}, uuid.Nil); err != ErrLastAdmin {
		t.Errorf("demote last admin: expected ErrLastAdmin, got %v", err)
	}

	// A second active admin lifts the guard.
	seedUser(t, users, "admin2@clinic.local", "admin123", auth.RoleAdmin, true)
	if _, err := svc.UpdateUser(context.Background(), admin.ID, &UpdateUserRequest{IsActive: &inactive}, uuid.Nil); err != nil {
		t.Errorf("deactivate with second admin: %v", err)
	}
}

func TestDeleteUser_LastAdminGuard(t *testing.T) {
	svc, users, _, _ := newTestService()
	admin := seedUser(t, users, "admin@clinic.local", "admin123", auth.RoleAdmin, true)

	if err := svc.DeleteUser(context.Background(), admin.ID); err != ErrLastAdmin {
		t.Errorf("expected ErrLastAdmin, got %v", err)
	}
}

func TestDeleteUser_DoctorRemovesProfile(t *testing.T) {
	svc, _, doctors, _ := newTestService()
	exp := 8
	u, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:          "doc@clinic.local",
		Password:       "doctor123",
		Name:           "Dr. Perera",
		Role:           auth.RoleDoctor,
		LicenseNumber:  "SLMC-1234",
		Specialization: "General Medicine",
		Qualification:  "MBBS",
		Experience:     &exp,
	}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteUser(context.Background(), u.User.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := doctors.GetByUserID(context.Background(), u.User.ID); err == nil {
		t.Error("expected doctor profile to be removed with the user")
	}
}

func TestUpdateUser_RoleChangeResetsPrivileges(t *testing.T) {
	svc, users, doctors, privs := newTestService()
	seedUser(t, users, "admin@clinic.local", "admin123", auth.RoleAdmin, true)

	exp := 8
	u, err := svc.CreateUser(context.Background(), &CreateUserRequest{
		Email:          "doc@clinic.local",
		Password:       "doctor123",
		Name:           "Dr. Perera",
		Role:           auth.RoleDoctor,
		LicenseNumber:  "SLMC-1234",
		Specialization: "General Medicine",
		Qualification:  "MBBS",
		Experience:     &exp,
	}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}

	newRole := auth.RoleReceptionist
	if _, err := svc.UpdateUser(context.Background(), u.User.ID, &UpdateUserRequest{Role: &newRole}, uuid.Nil); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got := privs.userPrivs[u.User.ID]
	want := auth.DefaultRolePrivileges(auth.RoleReceptionist)
	if len(got) != len(want) {
		t.Errorf("privileges after role change = %d, want %d", len(got), len(want))
	}
	if _, err := doctors.GetByUserID(context.Background(), u.User.ID); err == nil {
		t.Error("expected doctor profile removed after role change away from DOCTOR")
	}
}

func TestResetPassword(t *testing.T) {
	svc, users, _, _ := newTestService()
	u := seedUser(t, users, "nurse@clinic.local", "original1", auth.RoleNurse, true)

	if err := svc.ResetPassword(context.Background(), u.ID); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), u.Email, ResetPasswordDefault); err != nil {
		t.Errorf("expected default password to authenticate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), u.Email, "original1"); err == nil {
		t.Error("old password should no longer work")
	}
}

func TestUpdateRolePrivileges_Cascade(t *testing.T) {
	svc, users, _, privs := newTestService()
	n1 := seedUser(t, users, "n1@clinic.local", "secret99", auth.RoleNurse, true)
	n2 := seedUser(t, users, "n2@clinic.local", "secret99", auth.RoleNurse, true)
	doc := seedUser(t, users, "d1@clinic.local", "secret99", auth.RoleDoctor, true)
	privs.userPrivs[doc.ID] = []string{auth.PrivViewDashboard}

	newSet := []string{auth.PrivViewDashboard, auth.PrivViewPatients}
	if err := svc.UpdateRolePrivileges(context.Background(), auth.RoleNurse, newSet, uuid.Nil); err != nil {
		t.Fatalf("UpdateRolePrivileges: %v", err)
	}

	for _, id := range []uuid.UUID{n1.ID, n2.ID} {
		got := privs.userPrivs[id]
		if len(got) != 2 {
			t.Errorf("user %s privileges = %v, want exactly the new set", id, got)
		}
	}
	// Other roles untouched.
	if len(privs.userPrivs[doc.ID]) != 1 {
		t.Error("doctor privileges should be untouched by nurse cascade")
	}
	if len(privs.rolePrivs[auth.RoleNurse]) != 2 {
		t.Error("role defaults not persisted")
	}
}

func TestUpdateRolePrivileges_Invalid(t *testing.T) {
	svc, _, _, _ := newTestService()
	if err := svc.UpdateRolePrivileges(context.Background(), "SUPERUSER", nil, uuid.Nil); err == nil {
		t.Error("expected error for invalid role")
	}
	if err := svc.UpdateRolePrivileges(context.Background(), auth.RoleNurse, []string{"FLY"}, uuid.Nil); err == nil {
		t.Error("expected error for unknown privilege")
	}
}

func TestLoadSessionUser_PrivilegeFallback(t *testing.T) {
	svc, users, _, privs := newTestService()
	u := seedUser(t, users, "r@clinic.local", "secret99", auth.RoleReceptionist, true)

	// No explicit grants, no persisted role rows: static defaults apply.
	su, err := svc.LoadSessionUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("LoadSessionUser: %v", err)
	}
	if len(su.Privileges) != len(auth.DefaultRolePrivileges(auth.RoleReceptionist)) {
		t.Errorf("privileges = %v", su.Privileges)
	}

	// Persisted role rows win over static defaults.
	privs.rolePrivs[auth.RoleReceptionist] = []string{auth.PrivViewDashboard}
	su, _ = svc.LoadSessionUser(context.Background(), u.ID)
	if len(su.Privileges) != 1 {
		t.Errorf("role-row privileges = %v, want 1", su.Privileges)
	}

	// Explicit user grants win over everything.
	privs.userPrivs[u.ID] = []string{auth.PrivViewDashboard, auth.PrivViewBills}
	su, _ = svc.LoadSessionUser(context.Background(), u.ID)
	if len(su.Privileges) != 2 {
		t.Errorf("user-grant privileges = %v, want 2", su.Privileges)
	}
}

func TestLoadSessionUser_Inactive(t *testing.T) {
	svc, users, _, _ := newTestService()
	u := seedUser(t, users, "gone@clinic.local", "secret99", auth.RoleNurse, false)
	if _, err := svc.LoadSessionUser(context.Background(), u.ID); err != ErrAccountInactive {
		t.Errorf("expected ErrAccountInactive, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, users, _, _ := newTestService()
	u := seedUser(t, users, "n@clinic.local", "secret99", auth.RoleNurse, true)

	if err := svc.ChangePassword(context.Background(), u.ID, "wrongpw", "newpass1"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "secret99", "newpass1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), u.Email, "newpass1"); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}
}
