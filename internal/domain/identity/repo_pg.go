package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

// =========== User Repository ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const userCols = `id, email, password_hash, name, role, is_active, phone, created_at, updated_at`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.IsActive, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, is_active, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.Phone)
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET name=$2, role=$3, is_active=$4, phone=$5, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.Name, u.Role, u.IsActive, u.Phone)
	return err
}

func (r *userRepoPG) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id = $1`, id, passwordHash)
	return err
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	query := `SELECT ` + userCols + ` FROM users WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM users WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["role"]; ok {
		query += fmt.Sprintf(` AND role = $%d`, idx)
		countQuery += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["is_active"]; ok {
		query += fmt.Sprintf(` AND is_active = $%d`, idx)
		countQuery += fmt.Sprintf(` AND is_active = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["search"]; ok {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, idx, idx)
		countQuery += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, idx, idx)
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, nil
}

func (r *userRepoPG) ListByRole(ctx context.Context, role string) ([]*User, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+userCols+` FROM users WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, nil
}

func (r *userRepoPG) CountActiveAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'ADMIN' AND is_active`).Scan(&n)
	return n, err
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorCols = `id, user_id, license_number, specialization, qualification, experience, consultation_fee, created_at, updated_at`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.LicenseNumber, &d.Specialization,
		&d.Qualification, &d.Experience, &d.ConsultationFee, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (id, user_id, license_number, specialization, qualification, experience, consultation_fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.UserID, d.LicenseNumber, d.Specialization, d.Qualification, d.Experience, d.ConsultationFee)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE user_id = $1`, userID))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET license_number=$2, specialization=$3, qualification=$4,
			experience=$5, consultation_fee=$6, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.LicenseNumber, d.Specialization, d.Qualification, d.Experience, d.ConsultationFee)
	return err
}

func (r *doctorRepoPG) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE user_id = $1`, userID)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.id, d.user_id, d.license_number, d.specialization, d.qualification,
			d.experience, d.consultation_fee, d.created_at, d.updated_at, u.name, u.email
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE u.is_active
		ORDER BY u.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.UserID, &d.LicenseNumber, &d.Specialization,
			&d.Qualification, &d.Experience, &d.ConsultationFee, &d.CreatedAt, &d.UpdatedAt,
			&d.Name, &d.Email); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, nil
}

// =========== Privilege Repository ===========

type privilegeRepoPG struct{ pool *pgxpool.Pool }

func NewPrivilegeRepoPG(pool *pgxpool.Pool) PrivilegeRepository { return &privilegeRepoPG{pool: pool} }

func (r *privilegeRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *privilegeRepoPG) GetRolePrivileges(ctx context.Context, role string) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT privilege FROM role_privileges WHERE role = $1 ORDER BY privilege`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var privs []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		privs = append(privs, p)
	}
	return privs, nil
}

func (r *privilegeRepoPG) ReplaceRolePrivileges(ctx context.Context, role string, privileges []string) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM role_privileges WHERE role = $1`, role); err != nil {
		return err
	}
	for _, p := range privileges {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO role_privileges (role, privilege, is_default) VALUES ($1,$2,TRUE)`, role, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *privilegeRepoPG) ListAllRolePrivileges(ctx context.Context) (map[string][]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT role, privilege FROM role_privileges ORDER BY role, privilege`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var role, priv string
		if err := rows.Scan(&role, &priv); err != nil {
			return nil, err
		}
		out[role] = append(out[role], priv)
	}
	return out, nil
}

func (r *privilegeRepoPG) GetUserPrivileges(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT privilege FROM user_privileges WHERE user_id = $1 AND granted ORDER BY privilege`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var privs []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		privs = append(privs, p)
	}
	return privs, nil
}

func (r *privilegeRepoPG) ReplaceUserPrivileges(ctx context.Context, userID uuid.UUID, privileges []string, grantedBy uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM user_privileges WHERE user_id = $1`, userID); err != nil {
		return err
	}
	var by interface{}
	if grantedBy != uuid.Nil {
		by = grantedBy
	}
	for _, p := range privileges {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO user_privileges (user_id, privilege, granted, granted_by)
			VALUES ($1,$2,TRUE,$3)`, userID, p, by); err != nil {
			return err
		}
	}
	return nil
}
