package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, patient_id, doctor_id, appointment_date, time_slot, purpose, notes,
	priority, status, token_number, created_by, created_at, updated_at`

func (r *repoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate, &a.TimeSlot,
		&a.Purpose, &a.Notes, &a.Priority, &a.Status, &a.TokenNumber,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, time_slot,
			purpose, notes, priority, status, token_number, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentDate, a.TimeSlot,
		a.Purpose, a.Notes, a.Priority, a.Status, a.TokenNumber, a.CreatedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET doctor_id=$2, appointment_date=$3, time_slot=$4,
			purpose=$5, notes=$6, priority=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DoctorID, a.AppointmentDate, a.TimeSlot, a.Purpose, a.Notes, a.Priority)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE appointments SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.time_slot, a.purpose,
		a.notes, a.priority, a.status, a.token_number, a.created_by, a.created_at, a.updated_at,
		p.first_name || ' ' || p.last_name, p.patient_id
		FROM appointments a JOIN patients p ON p.id = a.patient_id WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM appointments a WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["date"]; ok {
		query += fmt.Sprintf(` AND a.appointment_date::date = $%d::date`, idx)
		countQuery += fmt.Sprintf(` AND a.appointment_date::date = $%d::date`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["doctor_id"]; ok {
		query += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND a.patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND a.patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND a.status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY a.appointment_date, a.time_slot LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate, &a.TimeSlot,
			&a.Purpose, &a.Notes, &a.Priority, &a.Status, &a.TokenNumber,
			&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt, &a.PatientName, &a.PatientNumber); err != nil {
			return nil, 0, err
		}
		items = append(items, &a)
	}
	return items, total, nil
}

func (r *repoPG) CountByDay(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE appointment_date::date = $1::date`, day).Scan(&n)
	return n, err
}

func (r *repoPG) BookedSlots(ctx context.Context, day time.Time, doctorID *uuid.UUID) ([]string, error) {
	query := `SELECT time_slot FROM appointments
		WHERE appointment_date::date = $1::date AND status <> 'CANCELLED'`
	args := []interface{}{day}
	if doctorID != nil {
		query += ` AND doctor_id = $2`
		args = append(args, *doctorID)
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func (r *repoPG) ListByDay(ctx context.Context, day time.Time) ([]*Appointment, error) {
	items, _, err := r.Search(ctx, map[string]string{"date": day.Format("2006-01-02")}, 1000, 0)
	return items, err
}
