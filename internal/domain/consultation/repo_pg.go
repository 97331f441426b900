package consultation

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

const consultCols = `id, patient_id, doctor_id, token_number, visit_type, status, scheduled_time,
	start_time, end_time, chief_complaints, history_present, provisional_diagnosis,
	final_diagnosis, general_advice, created_at, updated_at`

func (r *repoPG) scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.PatientID, &c.DoctorID, &c.TokenNumber, &c.VisitType, &c.Status,
		&c.ScheduledTime, &c.StartTime, &c.EndTime, &c.ChiefComplaints, &c.HistoryPresent,
		&c.ProvisionalDiagnosis, &c.FinalDiagnosis, &c.GeneralAdvice, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultations (id, patient_id, doctor_id, token_number, visit_type, status,
			scheduled_time, chief_complaints, history_present, provisional_diagnosis,
			final_diagnosis, general_advice)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.PatientID, c.DoctorID, c.TokenNumber, c.VisitType, c.Status,
		c.ScheduledTime, c.ChiefComplaints, c.HistoryPresent, c.ProvisionalDiagnosis,
		c.FinalDiagnosis, c.GeneralAdvice)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return r.scanConsultation(r.conn(ctx).QueryRow(ctx, `SELECT `+consultCols+` FROM consultations WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Consultation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultations SET status=$2, start_time=$3, end_time=$4, chief_complaints=$5,
			history_present=$6, provisional_diagnosis=$7, final_diagnosis=$8, general_advice=$9,
			visit_type=$10, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Status, c.StartTime, c.EndTime, c.ChiefComplaints,
		c.HistoryPresent, c.ProvisionalDiagnosis, c.FinalDiagnosis, c.GeneralAdvice, c.VisitType)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error) {
	query := `SELECT c.id, c.patient_id, c.doctor_id, c.token_number, c.visit_type, c.status,
		c.scheduled_time, c.start_time, c.end_time, c.chief_complaints, c.history_present,
		c.provisional_diagnosis, c.final_diagnosis, c.general_advice, c.created_at, c.updated_at,
		p.first_name || ' ' || p.last_name, p.patient_id
		FROM consultations c JOIN patients p ON p.id = c.patient_id WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM consultations c WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND c.status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND c.status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["doctor_id"]; ok {
		query += fmt.Sprintf(` AND c.doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND c.doctor_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND c.patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND c.patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["date"]; ok {
		query += fmt.Sprintf(` AND c.scheduled_time::date = $%d::date`, idx)
		countQuery += fmt.Sprintf(` AND c.scheduled_time::date = $%d::date`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY c.scheduled_time LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		var c Consultation
		if err := rows.Scan(&c.ID, &c.PatientID, &c.DoctorID, &c.TokenNumber, &c.VisitType, &c.Status,
			&c.ScheduledTime, &c.StartTime, &c.EndTime, &c.ChiefComplaints, &c.HistoryPresent,
			&c.ProvisionalDiagnosis, &c.FinalDiagnosis, &c.GeneralAdvice, &c.CreatedAt, &c.UpdatedAt,
			&c.PatientName, &c.PatientNumber); err != nil {
			return nil, 0, err
		}
		items = append(items, &c)
	}
	return items, total, nil
}

func (r *repoPG) ListQueue(ctx context.Context, day time.Time) ([]*Consultation, error) {
	items, _, err := r.Search(ctx, map[string]string{"date": day.Format("2006-01-02")}, 1000, 0)
	if err != nil {
		return nil, err
	}
	var queue []*Consultation
	for _, c := range items {
		if c.Status != StatusCompleted {
			queue = append(queue, c)
		}
	}
	return queue, nil
}

// =========== Vitals Repository ===========

type vitalsRepoPG struct{ pool *pgxpool.Pool }

func NewVitalsRepoPG(pool *pgxpool.Pool) VitalsRepository { return &vitalsRepoPG{pool: pool} }

func (r *vitalsRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *vitalsRepoPG) Upsert(ctx context.Context, v *Vitals) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vitals (id, consultation_id, patient_id, blood_pressure, pulse_rate,
			temperature, weight, height, spo2)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (consultation_id) DO UPDATE SET
			blood_pressure = EXCLUDED.blood_pressure,
			pulse_rate = EXCLUDED.pulse_rate,
			temperature = EXCLUDED.temperature,
			weight = EXCLUDED.weight,
			height = EXCLUDED.height,
			spo2 = EXCLUDED.spo2,
			updated_at = NOW()`,
		v.ID, v.ConsultationID, v.PatientID, v.BloodPressure, v.PulseRate,
		v.Temperature, v.Weight, v.Height, v.SpO2)
	return err
}

func (r *vitalsRepoPG) GetByConsultation(ctx context.Context, consultationID uuid.UUID) (*Vitals, error) {
	var v Vitals
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, consultation_id, patient_id, blood_pressure, pulse_rate, temperature,
			weight, height, spo2, created_at, updated_at
		FROM vitals WHERE consultation_id = $1`, consultationID).
		Scan(&v.ID, &v.ConsultationID, &v.PatientID, &v.BloodPressure, &v.PulseRate,
			&v.Temperature, &v.Weight, &v.Height, &v.SpO2, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
