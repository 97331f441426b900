package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/rules"
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

func (r *repoPG) Stats(ctx context.Context, day time.Time) (*Stats, error) {
	start, end := rules.DayBounds(day)
	var s Stats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM appointments
				WHERE appointment_date >= $1 AND appointment_date < $2
				AND status NOT IN ('CANCELLED','NO_SHOW')),
			(SELECT COUNT(*) FROM consultations
				WHERE status = 'WAITING'
				AND created_at >= $1 AND created_at < $2),
			(SELECT COUNT(*) FROM consultations
				WHERE status = 'COMPLETED'
				AND end_time >= $1 AND end_time < $2),
			(SELECT COUNT(*) FROM bills WHERE payment_status IN ('PENDING','PARTIAL','OVERDUE')),
			(SELECT COALESCE(SUM(paid_amount), 0) FROM bills
				WHERE updated_at >= $1 AND updated_at < $2),
			(SELECT COALESCE(SUM(paid_amount), 0) FROM bills)`,
		start, end).Scan(
		&s.TotalPatients, &s.TodayAppointments, &s.WaitingConsultations,
		&s.CompletedToday, &s.PendingBills, &s.TodayRevenue, &s.TotalRevenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Queue(ctx context.Context, day time.Time) ([]*QueueEntry, error) {
	start, end := rules.DayBounds(day)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT c.id, c.token_number, p.first_name || ' ' || p.last_name, p.patient_id,
			u.name, c.status, c.scheduled_time
		FROM consultations c
		JOIN patients p ON p.id = c.patient_id
		JOIN doctors d ON d.id = c.doctor_id
		JOIN users u ON u.id = d.user_id
		WHERE c.created_at >= $1 AND c.created_at < $2 AND c.status <> 'COMPLETED'
		ORDER BY c.token_number`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*QueueEntry
	for rows.Next() {
		var e QueueEntry
		if err := rows.Scan(&e.ConsultationID, &e.TokenNumber, &e.PatientName, &e.PatientNumber,
			&e.DoctorName, &e.Status, &e.ScheduledTime); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
