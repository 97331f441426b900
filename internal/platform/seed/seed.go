// Package seed loads a demo dataset for development and evaluation
// environments: staff accounts, a doctor, patients, appointments,
// consultations and bills.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/rules"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/auth"
)

// DemoPassword is the password assigned to every seeded account.
const DemoPassword = "password123"

type Seeder struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func New(pool *pgxpool.Pool, logger zerolog.Logger) *Seeder {
	return &Seeder{pool: pool, logger: logger}
}

// Run populates the demo dataset. It refuses to run against a database
// that already has users, so rerunning is harmless.
func (s *Seeder) Run(ctx context.Context) error {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&existing); err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if existing > 0 {
		s.logger.Info().Int("users", existing).Msg("database already seeded, skipping")
		return nil
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	if _, err := s.createUser(ctx, "admin@clinic.test", hash, "Clinic Admin", auth.RoleAdmin); err != nil {
		return err
	}
	doctorUserID, err := s.createUser(ctx, "doctor@clinic.test", hash, "Dr. Anjali Perera", auth.RoleDoctor)
	if err != nil {
		return err
	}
	if _, err := s.createUser(ctx, "nurse@clinic.test", hash, "Nimal Fernando", auth.RoleNurse); err != nil {
		return err
	}
	receptionID, err := s.createUser(ctx, "reception@clinic.test", hash, "Kumari Silva", auth.RoleReceptionist)
	if err != nil {
		return err
	}

	doctorID := uuid.New()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO doctors (id, user_id, license_number, specialization, qualification, experience, consultation_fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		doctorID, doctorUserID, "SLMC-45821", "General Medicine", "MBBS, MD", 12, 500.0)
	if err != nil {
		return fmt.Errorf("seed doctor: %w", err)
	}

	for _, role := range auth.Roles {
		for _, priv := range auth.DefaultRolePrivileges(role) {
			if _, err := s.pool.Exec(ctx, `
				INSERT INTO role_privileges (role, privilege, is_default)
				VALUES ($1,$2,TRUE) ON CONFLICT (role, privilege) DO NOTHING`,
				role, priv); err != nil {
				return fmt.Errorf("seed role privileges: %w", err)
			}
		}
	}

	patients := []struct {
		first, last, gender, phone, blood string
		dob                               time.Time
	}{
		{"Asha", "Jayawardena", "FEMALE", "0771234501", "O+", time.Date(1988, time.April, 12, 0, 0, 0, 0, time.UTC)},
		{"Ruwan", "Bandara", "MALE", "0771234502", "A+", time.Date(1975, time.November, 3, 0, 0, 0, 0, time.UTC)},
		{"Malini", "Gunasekara", "FEMALE", "0771234503", "B-", time.Date(1996, time.January, 28, 0, 0, 0, 0, time.UTC)},
		{"Sunil", "Wickramasinghe", "MALE", "0771234504", "AB+", time.Date(1962, time.July, 19, 0, 0, 0, 0, time.UTC)},
	}
	patientIDs := make([]uuid.UUID, len(patients))
	for i, p := range patients {
		id := uuid.New()
		patientIDs[i] = id
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO patients (id, patient_id, first_name, last_name, date_of_birth, gender, phone, blood_group, created_by)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			id, rules.FormatPatientID(i+1), p.first, p.last, p.dob, p.gender, p.phone, p.blood, receptionID); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.first, err)
		}
	}

	today := time.Now().Truncate(24 * time.Hour)
	for i, slot := range []string{"09:00-09:30", "09:30-10:00", "10:00-10:30"} {
		if i >= len(patientIDs) {
			break
		}
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, time_slot, priority, status, token_number, created_by)
			VALUES ($1,$2,$3,$4,$5,'NORMAL','CONFIRMED',$6,$7)`,
			uuid.New(), patientIDs[i], doctorID, today, slot, rules.FormatToken(i+1), receptionID); err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}
	}

	consultationID := uuid.New()
	token := rules.FormatToken(1)
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO consultations (id, patient_id, doctor_id, token_number, visit_type, status, scheduled_time, chief_complaints)
		VALUES ($1,$2,$3,$4,'NEW_VISIT','WAITING',$5,$6)`,
		consultationID, patientIDs[0], doctorID, token, today.Add(9*time.Hour),
		"Fever and headache for two days"); err != nil {
		return fmt.Errorf("seed consultation: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO vitals (id, consultation_id, patient_id, blood_pressure, pulse_rate, temperature, weight, spo2)
		VALUES ($1,$2,$3,'120/80',78,99.1,64.5,98)`,
		uuid.New(), consultationID, patientIDs[0]); err != nil {
		return fmt.Errorf("seed vitals: %w", err)
	}

	templateID := uuid.New()
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO prescription_templates (id, name, description)
		VALUES ($1,'Viral Fever','Standard symptomatic treatment for viral fever')`,
		templateID); err != nil {
		return fmt.Errorf("seed template: %w", err)
	}
	templateItems := []struct{ drug, dosage, duration, instructions string }{
		{"Paracetamol 500mg", "1 tablet", "5 days", "Every 6 hours after meals"},
		{"Cetirizine 10mg", "1 tablet", "5 days", "At night"},
	}
	for _, it := range templateItems {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO prescription_template_items (id, template_id, drug_name, dosage, duration, instructions)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.New(), templateID, it.drug, it.dosage, it.duration, it.instructions); err != nil {
			return fmt.Errorf("seed template item: %w", err)
		}
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO investigations (id, consultation_id, patient_id, test_name, test_type, lab_name, status)
		VALUES ($1,$2,$3,'Full Blood Count','BLOOD_TEST','City Lab','PENDING')`,
		uuid.New(), consultationID, patientIDs[0]); err != nil {
		return fmt.Errorf("seed investigation: %w", err)
	}

	year := time.Now().Year()
	bills := []struct {
		fee, paid float64
		status    string
	}{
		{500, 500, "PAID"},
		{500, 200, "PARTIAL"},
	}
	for i, b := range bills {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO bills (id, bill_number, consultation_id, patient_id, consultation_fee,
				total_amount, paid_amount, payment_mode, payment_status)
			VALUES ($1,$2,$3,$4,$5,$5,$6,'CASH',$7)`,
			uuid.New(), rules.FormatBillNumber(year, i+1), consultationID, patientIDs[0],
			b.fee, b.paid, b.status); err != nil {
			return fmt.Errorf("seed bill: %w", err)
		}
	}

	s.logger.Info().
		Str("admin", "admin@clinic.test").
		Str("password", DemoPassword).
		Int("patients", len(patients)).
		Msg("demo dataset seeded")
	return nil
}

func (s *Seeder) createUser(ctx context.Context, email, hash, name, role string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, is_active)
		VALUES ($1,$2,$3,$4,$5,TRUE)`,
		id, email, hash, name, role)
	if err != nil {
		return uuid.Nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	return id, nil
}
