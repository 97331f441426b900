package admin

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

type settingsRepoPG struct{ pool *pgxpool.Pool }

func NewSettingsRepoPG(pool *pgxpool.Pool) SettingsRepository { return &settingsRepoPG{pool: pool} }

func (r *settingsRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *settingsRepoPG) Get(ctx context.Context) (*ClinicSettings, error) {
	var s ClinicSettings
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT clinic_name, clinic_address, clinic_phone, clinic_email, license_number,
			default_consultation_fee, working_hours_start, working_hours_end,
			break_start, break_end, slot_duration_minutes, tax_rate, currency, timezone, updated_at
		FROM clinic_settings WHERE id = 1`).Scan(
		&s.ClinicName, &s.ClinicAddress, &s.ClinicPhone, &s.ClinicEmail, &s.LicenseNumber,
		&s.DefaultConsultationFee, &s.WorkingHoursStart, &s.WorkingHoursEnd,
		&s.BreakStart, &s.BreakEnd, &s.SlotDurationMinutes, &s.TaxRate, &s.Currency, &s.Timezone, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepoPG) Save(ctx context.Context, s *ClinicSettings) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO clinic_settings (id, clinic_name, clinic_address, clinic_phone, clinic_email,
			license_number, default_consultation_fee, working_hours_start, working_hours_end,
			break_start, break_end, slot_duration_minutes, tax_rate, currency, timezone, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())
		ON CONFLICT (id) DO UPDATE SET
			clinic_name=EXCLUDED.clinic_name, clinic_address=EXCLUDED.clinic_address,
			clinic_phone=EXCLUDED.clinic_phone, clinic_email=EXCLUDED.clinic_email,
			license_number=EXCLUDED.license_number,
			default_consultation_fee=EXCLUDED.default_consultation_fee,
			working_hours_start=EXCLUDED.working_hours_start,
			working_hours_end=EXCLUDED.working_hours_end,
			break_start=EXCLUDED.break_start, break_end=EXCLUDED.break_end,
			slot_duration_minutes=EXCLUDED.slot_duration_minutes,
			tax_rate=EXCLUDED.tax_rate, currency=EXCLUDED.currency,
			timezone=EXCLUDED.timezone, updated_at=NOW()`,
		s.ClinicName, s.ClinicAddress, s.ClinicPhone, s.ClinicEmail, s.LicenseNumber,
		s.DefaultConsultationFee, s.WorkingHoursStart, s.WorkingHoursEnd,
		s.BreakStart, s.BreakEnd, s.SlotDurationMinutes, s.TaxRate, s.Currency, s.Timezone)
	return err
}

type dataRepoPG struct{ pool *pgxpool.Pool }

func NewDataRepoPG(pool *pgxpool.Pool) DataRepository { return &dataRepoPG{pool: pool} }

func (r *dataRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// DumpTable reads every row of a table into column-keyed maps. Table
// names come from the service's fixed dataset list, never from input.
func (r *dataRepoPG) DumpTable(ctx context.Context, table string) ([]map[string]interface{}, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT * FROM `+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *dataRepoPG) DeleteAll(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	return nil
}
