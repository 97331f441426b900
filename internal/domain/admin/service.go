package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

// backupSets maps backup document keys to the tables they export, in
// the order they appear in the document.
var backupSets = []struct {
	Key   string
	Table string
}{
	{"users", "users"},
	{"patients", "patients"},
	{"appointments", "appointments"},
	{"consultations", "consultations"},
	{"prescriptions", "prescriptions"},
	{"investigations", "investigations"},
	{"bills", "bills"},
	{"prescriptionTemplates", "prescription_templates"},
}

// clearSets maps clear/:dataType values to FK-ordered table lists.
// Children delete before parents.
var clearSets = map[string][]string{
	"appointments":   {"appointments"},
	"bills":          {"bills"},
	"investigations": {"investigations"},
	"prescriptions":  {"prescription_items", "prescriptions"},
	"consultations": {
		"bills", "investigations", "prescription_items", "prescriptions",
		"vitals", "consultations",
	},
}

type Service struct {
	settings SettingsRepository
	data     DataRepository
	now      func() time.Time
	tx       func(ctx context.Context, fn func(context.Context) error) error
}

func NewService(pool *pgxpool.Pool, settings SettingsRepository, data DataRepository) *Service {
	s := &Service{settings: settings, data: data, now: time.Now}
	if pool != nil {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error {
			return db.WithTx(ctx, pool, fn)
		}
	} else {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	}
	return s
}

// GetSettings returns the saved clinic configuration, or the defaults
// when none has been saved yet.
func (s *Service) GetSettings(ctx context.Context) (*ClinicSettings, error) {
	saved, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return DefaultSettings(), nil
	}
	return saved, nil
}

func (s *Service) SaveSettings(ctx context.Context, cfg *ClinicSettings) error {
	if cfg.ClinicName == "" {
		return fmt.Errorf("clinic_name is required")
	}
	if cfg.DefaultConsultationFee < 0 {
		return fmt.Errorf("default_consultation_fee cannot be negative")
	}
	if cfg.SlotDurationMinutes <= 0 {
		return fmt.Errorf("slot_duration_minutes must be positive")
	}
	if cfg.TaxRate < 0 || cfg.TaxRate > 100 {
		return fmt.Errorf("tax_rate must be between 0 and 100")
	}
	return s.settings.Save(ctx, cfg)
}

// Backup exports every dataset as a single JSON document. Password
// hashes never leave the database.
func (s *Service) Backup(ctx context.Context) (*Backup, error) {
	b := &Backup{
		Timestamp: s.now(),
		Version:   BackupVersion,
		Data:      make(map[string][]map[string]interface{}, len(backupSets)),
	}
	for _, set := range backupSets {
		rows, err := s.data.DumpTable(ctx, set.Table)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", set.Table, err)
		}
		if set.Key == "users" {
			for _, row := range rows {
				if _, ok := row["password_hash"]; ok {
					row["password_hash"] = "[REDACTED]"
				}
			}
		}
		b.Data[set.Key] = rows
	}
	return b, nil
}

// ClearData wipes one dataset and its dependents in a single
// transaction.
func (s *Service) ClearData(ctx context.Context, dataType string) error {
	tables, ok := clearSets[dataType]
	if !ok {
		return fmt.Errorf("unknown data type: %s", dataType)
	}
	return s.tx(ctx, func(ctx context.Context) error {
		return s.data.DeleteAll(ctx, tables...)
	})
}
