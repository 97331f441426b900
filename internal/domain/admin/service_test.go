package admin

import (
	"context"
	"testing"
)

type mockSettingsRepo struct {
	saved *ClinicSettings
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*ClinicSettings, error) {
	if m.saved == nil {
		return nil, nil
	}
	cp := *m.saved
	return &cp, nil
}

func (m *mockSettingsRepo) Save(ctx context.Context, s *ClinicSettings) error {
	cp := *s
	m.saved = &cp
	return nil
}

type mockDataRepo struct {
	tables  map[string][]map[string]interface{}
	deleted []string
}

func newMockDataRepo() *mockDataRepo {
	return &mockDataRepo{tables: map[string][]map[string]interface{}{}}
}

func (m *mockDataRepo) DumpTable(ctx context.Context, table string) ([]map[string]interface{}, error) {
	return m.tables[table], nil
}

func (m *mockDataRepo) DeleteAll(ctx context.Context, tables ...string) error {
	m.deleted = append(m.deleted, tables...)
	return nil
}

func TestGetSettingsDefaults(t *testing.T) {
	svc := NewService(nil, &mockSettingsRepo{}, newMockDataRepo())
	cfg, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if cfg.DefaultConsultationFee != 500 {
		t.Errorf("default fee = %v, want 500", cfg.DefaultConsultationFee)
	}
	if cfg.SlotDurationMinutes != 30 {
		t.Errorf("slot duration = %d, want 30", cfg.SlotDurationMinutes)
	}
}

func TestSaveAndGetSettings(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := NewService(nil, repo, newMockDataRepo())

	cfg := DefaultSettings()
	cfg.ClinicName = "Lakeside Family Practice"
	cfg.TaxRate = 12
	if err := svc.SaveSettings(context.Background(), cfg); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.ClinicName != "Lakeside Family Practice" || got.TaxRate != 12 {
		t.Errorf("got %q tax %v", got.ClinicName, got.TaxRate)
	}
}

func TestSaveSettingsValidation(t *testing.T) {
	svc := NewService(nil, &mockSettingsRepo{}, newMockDataRepo())

	cfg := DefaultSettings()
	cfg.ClinicName = ""
	if err := svc.SaveSettings(context.Background(), cfg); err == nil {
		t.Error("expected error for missing clinic name")
	}

	cfg = DefaultSettings()
	cfg.SlotDurationMinutes = 0
	if err := svc.SaveSettings(context.Background(), cfg); err == nil {
		t.Error("expected error for zero slot duration")
	}

	cfg = DefaultSettings()
	cfg.TaxRate = 120
	if err := svc.SaveSettings(context.Background(), cfg); err == nil {
		t.Error("expected error for tax rate above 100")
	}
}

func TestBackupRedactsPasswords(t *testing.T) {
	data := newMockDataRepo()
	data.tables["users"] = []map[string]interface{}{
		{"email": "admin@clinic.test", "password_hash": "$2a$12$abcdef"},
		{"email": "doctor@clinic.test", "password_hash": "$2a$12$ghijkl"},
	}
	data.tables["patients"] = []map[string]interface{}{
		{"patient_id": "P0001", "first_name": "Asha"},
	}
	svc := NewService(nil, &mockSettingsRepo{}, data)

	b, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if b.Version != BackupVersion {
		t.Errorf("version = %s", b.Version)
	}
	for _, row := range b.Data["users"] {
		if row["password_hash"] != "[REDACTED]" {
			t.Errorf("password_hash = %v, want [REDACTED]", row["password_hash"])
		}
	}
	if len(b.Data["patients"]) != 1 {
		t.Errorf("patients = %d, want 1", len(b.Data["patients"]))
	}
	for _, set := range backupSets {
		if _, ok := b.Data[set.Key]; !ok {
			t.Errorf("backup missing dataset %s", set.Key)
		}
	}
}

func TestClearDataOrdering(t *testing.T) {
	data := newMockDataRepo()
	svc := NewService(nil, &mockSettingsRepo{}, data)

	if err := svc.ClearData(context.Background(), "consultations"); err != nil {
		t.Fatalf("ClearData: %v", err)
	}
	want := []string{"bills", "investigations", "prescription_items", "prescriptions", "vitals", "consultations"}
	if len(data.deleted) != len(want) {
		t.Fatalf("deleted %v, want %v", data.deleted, want)
	}
	for i, table := range want {
		if data.deleted[i] != table {
			t.Errorf("deleted[%d] = %s, want %s", i, data.deleted[i], table)
		}
	}
}

func TestClearDataUnknownType(t *testing.T) {
	svc := NewService(nil, &mockSettingsRepo{}, newMockDataRepo())
	if err := svc.ClearData(context.Background(), "patients"); err == nil {
		t.Error("expected error for unsupported data type")
	}
	if err := svc.ClearData(context.Background(), "everything"); err == nil {
		t.Error("expected error for unknown data type")
	}
}
