package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
	failNext bool
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if m.failNext {
		m.failNext = false
		if m.failWith != nil {
			return m.failWith
		}
		return &pgconn.PgError{Code: "23505"}
	}
	for _, existing := range m.patients {
		if existing.PatientID == p.PatientID {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) GetByPatientID(_ context.Context, patientID string) (*Patient, error) {
	for _, p := range m.patients {
		if p.PatientID == patientID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, _ map[string]string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.patients), nil
}

func validPatient() *Patient {
	return &Patient{
		FirstName:   "Kasun",
		LastName:    "Silva",
		DateOfBirth: time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC),
		Gender:      "MALE",
	}
}

func TestCreate_AssignsPatientID(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p1 := validPatient()
	if err := svc.Create(context.Background(), p1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p1.PatientID != "P0001" {
		t.Errorf("patient_id = %q, want P0001", p1.PatientID)
	}

	p2 := validPatient()
	if err := svc.Create(context.Background(), p2); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if p2.PatientID != "P0002" {
		t.Errorf("second patient_id = %q, want P0002", p2.PatientID)
	}
	if p1.Age == 0 {
		t.Error("expected age to be computed")
	}
}

func TestCreate_RetriesOnCollision(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.failNext = true

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if p.PatientID != "P0001" {
		t.Errorf("patient_id = %q, want P0001", p.PatientID)
	}
}

func TestCreate_NoRetryOnOtherErrors(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.failNext = true
	repo.failWith = fmt.Errorf("connection reset")

	if err := svc.Create(context.Background(), validPatient()); err == nil {
		t.Fatal("expected the repo error to surface")
	}
	if len(repo.patients) != 0 {
		t.Error("insert should not have been retried")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPatient()
	p.FirstName = ""
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for missing first_name")
	}

	p = validPatient()
	p.Gender = "UNKNOWN"
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for invalid gender")
	}

	p = validPatient()
	p.DateOfBirth = time.Now().AddDate(1, 0, 0)
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for future date of birth")
	}
}

func TestUpdate_PreservesPatientID(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	update := validPatient()
	update.ID = p.ID
	update.PatientID = "P9999"
	update.FirstName = "Nimal"
	if err := svc.Update(context.Background(), update); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if update.PatientID != "P0001" {
		t.Errorf("patient_id after update = %q, want P0001", update.PatientID)
	}
	if repo.patients[p.ID].FirstName != "Nimal" {
		t.Error("first name not updated")
	}
}

func TestGetByPatientID(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetByPatientID(context.Background(), "P0001")
	if err != nil {
		t.Fatalf("GetByPatientID: %v", err)
	}
	if got.ID != p.ID {
		t.Error("wrong patient returned")
	}
	if got.Age == 0 {
		t.Error("expected age to be computed")
	}
}
