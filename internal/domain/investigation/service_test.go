package investigation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Investigation
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: map[uuid.UUID]*Investigation{}}
}

func (m *mockRepo) Create(ctx context.Context, inv *Investigation) error {
	inv.ID = uuid.New()
	cp := *inv
	m.items[inv.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Investigation, error) {
	inv, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("investigation not found")
	}
	cp := *inv
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, inv *Investigation) error {
	if _, ok := m.items[inv.ID]; !ok {
		return fmt.Errorf("investigation not found")
	}
	cp := *inv
	m.items[inv.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Investigation, int, error) {
	var out []*Investigation
	for _, inv := range m.items {
		if st := params["status"]; st != "" && inv.Status != st {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func newOrder() *Investigation {
	return &Investigation{
		ConsultationID: uuid.New(),
		PatientID:      uuid.New(),
		TestName:       "Full Blood Count",
		TestType:       "BLOOD_TEST",
	}
}

func TestOrderSetsPending(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := newOrder()
	inv.Status = "COMPLETED"
	if err := svc.Order(context.Background(), inv); err != nil {
		t.Fatalf("Order: %v", err)
	}
	if inv.Status != StatusPending {
		t.Errorf("status = %s, want %s", inv.Status, StatusPending)
	}
	if inv.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestOrderValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	inv := newOrder()
	inv.TestType = "XRAY"
	if err := svc.Order(context.Background(), inv); err == nil {
		t.Error("expected error for invalid test type")
	}

	inv = newOrder()
	inv.TestName = ""
	if err := svc.Order(context.Background(), inv); err == nil {
		t.Error("expected error for missing test name")
	}

	inv = newOrder()
	inv.PatientID = uuid.Nil
	if err := svc.Order(context.Background(), inv); err == nil {
		t.Error("expected error for missing patient")
	}
}

func TestMarkProcessing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newOrder()
	if err := svc.Order(context.Background(), inv); err != nil {
		t.Fatalf("Order: %v", err)
	}

	got, err := svc.MarkProcessing(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if got.Status != StatusProcessing {
		t.Errorf("status = %s, want %s", got.Status, StatusProcessing)
	}

	if _, err := svc.MarkProcessing(context.Background(), inv.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("marking processing twice: err = %v, want ErrIllegalTransition", err)
	}
}

func TestMarkProcessing_UnknownID(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.MarkProcessing(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.RecordResult(context.Background(), uuid.New(), "clear"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordResult: err = %v, want ErrNotFound", err)
	}
}

func TestRecordResult(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newOrder()
	if err := svc.Order(context.Background(), inv); err != nil {
		t.Fatalf("Order: %v", err)
	}

	if _, err := svc.RecordResult(context.Background(), inv.ID, "all clear"); err == nil {
		t.Error("expected error recording result while still pending")
	}

	if _, err := svc.MarkProcessing(context.Background(), inv.ID); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if _, err := svc.RecordResult(context.Background(), inv.ID, ""); err == nil {
		t.Error("expected error for empty findings")
	}

	got, err := svc.RecordResult(context.Background(), inv.ID, "hemoglobin within range")
	if err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", got.Status, StatusCompleted)
	}
	if got.ResultDate == nil {
		t.Error("expected result date to be stamped")
	}
	if got.Findings == nil || *got.Findings != "hemoglobin within range" {
		t.Errorf("findings = %v", got.Findings)
	}

	if _, err := svc.RecordResult(context.Background(), inv.ID, "again"); err == nil {
		t.Error("expected error recording result twice")
	}
}

func TestUpdateRules(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := newOrder()
	if err := svc.Order(context.Background(), inv); err != nil {
		t.Fatalf("Order: %v", err)
	}

	edit := *inv
	edit.TestName = "Lipid Profile"
	edit.Status = StatusCompleted
	if err := svc.Update(context.Background(), &edit); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if edit.Status != StatusPending {
		t.Errorf("update flipped status to %s", edit.Status)
	}
	got, _ := svc.Get(context.Background(), inv.ID)
	if got.TestName != "Lipid Profile" {
		t.Errorf("test name = %s", got.TestName)
	}

	if _, err := svc.MarkProcessing(context.Background(), inv.ID); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if _, err := svc.RecordResult(context.Background(), inv.ID, "ok"); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	edit = *got
	edit.TestName = "Renal Panel"
	if err := svc.Update(context.Background(), &edit); err == nil {
		t.Error("expected error updating a completed investigation")
	}
}
