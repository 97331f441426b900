package prescription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	prescriptions map[uuid.UUID]*Prescription
	items         map[uuid.UUID]*Item
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		prescriptions: make(map[uuid.UUID]*Prescription),
		items:         make(map[uuid.UUID]*Item),
	}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	for _, item := range p.Items {
		item.ID = uuid.New()
		item.PrescriptionID = p.ID
		m.items[item.ID] = item
	}
	m.prescriptions[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.prescriptions[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.prescriptions, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var result []*Prescription
	for _, p := range m.prescriptions {
		if p.PatientID == patientID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByConsultation(_ context.Context, consultationID uuid.UUID) ([]*Prescription, error) {
	var result []*Prescription
	for _, p := range m.prescriptions {
		if p.ConsultationID == consultationID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepo) AddItem(_ context.Context, item *Item) error {
	item.ID = uuid.New()
	m.items[item.ID] = item
	if p, ok := m.prescriptions[item.PrescriptionID]; ok {
		p.Items = append(p.Items, item)
	}
	return nil
}

func (m *mockRepo) RemoveItem(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ItemsByPrescription(_ context.Context, prescriptionID uuid.UUID) ([]*Item, error) {
	var result []*Item
	for _, item := range m.items {
		if item.PrescriptionID == prescriptionID {
			result = append(result, item)
		}
	}
	return result, nil
}

type mockTemplateRepo struct {
	templates map[uuid.UUID]*Template
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{templates: make(map[uuid.UUID]*Template)}
}

func (m *mockTemplateRepo) Create(_ context.Context, t *Template) error {
	t.ID = uuid.New()
	for _, item := range t.Items {
		item.ID = uuid.New()
		item.TemplateID = t.ID
	}
	m.templates[t.ID] = t
	return nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (m *mockTemplateRepo) Update(_ context.Context, t *Template) error {
	m.templates[t.ID] = t
	return nil
}

func (m *mockTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.templates, id)
	return nil
}

func (m *mockTemplateRepo) List(_ context.Context, limit, offset int) ([]*Template, int, error) {
	var result []*Template
	for _, t := range m.templates {
		result = append(result, t)
	}
	return result, len(result), nil
}

func (m *mockTemplateRepo) AddItem(_ context.Context, item *TemplateItem) error {
	item.ID = uuid.New()
	t, ok := m.templates[item.TemplateID]
	if !ok {
		return fmt.Errorf("not found")
	}
	t.Items = append(t.Items, item)
	return nil
}

func (m *mockTemplateRepo) RemoveItem(_ context.Context, id uuid.UUID) error {
	for _, t := range m.templates {
		for i, item := range t.Items {
			if item.ID == id {
				t.Items = append(t.Items[:i], t.Items[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (m *mockTemplateRepo) ItemsByTemplate(_ context.Context, templateID uuid.UUID) ([]*TemplateItem, error) {
	t, ok := m.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t.Items, nil
}

func newTestService() (*Service, *mockRepo, *mockTemplateRepo) {
	repo := newMockRepo()
	templates := newMockTemplateRepo()
	return NewService(repo, templates), repo, templates
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	svc, _, _ := newTestService()

	p := &Prescription{
		ConsultationID: uuid.New(),
		PatientID:      uuid.New(),
		DoctorID:       uuid.New(),
		Items: []*Item{
			{DrugName: "Paracetamol 500mg", Dosage: strPtr("1-1-1"), Duration: strPtr("5 days")},
		},
	}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.Items) != 1 || p.Items[0].PrescriptionID != p.ID {
		t.Error("expected items to be linked to the prescription")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	p := &Prescription{PatientID: uuid.New(), DoctorID: uuid.New()}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for missing consultation")
	}

	p = &Prescription{
		ConsultationID: uuid.New(),
		PatientID:      uuid.New(),
		DoctorID:       uuid.New(),
		Items:          []*Item{{DrugName: ""}},
	}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Error("expected error for item without drug name")
	}
}

func TestCreateFromTemplate(t *testing.T) {
	svc, _, templates := newTestService()

	tpl := &Template{
		Name: "Viral Fever",
		Items: []*TemplateItem{
			{DrugName: "Paracetamol 500mg", Dosage: strPtr("1-1-1"), Duration: strPtr("3 days")},
			{DrugName: "Cetirizine 10mg", Dosage: strPtr("0-0-1"), Duration: strPtr("5 days")},
		},
	}
	if err := svc.CreateTemplate(context.Background(), tpl); err != nil {
		t.Fatal(err)
	}
	_ = templates

	consultationID, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()
	p, err := svc.CreateFromTemplate(context.Background(), tpl.ID, consultationID, patientID, doctorID)
	if err != nil {
		t.Fatalf("CreateFromTemplate: %v", err)
	}
	if len(p.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(p.Items))
	}
	if p.Items[0].DrugName != "Paracetamol 500mg" {
		t.Errorf("first drug = %q", p.Items[0].DrugName)
	}
	if p.ConsultationID != consultationID || p.PatientID != patientID || p.DoctorID != doctorID {
		t.Error("prescription not linked to the consultation")
	}

	// The copy is independent of the template.
	p.Items[0].DrugName = "Changed"
	if tpl.Items[0].DrugName != "Paracetamol 500mg" {
		t.Error("template items must not share memory with the prescription")
	}
}

func TestCreateFromTemplate_MissingTemplate(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.CreateFromTemplate(context.Background(), uuid.New(), uuid.New(), uuid.New(), uuid.New()); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestAddItem(t *testing.T) {
	svc, _, _ := newTestService()

	p := &Prescription{ConsultationID: uuid.New(), PatientID: uuid.New(), DoctorID: uuid.New()}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	item := &Item{DrugName: "Amoxicillin 250mg"}
	if err := svc.AddItem(context.Background(), p.ID, item); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.PrescriptionID != p.ID {
		t.Error("item not linked")
	}

	if err := svc.AddItem(context.Background(), uuid.New(), &Item{DrugName: "X"}); err == nil {
		t.Error("expected error for unknown prescription")
	}
	if err := svc.AddItem(context.Background(), p.ID, &Item{}); err == nil {
		t.Error("expected error for empty drug name")
	}
}

func TestTemplateValidation(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.CreateTemplate(context.Background(), &Template{}); err == nil {
		t.Error("expected error for unnamed template")
	}
	if err := svc.CreateTemplate(context.Background(), &Template{
		Name:  "Bad",
		Items: []*TemplateItem{{}},
	}); err == nil {
		t.Error("expected error for template item without drug name")
	}
}
