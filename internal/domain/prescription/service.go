package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	prescriptions Repository
	templates     TemplateRepository
}

func NewService(prescriptions Repository, templates TemplateRepository) *Service {
	return &Service{prescriptions: prescriptions, templates: templates}
}

func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.ConsultationID == uuid.Nil {
		return fmt.Errorf("consultation_id is required")
	}
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	for _, item := range p.Items {
		if item.DrugName == "" {
			return fmt.Errorf("drug_name is required for every item")
		}
	}
	return s.prescriptions.Create(ctx, p)
}

// CreateFromTemplate copies a template's drug lines into a new
// prescription for the consultation.
func (s *Service) CreateFromTemplate(ctx context.Context, templateID uuid.UUID, consultationID, patientID, doctorID uuid.UUID) (*Prescription, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("template not found")
	}
	p := &Prescription{
		ConsultationID: consultationID,
		PatientID:      patientID,
		DoctorID:       doctorID,
	}
	for _, ti := range tpl.Items {
		p.Items = append(p.Items, &Item{
			DrugName:     ti.DrugName,
			Dosage:       ti.Dosage,
			Duration:     ti.Duration,
			Instructions: ti.Instructions,
		})
	}
	if err := s.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.prescriptions.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByConsultation(ctx context.Context, consultationID uuid.UUID) ([]*Prescription, error) {
	return s.prescriptions.ListByConsultation(ctx, consultationID)
}

func (s *Service) AddItem(ctx context.Context, prescriptionID uuid.UUID, item *Item) error {
	if item.DrugName == "" {
		return fmt.Errorf("drug_name is required")
	}
	if _, err := s.prescriptions.GetByID(ctx, prescriptionID); err != nil {
		return fmt.Errorf("prescription not found")
	}
	item.PrescriptionID = prescriptionID
	return s.prescriptions.AddItem(ctx, item)
}

func (s *Service) RemoveItem(ctx context.Context, id uuid.UUID) error {
	return s.prescriptions.RemoveItem(ctx, id)
}

// -- Templates --

func (s *Service) CreateTemplate(ctx context.Context, t *Template) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	for _, item := range t.Items {
		if item.DrugName == "" {
			return fmt.Errorf("drug_name is required for every item")
		}
	}
	return s.templates.Create(ctx, t)
}

func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (*Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, t *Template) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.templates.Update(ctx, t)
}

func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.templates.Delete(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, limit, offset int) ([]*Template, int, error) {
	return s.templates.List(ctx, limit, offset)
}

func (s *Service) AddTemplateItem(ctx context.Context, templateID uuid.UUID, item *TemplateItem) error {
	if item.DrugName == "" {
		return fmt.Errorf("drug_name is required")
	}
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return fmt.Errorf("template not found")
	}
	item.TemplateID = templateID
	return s.templates.AddItem(ctx, item)
}

func (s *Service) RemoveTemplateItem(ctx context.Context, id uuid.UUID) error {
	return s.templates.RemoveItem(ctx, id)
}
