package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
	ListByConsultation(ctx context.Context, consultationID uuid.UUID) ([]*Prescription, error)

	AddItem(ctx context.Context, item *Item) error
	RemoveItem(ctx context.Context, id uuid.UUID) error
	ItemsByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*Item, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Template, int, error)

	AddItem(ctx context.Context, item *TemplateItem) error
	RemoveItem(ctx context.Context, id uuid.UUID) error
	ItemsByTemplate(ctx context.Context, templateID uuid.UUID) ([]*TemplateItem, error)
}
