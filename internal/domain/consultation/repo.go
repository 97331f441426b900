package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Update(ctx context.Context, c *Consultation) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error)
	ListQueue(ctx context.Context, day time.Time) ([]*Consultation, error)
}

type VitalsRepository interface {
	Upsert(ctx context.Context, v *Vitals) error
	GetByConsultation(ctx context.Context, consultationID uuid.UUID) (*Vitals, error)
}
