package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
	CountByDay(ctx context.Context, day time.Time) (int, error)
	BookedSlots(ctx context.Context, day time.Time, doctorID *uuid.UUID) ([]string, error)
	ListByDay(ctx context.Context, day time.Time) ([]*Appointment, error)
}
