package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByYear(ctx context.Context, year int) (int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error)
}
