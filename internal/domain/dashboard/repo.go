package dashboard

import (
	"context"
	"time"
)

type Repository interface {
	Stats(ctx context.Context, day time.Time) (*Stats, error)
	Queue(ctx context.Context, day time.Time) ([]*QueueEntry, error)
}
