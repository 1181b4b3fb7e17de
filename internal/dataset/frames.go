package dataset

import (
	"time"

	"github.com/google/uuid"

	"palantir/internal/domain"
)

// Frames is one immutable snapshot of the three dataset tables. Report
// services only ever read it; refreshing swaps the whole value.
type Frames struct {
	SnapshotID uuid.UUID
	LoadedAt   time.Time
	Source     string
	Orders     []domain.Order
	Items      []domain.OrderItem
	Products   []domain.Product
	Warnings   []string
}

func (f *Frames) Empty() bool {
	return f == nil || (len(f.Orders) == 0 && len(f.Items) == 0 && len(f.Products) == 0)
}
