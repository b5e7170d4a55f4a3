package buyer

import (
	"context"
	"time"
)

// Store is the persistence surface the service depends on. The gorm
// Repository is the production implementation; tests substitute mocks.
type Store interface {
	// Create persists a buyer and its "created" audit record in one
	// transaction.
	Create(ctx context.Context, b *Buyer, rec *ChangeRecord) error
	// GetByID returns (nil, nil) when no buyer matches.
	GetByID(ctx context.Context, id string) (*Buyer, error)
	List(ctx context.Context, f Filters, page, pageSize int) ([]Buyer, int64, error)
	ListAll(ctx context.Context, f Filters) ([]Buyer, error)
	// Update persists the new state and, when rec is non-nil, its
	// "updated" audit record in one transaction. The write is
	// conditional on the stored update timestamp still being prev, so
	// two racing updates carrying the same token cannot both land;
	// the loser gets ErrStaleRecord.
	Update(ctx context.Context, b *Buyer, prev time.Time, rec *ChangeRecord) error
	// Delete removes the buyer together with its audit history.
	Delete(ctx context.Context, id string) error
	// ImportBatch inserts every pair atomically, each buyer strictly
	// before its record, in slice order. Any failure rolls the whole
	// batch back.
	ImportBatch(ctx context.Context, buyers []*Buyer, recs []*ChangeRecord) error
	// History returns audit records newest first.
	History(ctx context.Context, buyerID string) ([]ChangeRecord, error)
}
