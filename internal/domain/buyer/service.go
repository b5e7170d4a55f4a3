package buyer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PageSize is the fixed page size of GET /leads.
const PageSize = 10

// RateLimiter gates mutating actions per caller. The production
// implementation is internal/ratelimit; tests swap it out.
type RateLimiter interface {
	Allow(key string, limit int) bool
}

// Limits configures the per-user fixed-window quotas.
type Limits struct {
	CreatePerMinute int
	UpdatePerMinute int
}

// DefaultLimits mirrors the product rule: 5 creations and 10 updates
// per user per minute.
var DefaultLimits = Limits{CreatePerMinute: 5, UpdatePerMinute: 10}

// Service handles buyer business logic. The acting user is always an
// explicit parameter; the service never reads ambient session state.
type Service struct {
	store   Store
	limiter RateLimiter
	limits  Limits
	now     func() time.Time
}

// NewService creates buyer service
func NewService(store Store, limiter RateLimiter, limits Limits) *Service {
	return &Service{
		store:   store,
		limiter: limiter,
		limits:  limits,
		now:     time.Now,
	}
}

// Create validates in, persists a new buyer owned by userID and writes
// its "created" audit record in the same transaction.
func (s *Service) Create(ctx context.Context, userID string, in BuyerInput) (*Buyer, error) {
	if !s.limiter.Allow("create-buyer-"+userID, s.limits.CreatePerMinute) {
		return nil, ErrRateLimited
	}

	if err := ValidateInput(&in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &Buyer{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(b, in)

	diff, err := CreatedDiff(in)
	if err != nil {
		return nil, err
	}
	rec := s.newRecord(b.ID, userID, diff, now)

	if err := s.store.Create(ctx, b, rec); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns one buyer with its audit history, newest entries first.
func (s *Service) Get(ctx context.Context, id string) (*BuyerDetail, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	recs, err := s.store.History(ctx, id)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, len(recs))
	for i, r := range recs {
		history[i] = HistoryEntry{
			ID:        r.ID,
			ChangedBy: r.ChangedBy,
			Diff:      json.RawMessage(r.Diff),
			CreatedAt: r.CreatedAt,
		}
	}
	return &BuyerDetail{Buyer: *b, History: history}, nil
}

// List returns one fixed-size page sorted by last update, newest first.
func (s *Service) List(ctx context.Context, f Filters, page int) (*ListResponse, error) {
	buyers, total, err := s.store.List(ctx, f, page, PageSize)
	if err != nil {
		return nil, err
	}
	if buyers == nil {
		buyers = []Buyer{}
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return &ListResponse{
		Items:      buyers,
		Total:      total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}, nil
}

// Update overwrites the buyer with in if userID owns it and token still
// matches the stored update timestamp. A stale token is a conflict, not
// a silent overwrite. The per-field diff is written as an audit record
// in the same transaction; a zero-diff update persists without one.
func (s *Service) Update(ctx context.Context, userID, id string, in BuyerInput, token time.Time) (*Buyer, error) {
	if !s.limiter.Allow("update-buyer-"+userID, s.limits.UpdatePerMinute) {
		return nil, ErrRateLimited
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if existing.OwnerID != userID {
		return nil, ErrForbidden
	}

	if token.IsZero() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "updatedAt", Message: "is required"}}}
	}
	// Millisecond precision: the token round-trips through JSON and
	// the database, which may not keep nanoseconds.
	if token.UnixMilli() != existing.UpdatedAt.UnixMilli() {
		return nil, ErrStaleRecord
	}

	if err := ValidateInput(&in); err != nil {
		return nil, err
	}

	changes := Diff(existing, in)

	now := s.now().UTC()
	updated := *existing
	applyInput(&updated, in)
	updated.UpdatedAt = now

	var rec *ChangeRecord
	if len(changes) > 0 {
		diff, err := UpdatedDiff(changes)
		if err != nil {
			return nil, err
		}
		rec = s.newRecord(updated.ID, userID, diff, now)
	}

	if err := s.store.Update(ctx, &updated, existing.UpdatedAt, rec); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the buyer and its history if userID owns it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.OwnerID != userID {
		return ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// Export returns every buyer matching f, sorted like the list view.
func (s *Service) Export(ctx context.Context, f Filters) ([]Buyer, error) {
	return s.store.ListAll(ctx, f)
}

func (s *Service) newRecord(buyerID, userID, diff string, at time.Time) *ChangeRecord {
	return &ChangeRecord{
		ID:        uuid.NewString(),
		BuyerID:   buyerID,
		ChangedBy: userID,
		Diff:      diff,
		CreatedAt: at,
	}
}

func applyInput(b *Buyer, in BuyerInput) {
	b.FullName = in.FullName
	b.Email = in.Email
	b.Phone = in.Phone
	b.City = in.City
	b.PropertyType = in.PropertyType
	b.BHK = in.BHK
	b.Purpose = in.Purpose
	b.BudgetMin = in.BudgetMin
	b.BudgetMax = in.BudgetMax
	b.Timeline = in.Timeline
	b.Source = in.Source
	b.Status = in.Status
	b.Notes = in.Notes
	b.Tags = StringSlice(in.Tags)
}
