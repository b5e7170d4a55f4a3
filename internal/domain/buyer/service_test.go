package buyer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, b *Buyer, rec *ChangeRecord) error {
	args := m.Called(ctx, b, rec)
	return args.Error(0)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Buyer), args.Error(1)
}

func (m *MockStore) List(ctx context.Context, f Filters, page, pageSize int) ([]Buyer, int64, error) {
	args := m.Called(ctx, f, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]Buyer), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) ListAll(ctx context.Context, f Filters) ([]Buyer, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Buyer), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, b *Buyer, prev time.Time, rec *ChangeRecord) error {
	args := m.Called(ctx, b, prev, rec)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) ImportBatch(ctx context.Context, buyers []*Buyer, recs []*ChangeRecord) error {
	args := m.Called(ctx, buyers, recs)
	return args.Error(0)
}

func (m *MockStore) History(ctx context.Context, buyerID string) ([]ChangeRecord, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ChangeRecord), args.Error(1)
}

// Limiter stubs
type allowAll struct{}

func (allowAll) Allow(string, int) bool { return true }

type denyAll struct{}

func (denyAll) Allow(string, int) bool { return false }

func newTestService(store Store, lim RateLimiter) *Service {
	return NewService(store, lim, DefaultLimits)
}

func TestService_Create_Success(t *testing.T) {
	store := new(MockStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*buyer.Buyer"), mock.AnythingOfType("*buyer.ChangeRecord")).Return(nil)

	svc := newTestService(store, allowAll{})
	b, err := svc.Create(context.Background(), "u-1", validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "u-1", b.OwnerID)
	assert.Equal(t, StatusNew, b.Status)
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)

	store.AssertExpectations(t)
	rec := store.Calls[0].Arguments.Get(2).(*ChangeRecord)
	assert.Equal(t, b.ID, rec.BuyerID)
	assert.Equal(t, "u-1", rec.ChangedBy)
	assert.Contains(t, rec.Diff, `"action":"created"`)
}

func TestService_Create_RateLimited(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store, denyAll{})

	_, err := svc.Create(context.Background(), "u-1", validInput())
	assert.ErrorIs(t, err, ErrRateLimited)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_InvalidInput(t *testing.T) {
	store := new(MockStore)
	svc := newTestService(store, allowAll{})

	in := validInput()
	in.Phone = "123"
	_, err := svc.Create(context.Background(), "u-1", in)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_StaleTokenConflicts(t *testing.T) {
	existing := storedBuyer()
	store := new(MockStore)
	store.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

	svc := newTestService(store, allowAll{})
	stale := existing.UpdatedAt.Add(-time.Second)

	_, err := svc.Update(context.Background(), existing.OwnerID, existing.ID, inputMatching(existing), stale)
	assert.ErrorIs(t, err, ErrStaleRecord)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_CurrentTokenAdvances(t *testing.T) {
	existing := storedBuyer()
	store := new(MockStore)
	store.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	store.On("Update", mock.Anything, mock.AnythingOfType("*buyer.Buyer"), existing.UpdatedAt, mock.AnythingOfType("*buyer.ChangeRecord")).Return(nil)

	svc := newTestService(store, allowAll{})
	in := inputMatching(existing)
	in.Notes = "now wants a villa instead"

	updated, err := svc.Update(context.Background(), existing.OwnerID, existing.ID, in, existing.UpdatedAt)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(existing.UpdatedAt))
	assert.Equal(t, in.Notes, updated.Notes)

	// The conditional write is keyed on the timestamp the caller read.
	store.AssertExpectations(t)
}

func TestService_Update_MissingToken(t *testing.T) {
	existing := storedBuyer()
	store := new(MockStore)
	store.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

	svc := newTestService(store, allowAll{})
	_, err := svc.Update(context.Background(), existing.OwnerID, existing.ID, inputMatching(existing), time.Time{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "updatedAt", verr.Fields[0].Field)
}

func TestService_Update_ZeroDiffWritesNoRecord(t *testing.T) {
	existing := storedBuyer()
	store := new(MockStore)
	store.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	store.On("Update", mock.Anything, mock.AnythingOfType("*buyer.Buyer"), existing.UpdatedAt, (*ChangeRecord)(nil)).Return(nil)

	svc := newTestService(store, allowAll{})
	_, err := svc.Update(context.Background(), existing.OwnerID, existing.ID, inputMatching(existing), existing.UpdatedAt)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_Update_NotOwner(t *testing.T) {
	existing := storedBuyer()
	store := new(MockStore)
	store.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

	svc := newTestService(store, allowAll{})
	_, err := svc.Update(context.Background(), "intruder", existing.ID, inputMatching(existing), existing.UpdatedAt)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Update_NotFound(t *testing.T) {
	store := new(MockStore)
	store.On("GetByID", mock.Anything, "missing").Return(nil, nil)

	svc := newTestService(store, allowAll{})
	_, err := svc.Update(context.Background(), "u-1", "missing", validInput(), time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete_OwnershipEnforced(t *testing.T) {
	existing := storedBuyer()
	store := new(MockStore)
	store.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

	svc := newTestService(store, allowAll{})
	assert.ErrorIs(t, svc.Delete(context.Background(), "intruder", existing.ID), ErrForbidden)

	store.On("Delete", mock.Anything, existing.ID).Return(nil)
	assert.NoError(t, svc.Delete(context.Background(), existing.OwnerID, existing.ID))
}

func TestService_List_Pagination(t *testing.T) {
	store := new(MockStore)
	store.On("List", mock.Anything, Filters{}, 2, PageSize).Return([]Buyer{*storedBuyer()}, int64(25), nil)

	svc := newTestService(store, allowAll{})
	list, err := svc.List(context.Background(), Filters{}, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(25), list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, PageSize, list.PageSize)
	assert.Equal(t, 3, list.TotalPages)
}
