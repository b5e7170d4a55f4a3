package buyer

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rv-work/Mini-Buyers/internal/database"
)

func setupRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Buyer{}, &ChangeRecord{}))

	return NewRepository(db), db
}

func newBuyer(owner, name, phone string) (*Buyer, *ChangeRecord) {
	now := time.Now().UTC()
	in := validInput()
	in.FullName = name
	in.Phone = phone

	b := &Buyer{ID: uuid.NewString(), OwnerID: owner, CreatedAt: now, UpdatedAt: now}
	applyInput(b, in)

	diff, _ := CreatedDiff(in)
	rec := &ChangeRecord{
		ID: uuid.NewString(), BuyerID: b.ID, ChangedBy: owner,
		Diff: diff, CreatedAt: now,
	}
	return b, rec
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	b, rec := newBuyer("u-1", "John Doe", "9876543210")
	require.NoError(t, repo.Create(ctx, b, rec))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.FullName, got.FullName)
	assert.Equal(t, StringSlice{"urgent", "investor"}, got.Tags)
	require.NotNil(t, got.BHK)
	assert.Equal(t, BHKTwo, *got.BHK)

	history, err := repo.History(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Diff, `"action":"created"`)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_SearchByPhoneSubstring(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	match, rec1 := newBuyer("u-1", "Match Lead", "9876543210")
	other, rec2 := newBuyer("u-1", "Other Lead", "1234567890")
	require.NoError(t, repo.Create(ctx, match, rec1))
	require.NoError(t, repo.Create(ctx, other, rec2))

	buyers, total, err := repo.List(ctx, Filters{Search: "9876"}, 1, PageSize)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, buyers, 1)
	assert.Equal(t, "Match Lead", buyers[0].FullName)
}

func TestRepository_SearchByNameCaseInsensitive(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	b, rec := newBuyer("u-1", "John Doe", "9876543210")
	require.NoError(t, repo.Create(ctx, b, rec))

	buyers, _, err := repo.List(ctx, Filters{Search: "jOhN"}, 1, PageSize)
	require.NoError(t, err)
	require.Len(t, buyers, 1)

	buyers, _, err = repo.List(ctx, Filters{Search: "nobody"}, 1, PageSize)
	require.NoError(t, err)
	assert.Empty(t, buyers)
}

func TestRepository_FiltersAndPagination(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		b, rec := newBuyer("u-1", "Chandigarh Lead", "9000000000")
		// Spread updates so ordering is deterministic.
		b.UpdatedAt = b.UpdatedAt.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, b, rec))
	}
	mohali, rec := newBuyer("u-1", "Mohali Lead", "9111111111")
	mohali.City = CityMohali
	require.NoError(t, repo.Create(ctx, mohali, rec))

	buyers, total, err := repo.List(ctx, Filters{City: CityChandigarh}, 1, PageSize)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, buyers, PageSize)

	buyers, _, err = repo.List(ctx, Filters{City: CityChandigarh}, 2, PageSize)
	require.NoError(t, err)
	assert.Len(t, buyers, 2)

	// Newest update first.
	buyers, _, err = repo.List(ctx, Filters{}, 1, PageSize)
	require.NoError(t, err)
	for i := 1; i < len(buyers); i++ {
		assert.False(t, buyers[i].UpdatedAt.After(buyers[i-1].UpdatedAt))
	}
}

func TestRepository_UpdateWithAndWithoutRecord(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	b, rec := newBuyer("u-1", "John Doe", "9876543210")
	require.NoError(t, repo.Create(ctx, b, rec))

	prev := b.UpdatedAt
	b.Notes = "changed"
	b.UpdatedAt = prev.Add(time.Second)
	diff, _ := UpdatedDiff(map[string]FieldChange{"notes": {From: "", To: "changed"}})
	upd := &ChangeRecord{
		ID: uuid.NewString(), BuyerID: b.ID, ChangedBy: "u-1",
		Diff: diff, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Update(ctx, b, prev, upd))

	history, err := repo.History(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// A nil record persists the write without touching history.
	prev = b.UpdatedAt
	b.Notes = "changed again"
	b.UpdatedAt = prev.Add(time.Second)
	require.NoError(t, repo.Update(ctx, b, prev, nil))
	history, err = repo.History(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRepository_UpdateRejectsConcurrentWrite(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	b, rec := newBuyer("u-1", "John Doe", "9876543210")
	require.NoError(t, repo.Create(ctx, b, rec))
	observed := b.UpdatedAt

	// A second writer lands first using the same observed timestamp.
	winner := *b
	winner.Notes = "first writer"
	winner.UpdatedAt = observed.Add(time.Second)
	require.NoError(t, repo.Update(ctx, &winner, observed, nil))

	// The slower writer read the record before the first write; its
	// observed timestamp no longer matches the stored row.
	loser := *b
	loser.Notes = "second writer"
	loser.UpdatedAt = observed.Add(2 * time.Second)
	diff, _ := UpdatedDiff(map[string]FieldChange{"notes": {From: "", To: "second writer"}})
	losing := &ChangeRecord{
		ID: uuid.NewString(), BuyerID: b.ID, ChangedBy: "u-1",
		Diff: diff, CreatedAt: time.Now().UTC(),
	}
	err := repo.Update(ctx, &loser, observed, losing)
	require.ErrorIs(t, err, ErrStaleRecord)

	// The first write stands and the losing record was rolled back.
	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.Notes)

	history, err := repo.History(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRepository_DeleteCascadesHistory(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	b, rec := newBuyer("u-1", "John Doe", "9876543210")
	require.NoError(t, repo.Create(ctx, b, rec))
	require.NoError(t, repo.Delete(ctx, b.ID))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var count int64
	require.NoError(t, db.Model(&ChangeRecord{}).Where("buyer_id = ?", b.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_ImportBatchIsAtomic(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	b1, r1 := newBuyer("u-1", "Row One", "9000000001")
	b2, r2 := newBuyer("u-1", "Row Two", "9000000002")
	// Force a mid-transaction failure: the second record reuses the
	// first record's primary key.
	r2.ID = r1.ID

	err := repo.ImportBatch(ctx, []*Buyer{b1, b2}, []*ChangeRecord{r1, r2})
	require.Error(t, err)

	var buyers, records int64
	require.NoError(t, db.Model(&Buyer{}).Count(&buyers).Error)
	require.NoError(t, db.Model(&ChangeRecord{}).Count(&records).Error)
	assert.Zero(t, buyers, "rollback must leave no buyers")
	assert.Zero(t, records, "rollback must leave no history")
}

func TestRepository_ImportBatchOrderPreserved(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	names := []string{"Lead One", "Lead Two", "Lead Three", "Lead Four", "Lead Five"}

	var buyers []*Buyer
	var recs []*ChangeRecord
	base := time.Now().UTC()
	for i, name := range names {
		b, r := newBuyer("u-1", name, fmt.Sprintf("900000000%d", i+1))
		b.CreatedAt = base
		// Distinct timestamps make the list order observable.
		b.UpdatedAt = base.Add(time.Duration(i) * time.Second)
		buyers = append(buyers, b)
		recs = append(recs, r)
	}
	require.NoError(t, repo.ImportBatch(ctx, buyers, recs))

	all, err := repo.ListAll(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, all, len(names))
	for i, b := range all {
		assert.Equal(t, names[len(names)-1-i], b.FullName, "position %d", i)
	}

	// Every buyer keeps its own paired record.
	for _, b := range buyers {
		history, err := repo.History(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, b.ID, history[0].BuyerID)
	}
}
