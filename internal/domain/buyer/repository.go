package buyer

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Repository is the gorm-backed Store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates buyer repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *Buyer, rec *ChangeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Buyer, error) {
	var b Buyer
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) List(ctx context.Context, f Filters, page, pageSize int) ([]Buyer, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Model(&Buyer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var buyers []Buyer
	err := r.filtered(ctx, f).Order("updated_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&buyers).Error
	return buyers, total, err
}

func (r *Repository) ListAll(ctx context.Context, f Filters) ([]Buyer, error) {
	var buyers []Buyer
	err := r.filtered(ctx, f).Order("updated_at DESC").Find(&buyers).Error
	return buyers, err
}

// filtered applies the shared list/export filters. Search matches name
// and email case-insensitively and phone as a plain substring.
func (r *Repository) filtered(ctx context.Context, f Filters) *gorm.DB {
	q := r.db.WithContext(ctx)

	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			term, term, "%"+f.Search+"%",
		)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Timeline != "" {
		q = q.Where("timeline = ?", f.Timeline)
	}
	return q
}

func (r *Repository) Update(ctx context.Context, b *Buyer, prev time.Time, rec *ChangeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guard against a racing update that landed after the caller
		// read the record: the write only applies while the stored
		// timestamp is still the one the caller observed.
		res := tx.Model(&Buyer{}).
			Where("id = ? AND updated_at = ?", b.ID, prev).
			Select("*").Updates(b)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleRecord
		}
		if rec == nil {
			return nil
		}
		return tx.Create(rec).Error
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("buyer_id = ?", id).Delete(&ChangeRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Buyer{}, "id = ?", id).Error
	})
}

func (r *Repository) ImportBatch(ctx context.Context, buyers []*Buyer, recs []*ChangeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, b := range buyers {
			if err := tx.Create(b).Error; err != nil {
				return err
			}
			if err := tx.Create(recs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) History(ctx context.Context, buyerID string) ([]ChangeRecord, error) {
	var recs []ChangeRecord
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}
