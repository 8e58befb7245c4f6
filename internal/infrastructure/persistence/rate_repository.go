package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/commission"
)

// GormRateRepository implements commission.RateRepository using GORM
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// FindByID finds a rate by its ID, returning nil when absent
func (r *GormRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Rate, error) {
	var rate commission.Rate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// FindActive returns the active rate with the most recent effective date,
// or nil when no rate has been configured yet
func (r *GormRateRepository) FindActive(ctx context.Context) (*commission.Rate, error) {
	var rate commission.Rate
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("effective_date DESC").
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// FindHistory returns all rates, newest first
func (r *GormRateRepository) FindHistory(ctx context.Context) ([]commission.Rate, error) {
	var rates []commission.Rate
	if err := r.db.WithContext(ctx).
		Order("effective_date DESC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// Save creates or updates a rate
func (r *GormRateRepository) Save(ctx context.Context, rate *commission.Rate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// ReplaceActive deactivates every active rate and inserts the new one as
// active within a single transaction
func (r *GormRateRepository) ReplaceActive(ctx context.Context, rate *commission.Rate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&commission.Rate{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(rate).Error
	})
}
