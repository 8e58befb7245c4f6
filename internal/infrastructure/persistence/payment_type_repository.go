package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/sales"
)

// GormPaymentTypeRepository implements sales.PaymentTypeRepository using GORM
type GormPaymentTypeRepository struct {
	db *gorm.DB
}

// NewGormPaymentTypeRepository creates a new GormPaymentTypeRepository
func NewGormPaymentTypeRepository(db *gorm.DB) *GormPaymentTypeRepository {
	return &GormPaymentTypeRepository{db: db}
}

// FindByID finds a payment type by its ID, returning nil when absent
func (r *GormPaymentTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.PaymentType, error) {
	var pt sales.PaymentType
	if err := r.db.WithContext(ctx).First(&pt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pt, nil
}

// FindAll returns payment types ordered for display
func (r *GormPaymentTypeRepository) FindAll(ctx context.Context, includeInactive bool) ([]sales.PaymentType, error) {
	query := r.db.WithContext(ctx).Model(&sales.PaymentType{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var types []sales.PaymentType
	if err := query.Order("sort_order ASC, name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// FindActiveByNormalizedName resolves the unique-active-name rule
func (r *GormPaymentTypeRepository) FindActiveByNormalizedName(ctx context.Context, normalizedName string) (*sales.PaymentType, error) {
	var pt sales.PaymentType
	if err := r.db.WithContext(ctx).
		Where("normalized_name = ? AND is_active = ?", normalizedName, true).
		First(&pt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pt, nil
}

// Save creates or updates a payment type
func (r *GormPaymentTypeRepository) Save(ctx context.Context, paymentType *sales.PaymentType) error {
	return r.db.WithContext(ctx).Save(paymentType).Error
}
