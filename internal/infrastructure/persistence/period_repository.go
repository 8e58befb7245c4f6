package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/period"
	"github.com/primtakip/backend/internal/domain/shared"
)

// GormPeriodRepository implements period.PeriodRepository using GORM
type GormPeriodRepository struct {
	db *gorm.DB
}

// NewGormPeriodRepository creates a new GormPeriodRepository
func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{db: db}
}

// FindByID finds a period with its transfer records, returning nil when absent
func (r *GormPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*period.Period, error) {
	var p period.Period
	if err := r.db.WithContext(ctx).
		Preload("TransferredSales").
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindByYearMonth finds the period for a calendar month
func (r *GormPeriodRepository) FindByYearMonth(ctx context.Context, year, month int) (*period.Period, error) {
	var p period.Period
	if err := r.db.WithContext(ctx).
		Preload("TransferredSales").
		Where("year = ? AND month = ?", year, month).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds all periods matching the filter
func (r *GormPeriodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]period.Period, error) {
	var periods []period.Period
	query := r.applyFilter(r.db.WithContext(ctx).Model(&period.Period{}), filter)

	if err := query.Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// Count counts periods matching the filter
func (r *GormPeriodRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&period.Period{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a period along with its transfer records
func (r *GormPeriodRepository) Save(ctx context.Context, p *period.Period) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveWithLock saves with optimistic locking: the update only matches the
// version the period was loaded with and bumps it in the same statement.
// Newly appended transfer records are inserted in the same transaction.
func (r *GormPeriodRepository) SaveWithLock(ctx context.Context, p *period.Period) error {
	loadedVersion := p.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(p).
			Where("id = ? AND version = ?", p.ID, loadedVersion).
			Updates(map[string]interface{}{
				"status":                  p.Status,
				"sales_start_date":        p.SalesStartDate,
				"sales_end_date":          p.SalesEndDate,
				"commission_due_date":     p.CommissionDueDate,
				"commission_paid_date":    p.CommissionPaidDate,
				"total_sales":             p.TotalSales,
				"total_commission":        p.TotalCommission,
				"total_unpaid_commission": p.TotalUnpaidCommission,
				"sales_count":             p.SalesCount,
				"last_calculated_at":      p.LastCalculatedAt,
				"closed_by":               p.ClosedBy,
				"closed_at":               p.ClosedAt,
				"version":                 loadedVersion + 1,
				"updated_at":              p.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range p.TransferredSales {
			ts := &p.TransferredSales[i]
			if err := tx.Where("period_id = ? AND sale_id = ?", ts.PeriodID, ts.SaleID).
				FirstOrCreate(ts).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.Version = loadedVersion + 1
	return nil
}

// ActivateExclusive atomically demotes every other active period to draft
// and promotes the given one
func (r *GormPeriodRepository) ActivateExclusive(ctx context.Context, p *period.Period) error {
	loadedVersion := p.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&period.Period{}).
			Where("status = ? AND id <> ?", period.PeriodStatusActive, p.ID).
			Update("status", period.PeriodStatusDraft).Error; err != nil {
			return err
		}

		result := tx.Model(p).
			Where("id = ? AND version = ?", p.ID, loadedVersion).
			Updates(map[string]interface{}{
				"status":     p.Status,
				"version":    loadedVersion + 1,
				"updated_at": p.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.Version = loadedVersion + 1
	return nil
}

// ExistsByYearMonth checks the unique (year, month) key
func (r *GormPeriodRepository) ExistsByYearMonth(ctx context.Context, year, month int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&period.Period{}).
		Where("year = ? AND month = ?", year, month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPeriodRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PeriodSortFields, "year")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "year" {
		query = query.Order("year " + orderDir).Order("month " + orderDir)
	} else {
		query = query.Order(orderBy + " " + orderDir)
	}

	return query
}

func (r *GormPeriodRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "year":
			query = query.Where("year = ?", value)
		}
	}
	return query
}
