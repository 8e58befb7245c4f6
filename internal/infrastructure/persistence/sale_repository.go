package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/sales"
	"github.com/primtakip/backend/internal/domain/shared"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID, returning nil when absent
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// FindByContractNumber finds a sale by its unique contract number
func (r *GormSaleRepository) FindByContractNumber(ctx context.Context, contractNumber string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Where("contract_number = ?", contractNumber).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)

	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindInWindow returns non-deleted sales whose sale date falls within the
// inclusive range
func (r *GormSaleRepository) FindInWindow(ctx context.Context, from, to time.Time, activeOnly bool) ([]sales.Sale, error) {
	query := r.db.WithContext(ctx).
		Where("sale_date >= ? AND sale_date <= ?", from, to)

	if activeOnly {
		query = query.Where("status = ?", sales.SaleStatusActive)
	} else {
		query = query.Where("status <> ?", sales.SaleStatusDeleted)
	}

	var result []sales.Sale
	if err := query.Order("sale_date ASC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByIDs finds multiple sales by their IDs, skipping missing ones
func (r *GormSaleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]sales.Sale, error) {
	if len(ids) == 0 {
		return []sales.Sale{}, nil
	}

	var result []sales.Sale
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

// SaveWithLock saves with optimistic locking: the update only matches the
// version the sale was loaded with and bumps it in the same statement.
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	loadedVersion := sale.Version
	result := r.db.WithContext(ctx).
		Model(sale).
		Where("id = ? AND version = ?", sale.ID, loadedVersion).
		Updates(map[string]interface{}{
			"contract_number":              sale.ContractNumber,
			"customer_name":                sale.CustomerName,
			"customer_surname":             sale.CustomerSurname,
			"block_number":                 sale.BlockNumber,
			"apartment_number":             sale.ApartmentNumber,
			"period_number":                sale.PeriodNumber,
			"sale_date":                    sale.SaleDate,
			"payment_type_id":              sale.PaymentTypeID,
			"list_price":                   sale.ListPrice,
			"activity_sale_price":          sale.ActivitySalePrice,
			"commission_rate":              sale.CommissionRate,
			"commission":                   sale.Commission,
			"commission_adjustment":        sale.CommissionAdjustment,
			"commission_adjustment_reason": sale.CommissionAdjustmentReason,
			"status":                       sale.Status,
			"cancelled_by":                 sale.CancelledBy,
			"cancelled_at":                 sale.CancelledAt,
			"commission_paid_by":           sale.CommissionPaidBy,
			"commission_paid_at":           sale.CommissionPaidAt,
			"has_modifications":            sale.HasModifications,
			"modified_by":                  sale.ModifiedBy,
			"modified_at":                  sale.ModifiedAt,
			"modification_note":            sale.ModificationNote,
			"original_block_number":        sale.Original.BlockNumber,
			"original_apartment_number":    sale.Original.ApartmentNumber,
			"original_list_price":          sale.Original.ListPrice,
			"original_activity_sale_price": sale.Original.ActivitySalePrice,
			"original_contract_number":     sale.Original.ContractNumber,
			"original_commission":          sale.Original.Commission,
			"transferred_to_period_id":     sale.TransferredToPeriodID,
			"transfer_date":                sale.TransferDate,
			"transfer_reason":              sale.TransferReason,
			"version":                      loadedVersion + 1,
			"updated_at":                   sale.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	sale.Version = loadedVersion + 1
	return nil
}

// ExistsByContractNumber checks the unique business key across all sales
func (r *GormSaleRepository) ExistsByContractNumber(ctx context.Context, contractNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("contract_number = ?", contractNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "sale_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Deleted sales are invisible to listings unless asked for explicitly
	if _, ok := filter.Filters["include_deleted"]; !ok {
		query = query.Where("status <> ?", sales.SaleStatusDeleted)
	}

	for key, value := range filter.Filters {
		switch key {
		case "created_by":
			query = query.Where("created_by = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_type_id":
			query = query.Where("payment_type_id = ?", value)
		case "commission_paid":
			if value == true {
				query = query.Where("commission_paid_at IS NOT NULL")
			} else {
				query = query.Where("commission_paid_at IS NULL")
			}
		case "transferred":
			if value == true {
				query = query.Where("transferred_to_period_id IS NOT NULL")
			} else {
				query = query.Where("transferred_to_period_id IS NULL")
			}
		case "start_date":
			query = query.Where("sale_date >= ?", value)
		case "end_date":
			query = query.Where("sale_date <= ?", value)
		}
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"contract_number ILIKE ? OR customer_name ILIKE ? OR customer_surname ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	return query
}
