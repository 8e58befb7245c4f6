package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/commission"
	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/sales"
	"github.com/primtakip/backend/internal/domain/shared"
)

// SaleService handles sale business operations
type SaleService struct {
	saleRepo        sales.SaleRepository
	paymentTypeRepo sales.PaymentTypeRepository
	rateRepo        commission.RateRepository
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo sales.SaleRepository, paymentTypeRepo sales.PaymentTypeRepository, rateRepo commission.RateRepository) *SaleService {
	return &SaleService{
		saleRepo:        saleRepo,
		paymentTypeRepo: paymentTypeRepo,
		rateRepo:        rateRepo,
	}
}

// currentRate resolves the active percentage, materializing the 1%
// default when nothing has been configured yet.
func (s *SaleService) currentRate(ctx context.Context, actorID uuid.UUID) (decimal.Decimal, error) {
	rate, err := s.rateRepo.FindActive(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		rate = commission.NewDefaultRate(actorID)
		if err := s.rateRepo.ReplaceActive(ctx, rate); err != nil {
			return decimal.Zero, err
		}
	}
	return rate.Rate, nil
}

// Create records a new sale. The commission rate is snapshotted at this
// moment; later rate changes never touch the sale.
func (s *SaleService) Create(ctx context.Context, actor identity.Actor, req CreateSaleRequest) (*SaleResponse, error) {
	exists, err := s.saleRepo.ExistsByContractNumber(ctx, req.ContractNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("a sale with contract number %s already exists", req.ContractNumber)
	}

	if req.PaymentTypeID != nil {
		paymentType, err := s.paymentTypeRepo.FindByID(ctx, *req.PaymentTypeID)
		if err != nil {
			return nil, err
		}
		if paymentType == nil || !paymentType.IsActive {
			return nil, shared.NewValidationError("payment type is not available")
		}
	}

	rate, err := s.currentRate(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	sale, err := sales.NewSale(sales.NewSaleParams{
		ContractNumber:    req.ContractNumber,
		CustomerName:      req.CustomerName,
		CustomerSurname:   req.CustomerSurname,
		BlockNumber:       req.BlockNumber,
		ApartmentNumber:   req.ApartmentNumber,
		PeriodNumber:      req.PeriodNumber,
		SaleDate:          req.SaleDate,
		PaymentTypeID:     req.PaymentTypeID,
		ListPrice:         req.ListPrice,
		ActivitySalePrice: req.ActivitySalePrice,
		CommissionRate:    rate,
	}, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale. Non-admin users only see their own records.
func (s *SaleService) GetByID(ctx context.Context, actor identity.Actor, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.findVisible(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination. Non-admin users are
// always restricted to their own records.
func (s *SaleService) List(ctx context.Context, actor identity.Actor, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sale_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if !actor.IsAdmin() {
		domainFilter.Filters["created_by"] = actor.ID
	} else if filter.CreatedBy != nil {
		domainFilter.Filters["created_by"] = *filter.CreatedBy
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.CommissionPaid != nil {
		domainFilter.Filters["commission_paid"] = *filter.CommissionPaid
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	items, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleResponses(items), total, nil
}

// Modify applies an audited partial update and reports the commission delta
func (s *SaleService) Modify(ctx context.Context, actor identity.Actor, saleID uuid.UUID, req ModifySaleRequest) (*ModificationResponse, error) {
	sale, err := s.findVisible(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if req.ContractNumber != nil && *req.ContractNumber != sale.ContractNumber {
		exists, err := s.saleRepo.ExistsByContractNumber(ctx, *req.ContractNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewConflictError("a sale with contract number %s already exists", *req.ContractNumber)
		}
	}

	result, err := sale.Modify(sales.ModificationChanges{
		BlockNumber:       req.BlockNumber,
		ApartmentNumber:   req.ApartmentNumber,
		ListPrice:         req.ListPrice,
		ActivitySalePrice: req.ActivitySalePrice,
		ContractNumber:    req.ContractNumber,
	}, req.Note, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	return &ModificationResponse{
		Sale:               ToSaleResponse(sale),
		PreviousCommission: result.PreviousCommission,
		NewCommission:      result.NewCommission,
		Delta:              result.Delta,
		Kind:               string(result.Kind),
	}, nil
}

// Cancel marks a sale cancelled. Requires the cancel-sales capability.
func (s *SaleService) Cancel(ctx context.Context, actor identity.Actor, saleID uuid.UUID) (*SaleResponse, error) {
	if !actor.CanCancelSales() {
		return nil, shared.NewForbiddenError("cancelling sales requires permission")
	}

	sale, err := s.findVisible(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Cancel(actor.ID); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Restore reverses a cancellation. Requires the cancel-sales capability.
func (s *SaleService) Restore(ctx context.Context, actor identity.Actor, saleID uuid.UUID) (*SaleResponse, error) {
	if !actor.CanCancelSales() {
		return nil, shared.NewForbiddenError("restoring sales requires permission")
	}

	sale, err := s.findVisible(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Restore(actor.ID); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// SetCommissionPaid marks or unmarks the commission payout.
// Requires the mark-commission-paid capability.
func (s *SaleService) SetCommissionPaid(ctx context.Context, actor identity.Actor, saleID uuid.UUID, paid bool) (*SaleResponse, error) {
	if !actor.CanMarkCommissionPaid() {
		return nil, shared.NewForbiddenError("marking commission paid requires permission")
	}

	sale, err := s.findVisible(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if paid {
		err = sale.MarkCommissionPaid(actor.ID)
	} else {
		err = sale.UnmarkCommissionPaid()
	}
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Delete soft-deletes a sale. Admin only.
func (s *SaleService) Delete(ctx context.Context, actor identity.Actor, saleID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.NewForbiddenError("only admins can delete sales")
	}

	sale, err := s.findSale(ctx, saleID)
	if err != nil {
		return err
	}

	if err := sale.SoftDelete(); err != nil {
		return err
	}

	return s.saleRepo.SaveWithLock(ctx, sale)
}

// Recalculate re-derives the commission of every non-deleted sale from
// its snapshot rate, preserving accumulated adjustments. Used after data
// imports or a base-price policy correction. Admin only.
func (s *SaleService) Recalculate(ctx context.Context, actor identity.Actor) (*RecalculateResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can recalculate commissions")
	}

	filter := shared.DefaultFilter()
	filter.Page = 1
	filter.PageSize = 500

	result := &RecalculateResponse{}
	for {
		items, err := s.saleRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}

		for i := range items {
			sale := &items[i]
			if sale.IsDeleted() {
				continue
			}
			result.Checked++

			changed, err := sale.Recalculate()
			if err != nil {
				return nil, err
			}
			if !changed {
				continue
			}
			if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
				return nil, err
			}
			result.Changed++
		}

		if len(items) < filter.PageSize {
			break
		}
		filter.Page++
	}

	return result, nil
}

func (s *SaleService) findSale(ctx context.Context, saleID uuid.UUID) (*sales.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.IsDeleted() {
		return nil, shared.NewNotFoundError("sale not found")
	}
	return sale, nil
}

// findVisible loads a sale and applies owner scoping: non-admin actors
// only reach records they created.
func (s *SaleService) findVisible(ctx context.Context, actor identity.Actor, saleID uuid.UUID) (*sales.Sale, error) {
	sale, err := s.findSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !sale.IsOwnedBy(actor.ID) {
		return nil, shared.NewForbiddenError("sale belongs to another user")
	}
	return sale, nil
}
