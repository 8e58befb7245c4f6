package period

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/period"
	"github.com/primtakip/backend/internal/domain/sales"
	"github.com/primtakip/backend/internal/domain/shared"
)

// PeriodService handles commission period operations. All mutations are
// admin only; listing and reading are open to every authenticated user.
type PeriodService struct {
	periodRepo period.PeriodRepository
	saleRepo   sales.SaleRepository
	logger     *zap.Logger
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(periodRepo period.PeriodRepository, saleRepo sales.SaleRepository, logger *zap.Logger) *PeriodService {
	return &PeriodService{
		periodRepo: periodRepo,
		saleRepo:   saleRepo,
		logger:     logger,
	}
}

// Create creates a period for an explicit (year, month). When window dates
// are omitted the full calendar month is used.
func (s *PeriodService) Create(ctx context.Context, actor identity.Actor, req CreatePeriodRequest) (*PeriodResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}

	exists, err := s.periodRepo.ExistsByYearMonth(ctx, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("period %d/%d already exists", req.Year, req.Month)
	}

	var p *period.Period
	if req.SalesStartDate != nil && req.SalesEndDate != nil && req.CommissionDueDate != nil {
		p, err = period.NewPeriod(req.Year, req.Month, *req.SalesStartDate, *req.SalesEndDate, *req.CommissionDueDate, actor.ID)
	} else {
		p, err = period.NewMonthPeriod(req.Year, req.Month, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPeriodResponse(p)
	return &response, nil
}

// CreateNext creates the period for the next calendar month
func (s *PeriodService) CreateNext(ctx context.Context, actor identity.Actor) (*PeriodResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}

	year, month := period.NextMonth(time.Now())

	exists, err := s.periodRepo.ExistsByYearMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("period %d/%d already exists", year, month)
	}

	p, err := period.NewMonthPeriod(year, month, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPeriodResponse(p)
	return &response, nil
}

// GetByID retrieves a period
func (s *PeriodService) GetByID(ctx context.Context, periodID uuid.UUID) (*PeriodResponse, error) {
	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	response := ToPeriodResponse(p)
	return &response, nil
}

// List retrieves periods with filtering and pagination
func (s *PeriodService) List(ctx context.Context, filter PeriodListFilter) ([]PeriodResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "year",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.Year != nil {
		domainFilter.Filters["year"] = *filter.Year
	}

	items, err := s.periodRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.periodRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPeriodResponses(items), total, nil
}

// Activate promotes a period to active, demoting any other active period
// to draft in the same transaction so at most one period is active.
func (s *PeriodService) Activate(ctx context.Context, actor identity.Actor, periodID uuid.UUID) (*PeriodResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if err := p.Activate(); err != nil {
		return nil, err
	}

	if err := s.periodRepo.ActivateExclusive(ctx, p); err != nil {
		return nil, err
	}

	response := ToPeriodResponse(p)
	return &response, nil
}

// Close recalculates the period's statistics and freezes it
func (s *PeriodService) Close(ctx context.Context, actor identity.Actor, periodID uuid.UUID) (*PeriodResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if p.IsClosed() {
		return nil, shared.NewInvalidStateError("period is already closed")
	}

	if err := s.recalculate(ctx, p); err != nil {
		return nil, err
	}

	if err := p.Close(actor.ID); err != nil {
		return nil, err
	}

	if err := s.periodRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("commission period closed",
		zap.Int("year", p.Year),
		zap.Int("month", p.Month),
		zap.String("closed_by", actor.ID.String()),
	)

	response := ToPeriodResponse(p)
	return &response, nil
}

// MarkPaid records the commission payout for a closed period
func (s *PeriodService) MarkPaid(ctx context.Context, actor identity.Actor, periodID uuid.UUID) (*PeriodResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if err := p.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.periodRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	response := ToPeriodResponse(p)
	return &response, nil
}

// CalculateStats recomputes the aggregate figures from the period's
// window sales plus its transfer list. Idempotent.
func (s *PeriodService) CalculateStats(ctx context.Context, actor identity.Actor, periodID uuid.UUID) (*PeriodResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	if err := s.recalculate(ctx, p); err != nil {
		return nil, err
	}

	if err := s.periodRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	response := ToPeriodResponse(p)
	return &response, nil
}

// TransferUnpaid moves the source period's unpaid, untransferred sales
// into the target period. Sales are processed one at a time with
// idempotent flags, so a partial failure can be retried without
// double-counting.
func (s *PeriodService) TransferUnpaid(ctx context.Context, actor identity.Actor, sourceID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}
	if sourceID == req.TargetPeriodID {
		return nil, shared.NewValidationError("source and target period must differ")
	}

	source, err := s.findPeriod(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.findPeriod(ctx, req.TargetPeriodID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.saleRepo.FindInWindow(ctx, source.SalesStartDate, source.SalesEndDate, true)
	if err != nil {
		return nil, err
	}

	result := &TransferResponse{}
	for i := range candidates {
		sale := &candidates[i]
		if sale.IsCommissionPaid() || sale.IsTransferred() {
			continue
		}

		if err := sale.MarkTransferred(target.ID, req.Reason); err != nil {
			return nil, err
		}
		if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
			return nil, err
		}
		if target.AddTransferredSale(sale.ID, &source.ID, req.Reason) {
			result.TransferredCount++
			result.TotalCommission = result.TotalCommission.Add(sale.Commission)
		}
	}

	if err := s.recalculate(ctx, target); err != nil {
		return nil, err
	}
	if err := s.periodRepo.SaveWithLock(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Info("unpaid commissions transferred",
		zap.Int("count", result.TransferredCount),
		zap.String("source", source.DisplayName()),
		zap.String("target", target.DisplayName()),
	)

	result.TargetPeriod = ToPeriodResponse(target)
	return result, nil
}

// AddSaleManually pulls a single sale into the period's transfer list,
// outside its natural date window
func (s *PeriodService) AddSaleManually(ctx context.Context, actor identity.Actor, periodID uuid.UUID, req AddSaleRequest) (*PeriodResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage commission periods")
	}

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.IsDeleted() {
		return nil, shared.NewNotFoundError("sale not found")
	}

	// MarkTransferred enforces the already-transferred / already-paid guards
	if err := sale.MarkTransferred(p.ID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	p.AddTransferredSale(sale.ID, nil, req.Reason)

	if err := s.recalculate(ctx, p); err != nil {
		return nil, err
	}
	if err := s.periodRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	response := ToPeriodResponse(p)
	return &response, nil
}

// GetSales returns the sales belonging to the period: those inside the
// window plus the transfer list entries
func (s *PeriodService) GetSales(ctx context.Context, periodID uuid.UUID) ([]sales.Sale, error) {
	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return s.collectSales(ctx, p)
}

// recalculate refreshes the period's aggregates in memory; the caller persists
func (s *PeriodService) recalculate(ctx context.Context, p *period.Period) error {
	items, err := s.collectSales(ctx, p)
	if err != nil {
		return err
	}
	p.ApplyStats(period.ComputeStats(items))
	return nil
}

func (s *PeriodService) collectSales(ctx context.Context, p *period.Period) ([]sales.Sale, error) {
	windowSales, err := s.saleRepo.FindInWindow(ctx, p.SalesStartDate, p.SalesEndDate, true)
	if err != nil {
		return nil, err
	}

	if len(p.TransferredSales) == 0 {
		return windowSales, nil
	}

	ids := make([]uuid.UUID, len(p.TransferredSales))
	for i, ts := range p.TransferredSales {
		ids[i] = ts.SaleID
	}
	transferred, err := s.saleRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return append(windowSales, transferred...), nil
}

func (s *PeriodService) findPeriod(ctx context.Context, periodID uuid.UUID) (*period.Period, error) {
	p, err := s.periodRepo.FindByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewNotFoundError("commission period not found")
	}
	return p, nil
}
