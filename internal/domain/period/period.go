package period

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/shared"
)

// PeriodStatus represents the lifecycle state of a commission period
type PeriodStatus string

const (
	PeriodStatusDraft  PeriodStatus = "DRAFT"
	PeriodStatusActive PeriodStatus = "ACTIVE"
	PeriodStatusClosed PeriodStatus = "CLOSED"
	PeriodStatusPaid   PeriodStatus = "PAID"
)

// IsValid checks if the status is a valid PeriodStatus
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusDraft, PeriodStatusActive, PeriodStatusClosed, PeriodStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PeriodStatus
func (s PeriodStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PeriodStatus) CanTransitionTo(target PeriodStatus) bool {
	switch s {
	case PeriodStatusDraft:
		return target == PeriodStatusActive || target == PeriodStatusClosed
	case PeriodStatusActive:
		return target == PeriodStatusDraft || target == PeriodStatusClosed
	case PeriodStatusClosed:
		return target == PeriodStatusPaid
	case PeriodStatusPaid:
		return false // Terminal state
	}
	return false
}

var monthNames = [13]string{
	"",
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// TransferredSale records a sale pulled into this period from outside its
// natural date window.
type TransferredSale struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PeriodID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	SaleID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	FromPeriodID   *uuid.UUID `gorm:"type:uuid"`
	TransferDate   time.Time  `gorm:"not null"`
	TransferReason string     `gorm:"size:500"`
	CreatedAt      time.Time
}

// TableName returns the database table name
func (TransferredSale) TableName() string {
	return "period_transferred_sales"
}

// Period is a monthly bucket that aggregates sales statistics for
// commission payout. Identified uniquely by (year, month). Aggregate
// figures are only valid as of LastCalculatedAt; consumers needing fresh
// numbers must recompute first.
type Period struct {
	shared.BaseAggregateRoot
	Year  int `gorm:"not null;uniqueIndex:idx_periods_year_month"`
	Month int `gorm:"not null;uniqueIndex:idx_periods_year_month"`

	Status PeriodStatus `gorm:"size:20;not null;default:'DRAFT';index"`

	SalesStartDate     time.Time  `gorm:"not null"`
	SalesEndDate       time.Time  `gorm:"not null"`
	CommissionDueDate  time.Time  `gorm:"not null"`
	CommissionPaidDate *time.Time

	TotalSales            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalCommission       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalUnpaidCommission decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SalesCount            int             `gorm:"not null;default:0"`
	LastCalculatedAt      *time.Time

	ClosedBy *uuid.UUID `gorm:"type:uuid"`
	ClosedAt *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	TransferredSales []TransferredSale `gorm:"foreignKey:PeriodID"`
}

// TableName returns the database table name
func (Period) TableName() string {
	return "commission_periods"
}

// NewPeriod creates a draft period with an explicit sales window
func NewPeriod(year, month int, start, end, dueDate time.Time, createdBy uuid.UUID) (*Period, error) {
	if year < 2000 || year > 2100 {
		return nil, shared.NewValidationError("year %d is out of range", year)
	}
	if month < 1 || month > 12 {
		return nil, shared.NewValidationError("month must be between 1 and 12, got %d", month)
	}
	if !end.After(start) {
		return nil, shared.NewValidationError("sales window end must be after start")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewValidationError("created by is required")
	}

	return &Period{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Year:                  year,
		Month:                 month,
		Status:                PeriodStatusDraft,
		SalesStartDate:        start,
		SalesEndDate:          end,
		CommissionDueDate:     dueDate,
		TotalSales:            decimal.Zero,
		TotalCommission:       decimal.Zero,
		TotalUnpaidCommission: decimal.Zero,
		CreatedBy:             createdBy,
	}, nil
}

// NewMonthPeriod creates a draft period covering a full calendar month:
// window from the 1st to the last day at 23:59:59, commission due on the
// 15th of the same month.
func NewMonthPeriod(year, month int, createdBy uuid.UUID) (*Period, error) {
	if month < 1 || month > 12 {
		return nil, shared.NewValidationError("month must be between 1 and 12, got %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	due := time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.Local)
	return NewPeriod(year, month, start, end, due, createdBy)
}

// NextMonth returns the (year, month) following the given moment,
// wrapping December into January of the next year.
func NextMonth(now time.Time) (int, int) {
	year, month := now.Year(), int(now.Month())
	month++
	if month > 12 {
		month = 1
		year++
	}
	return year, month
}

// DisplayName returns the human-readable Turkish label, e.g. "Ağustos 2026"
func (p *Period) DisplayName() string {
	return fmt.Sprintf("%s %d", monthNames[p.Month], p.Year)
}

// IsClosed checks if the period is closed or paid
func (p *Period) IsClosed() bool {
	return p.Status == PeriodStatusClosed || p.Status == PeriodStatusPaid
}

// Activate promotes the period to active. The caller is responsible for
// demoting any other active period in the same transaction.
func (p *Period) Activate() error {
	if p.Status == PeriodStatusActive {
		return shared.NewInvalidStateError("period is already active")
	}
	if !p.Status.CanTransitionTo(PeriodStatusActive) {
		return shared.NewInvalidStateError("period cannot be activated in status %s", p.Status)
	}
	p.Status = PeriodStatusActive
	p.Touch()
	return nil
}

// Demote pushes an active period back to draft when another one takes over
func (p *Period) Demote() error {
	if p.Status != PeriodStatusActive {
		return shared.NewInvalidStateError("only active periods can be demoted")
	}
	p.Status = PeriodStatusDraft
	p.Touch()
	return nil
}

// Close freezes the period. Stats must be recalculated immediately before
// by the caller so the frozen figures are current.
func (p *Period) Close(closedBy uuid.UUID) error {
	if p.IsClosed() {
		return shared.NewInvalidStateError("period is already closed")
	}

	now := time.Now()
	p.Status = PeriodStatusClosed
	p.ClosedBy = &closedBy
	p.ClosedAt = &now
	p.Touch()
	return nil
}

// MarkPaid records the commission payout for a closed period
func (p *Period) MarkPaid() error {
	if !p.Status.CanTransitionTo(PeriodStatusPaid) {
		return shared.NewInvalidStateError("period cannot be marked paid in status %s", p.Status)
	}

	now := time.Now()
	p.Status = PeriodStatusPaid
	p.CommissionPaidDate = &now
	p.Touch()
	return nil
}

// ApplyStats stores freshly computed aggregate figures
func (p *Period) ApplyStats(stats Stats) {
	now := time.Now()
	p.TotalSales = stats.TotalSales
	p.TotalCommission = stats.TotalCommission
	p.TotalUnpaidCommission = stats.TotalUnpaidCommission
	p.SalesCount = stats.SalesCount
	p.LastCalculatedAt = &now
	p.Touch()
}

// HasTransferredSale checks whether the sale is already on the transfer list
func (p *Period) HasTransferredSale(saleID uuid.UUID) bool {
	for _, ts := range p.TransferredSales {
		if ts.SaleID == saleID {
			return true
		}
	}
	return false
}

// AddTransferredSale appends a sale to the transfer list. Adding a sale
// that is already listed is a no-op, so retried transfers never
// double-count.
func (p *Period) AddTransferredSale(saleID uuid.UUID, fromPeriodID *uuid.UUID, reason string) bool {
	if p.HasTransferredSale(saleID) {
		return false
	}

	p.TransferredSales = append(p.TransferredSales, TransferredSale{
		ID:             uuid.New(),
		PeriodID:       p.ID,
		SaleID:         saleID,
		FromPeriodID:   fromPeriodID,
		TransferDate:   time.Now(),
		TransferReason: reason,
	})
	p.Touch()
	return true
}
