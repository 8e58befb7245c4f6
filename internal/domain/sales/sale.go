package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primtakip/backend/internal/domain/shared"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusActive    SaleStatus = "ACTIVE"
	SaleStatusCancelled SaleStatus = "CANCELLED"
	SaleStatusDeleted   SaleStatus = "DELETED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusActive, SaleStatusCancelled, SaleStatusDeleted:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusActive:
		return target == SaleStatusCancelled || target == SaleStatusDeleted
	case SaleStatusCancelled:
		return target == SaleStatusActive || target == SaleStatusDeleted
	case SaleStatusDeleted:
		return false // Terminal state
	}
	return false
}

// ModificationKind classifies the commission impact of a modification
type ModificationKind string

const (
	ModificationIncrease ModificationKind = "increase"
	ModificationDecrease ModificationKind = "decrease"
	ModificationNoChange ModificationKind = "no_change"
)

// ModificationResult reports the commission delta produced by a modification
type ModificationResult struct {
	PreviousCommission decimal.Decimal
	NewCommission      decimal.Decimal
	Delta              decimal.Decimal
	Kind               ModificationKind
}

// ModificationChanges carries the fields a modification may update.
// Nil fields are left untouched (partial update semantics).
type ModificationChanges struct {
	BlockNumber       *string
	ApartmentNumber   *string
	ListPrice         *decimal.Decimal
	ActivitySalePrice *decimal.Decimal
	ContractNumber    *string
}

// OriginalData is the snapshot of a sale's identifying and pricing fields,
// captured exactly once at the first modification. Later modifications
// update the live fields but never touch this snapshot.
type OriginalData struct {
	BlockNumber       string          `gorm:"size:50"`
	ApartmentNumber   string          `gorm:"size:50"`
	ListPrice         decimal.Decimal `gorm:"type:decimal(18,2)"`
	ActivitySalePrice decimal.Decimal `gorm:"type:decimal(18,2)"`
	ContractNumber    string          `gorm:"size:100"`
	Commission        decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// Sale is a recorded property sale with its derived commission. The
// commission rate is snapshotted at creation time; later rate changes never
// retroactively affect existing sales.
type Sale struct {
	shared.OwnedAggregateRoot
	ContractNumber    string     `gorm:"size:100;not null;uniqueIndex"`
	CustomerName      string     `gorm:"size:100;not null"`
	CustomerSurname   string     `gorm:"size:100;not null"`
	BlockNumber       string     `gorm:"size:50"`
	ApartmentNumber   string     `gorm:"size:50"`
	PeriodNumber      string     `gorm:"size:50"`
	SaleDate          time.Time  `gorm:"not null;index"`
	PaymentTypeID     *uuid.UUID `gorm:"type:uuid;index"`

	ListPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ActivitySalePrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	CommissionRate             decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Commission                 decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CommissionAdjustment       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CommissionAdjustmentReason string          `gorm:"size:500"`

	Status      SaleStatus `gorm:"size:20;not null;default:'ACTIVE';index"`
	CancelledBy *uuid.UUID `gorm:"type:uuid"`
	CancelledAt *time.Time

	CommissionPaidBy *uuid.UUID `gorm:"type:uuid"`
	CommissionPaidAt *time.Time `gorm:"index"`

	HasModifications bool       `gorm:"not null;default:false"`
	ModifiedBy       *uuid.UUID `gorm:"type:uuid"`
	ModifiedAt       *time.Time
	ModificationNote string       `gorm:"size:500"`
	Original         OriginalData `gorm:"embedded;embeddedPrefix:original_"`

	TransferredToPeriodID *uuid.UUID `gorm:"type:uuid;index"`
	TransferDate          *time.Time
	TransferReason        string `gorm:"size:500"`
}

// TableName returns the database table name
func (Sale) TableName() string {
	return "sales"
}

// NewSaleParams holds the input fields for creating a sale
type NewSaleParams struct {
	ContractNumber    string
	CustomerName      string
	CustomerSurname   string
	BlockNumber       string
	ApartmentNumber   string
	PeriodNumber      string
	SaleDate          time.Time
	PaymentTypeID     *uuid.UUID
	ListPrice         decimal.Decimal
	ActivitySalePrice decimal.Decimal
	CommissionRate    decimal.Decimal
}

// NewSale creates a new active sale, computing its commission from the
// snapshotted rate and the base-price policy.
func NewSale(params NewSaleParams, createdBy uuid.UUID) (*Sale, error) {
	if params.ContractNumber == "" {
		return nil, shared.NewValidationError("contract number cannot be empty")
	}
	if params.CustomerName == "" {
		return nil, shared.NewValidationError("customer name cannot be empty")
	}
	if params.SaleDate.IsZero() {
		return nil, shared.NewValidationError("sale date is required")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewValidationError("created by is required")
	}

	commission, err := ComputeCommission(params.ListPrice, params.ActivitySalePrice, params.CommissionRate)
	if err != nil {
		return nil, err
	}

	return &Sale{
		OwnedAggregateRoot:   shared.NewOwnedAggregateRoot(createdBy),
		ContractNumber:       params.ContractNumber,
		CustomerName:         params.CustomerName,
		CustomerSurname:      params.CustomerSurname,
		BlockNumber:          params.BlockNumber,
		ApartmentNumber:      params.ApartmentNumber,
		PeriodNumber:         params.PeriodNumber,
		SaleDate:             params.SaleDate,
		PaymentTypeID:        params.PaymentTypeID,
		ListPrice:            params.ListPrice,
		ActivitySalePrice:    params.ActivitySalePrice,
		CommissionRate:       params.CommissionRate,
		Commission:           commission,
		CommissionAdjustment: decimal.Zero,
		Status:               SaleStatusActive,
	}, nil
}

// IsCancelled checks if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// IsDeleted checks if the sale is soft-deleted
func (s *Sale) IsDeleted() bool {
	return s.Status == SaleStatusDeleted
}

// IsCommissionPaid checks if the commission has been paid out
func (s *Sale) IsCommissionPaid() bool {
	return s.CommissionPaidAt != nil
}

// IsTransferred checks if the sale was moved to a later commission period
func (s *Sale) IsTransferred() bool {
	return s.TransferredToPeriodID != nil
}

// CanModify checks if the sale accepts field modifications
func (s *Sale) CanModify() bool {
	return s.Status == SaleStatusActive
}

// Modify applies a partial update to the sale's identifying and pricing
// fields, recomputes the commission with the existing snapshot rate, and
// accumulates the delta into the adjustment total. The first modification
// captures the original values before anything changes.
func (s *Sale) Modify(changes ModificationChanges, note string, modifiedBy uuid.UUID) (*ModificationResult, error) {
	if s.IsDeleted() {
		return nil, shared.NewNotFoundError("sale not found")
	}
	if s.IsCancelled() {
		return nil, shared.NewInvalidStateError("cancelled sale cannot be modified")
	}
	if note == "" {
		return nil, shared.NewValidationError("modification note is required")
	}
	if changes.ListPrice != nil && changes.ListPrice.IsNegative() {
		return nil, shared.NewValidationError("list price cannot be negative")
	}
	if changes.ActivitySalePrice != nil && changes.ActivitySalePrice.IsNegative() {
		return nil, shared.NewValidationError("activity sale price cannot be negative")
	}
	if changes.ContractNumber != nil && *changes.ContractNumber == "" {
		return nil, shared.NewValidationError("contract number cannot be empty")
	}

	if !s.HasModifications {
		s.Original = OriginalData{
			BlockNumber:       s.BlockNumber,
			ApartmentNumber:   s.ApartmentNumber,
			ListPrice:         s.ListPrice,
			ActivitySalePrice: s.ActivitySalePrice,
			ContractNumber:    s.ContractNumber,
			Commission:        s.Commission,
		}
	}

	if changes.BlockNumber != nil {
		s.BlockNumber = *changes.BlockNumber
	}
	if changes.ApartmentNumber != nil {
		s.ApartmentNumber = *changes.ApartmentNumber
	}
	if changes.ListPrice != nil {
		s.ListPrice = *changes.ListPrice
	}
	if changes.ActivitySalePrice != nil {
		s.ActivitySalePrice = *changes.ActivitySalePrice
	}
	if changes.ContractNumber != nil {
		s.ContractNumber = *changes.ContractNumber
	}

	previous := s.Commission
	newCommission, err := ComputeCommission(s.ListPrice, s.ActivitySalePrice, s.CommissionRate)
	if err != nil {
		return nil, err
	}
	delta := newCommission.Sub(previous)

	s.Commission = newCommission
	s.CommissionAdjustment = s.CommissionAdjustment.Add(delta)

	kind := ModificationNoChange
	switch {
	case delta.IsPositive():
		kind = ModificationIncrease
		s.CommissionAdjustmentReason = "Satış güncellemesi sonrası komisyon artışı"
	case delta.IsNegative():
		kind = ModificationDecrease
		s.CommissionAdjustmentReason = "Satış güncellemesi sonrası komisyon azalışı"
	}

	now := time.Now()
	s.HasModifications = true
	s.ModifiedBy = &modifiedBy
	s.ModifiedAt = &now
	s.ModificationNote = note
	s.Touch()

	return &ModificationResult{
		PreviousCommission: previous,
		NewCommission:      newCommission,
		Delta:              delta,
		Kind:               kind,
	}, nil
}

// Cancel marks the sale as cancelled. Cancellation is one-way: cancelling
// an already cancelled sale fails, restoring goes through Restore.
func (s *Sale) Cancel(cancelledBy uuid.UUID) error {
	if !s.Status.CanTransitionTo(SaleStatusCancelled) {
		return shared.NewInvalidStateError("sale cannot be cancelled in status %s", s.Status)
	}

	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledBy = &cancelledBy
	s.CancelledAt = &now
	s.Touch()
	return nil
}

// Restore reverses a cancellation; fails if the sale was not cancelled
func (s *Sale) Restore(restoredBy uuid.UUID) error {
	if !s.IsCancelled() {
		return shared.NewInvalidStateError("only cancelled sales can be restored")
	}

	s.Status = SaleStatusActive
	s.CancelledBy = nil
	s.CancelledAt = nil
	s.Touch()
	return nil
}

// MarkCommissionPaid records that the commission was paid out.
// A cancelled sale never becomes payable.
func (s *Sale) MarkCommissionPaid(paidBy uuid.UUID) error {
	if s.IsCancelled() || s.IsDeleted() {
		return shared.NewInvalidStateError("commission of a cancelled sale cannot be marked paid")
	}
	if s.IsCommissionPaid() {
		return shared.NewInvalidStateError("commission is already marked paid")
	}

	now := time.Now()
	s.CommissionPaidBy = &paidBy
	s.CommissionPaidAt = &now
	s.Touch()
	return nil
}

// UnmarkCommissionPaid clears the paid mark; fails if not paid
func (s *Sale) UnmarkCommissionPaid() error {
	if !s.IsCommissionPaid() {
		return shared.NewInvalidStateError("commission is not marked paid")
	}

	s.CommissionPaidBy = nil
	s.CommissionPaidAt = nil
	s.Touch()
	return nil
}

// MarkTransferred records the sale's move into a later commission period.
// Already transferred or already paid sales are rejected so that the
// period-side transfer list and the sale-side flags stay in agreement.
func (s *Sale) MarkTransferred(periodID uuid.UUID, reason string) error {
	if s.IsTransferred() {
		return shared.NewInvalidStateError("sale is already transferred to another period")
	}
	if s.IsCommissionPaid() {
		return shared.NewInvalidStateError("paid sale cannot be transferred")
	}
	if periodID == uuid.Nil {
		return shared.NewValidationError("target period is required")
	}

	now := time.Now()
	s.TransferredToPeriodID = &periodID
	s.TransferDate = &now
	s.TransferReason = reason
	s.Touch()
	return nil
}

// SoftDelete hides the sale from normal flows without removing the row
func (s *Sale) SoftDelete() error {
	if !s.Status.CanTransitionTo(SaleStatusDeleted) {
		return shared.NewInvalidStateError("sale cannot be deleted in status %s", s.Status)
	}

	s.Status = SaleStatusDeleted
	s.Touch()
	return nil
}

// Recalculate re-derives the commission from the live prices and the
// snapshot rate, preserving the accumulated adjustment. Returns true when
// the stored amount changed.
func (s *Sale) Recalculate() (bool, error) {
	commission, err := ComputeCommission(s.ListPrice, s.ActivitySalePrice, s.CommissionRate)
	if err != nil {
		return false, err
	}
	if commission.Equal(s.Commission) {
		return false, nil
	}
	s.Commission = commission
	s.Touch()
	return true, nil
}
