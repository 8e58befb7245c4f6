package sales

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/primtakip/backend/internal/domain/shared"
)

var turkishLower = cases.Lower(language.Turkish)

// NormalizePaymentTypeName folds a payment type name for uniqueness
// comparison. Turkish casing rules apply (dotted/dotless i).
func NormalizePaymentTypeName(name string) string {
	return turkishLower.String(strings.TrimSpace(name))
}

// PaymentType is admin-managed reference data for how a sale was paid.
// Types are deactivated rather than deleted so historical sales keep
// their references.
type PaymentType struct {
	shared.BaseEntity
	Name           string    `gorm:"size:100;not null"`
	NormalizedName string    `gorm:"size:100;not null;index"`
	Description    string    `gorm:"size:500"`
	SortOrder      int       `gorm:"not null;default:0"`
	IsActive       bool      `gorm:"not null;default:true;index"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the database table name
func (PaymentType) TableName() string {
	return "payment_types"
}

// NewPaymentType creates a new active payment type
func NewPaymentType(name, description string, sortOrder int, createdBy uuid.UUID) (*PaymentType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("payment type name cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewValidationError("created by is required")
	}

	return &PaymentType{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		NormalizedName: NormalizePaymentTypeName(name),
		Description:    description,
		SortOrder:      sortOrder,
		IsActive:       true,
		CreatedBy:      createdBy,
	}, nil
}

// Update changes the display fields
func (p *PaymentType) Update(name, description string, sortOrder int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("payment type name cannot be empty")
	}

	p.Name = name
	p.NormalizedName = NormalizePaymentTypeName(name)
	p.Description = description
	p.SortOrder = sortOrder
	p.Touch()
	return nil
}

// Deactivate soft-deletes the payment type
func (p *PaymentType) Deactivate() error {
	if !p.IsActive {
		return shared.NewInvalidStateError("payment type is already inactive")
	}
	p.IsActive = false
	p.Touch()
	return nil
}

// Activate re-enables a previously deactivated payment type
func (p *PaymentType) Activate() error {
	if p.IsActive {
		return shared.NewInvalidStateError("payment type is already active")
	}
	p.IsActive = true
	p.Touch()
	return nil
}
