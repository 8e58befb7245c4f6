package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/sales"
	"github.com/primtakip/backend/internal/domain/shared"
)

// PaymentTypeService handles payment type reference data
type PaymentTypeService struct {
	paymentTypeRepo sales.PaymentTypeRepository
}

// NewPaymentTypeService creates a new PaymentTypeService
func NewPaymentTypeService(paymentTypeRepo sales.PaymentTypeRepository) *PaymentTypeService {
	return &PaymentTypeService{
		paymentTypeRepo: paymentTypeRepo,
	}
}

// List returns payment types ordered for display
func (s *PaymentTypeService) List(ctx context.Context, includeInactive bool) ([]PaymentTypeResponse, error) {
	items, err := s.paymentTypeRepo.FindAll(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return ToPaymentTypeResponses(items), nil
}

// Create adds a new payment type. Admin only; the name must be unique
// among active types (Turkish case-insensitive).
func (s *PaymentTypeService) Create(ctx context.Context, actor identity.Actor, req CreatePaymentTypeRequest) (*PaymentTypeResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage payment types")
	}

	existing, err := s.paymentTypeRepo.FindActiveByNormalizedName(ctx, sales.NormalizePaymentTypeName(req.Name))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewConflictError("an active payment type named %s already exists", req.Name)
	}

	paymentType, err := sales.NewPaymentType(req.Name, req.Description, req.SortOrder, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.paymentTypeRepo.Save(ctx, paymentType); err != nil {
		return nil, err
	}

	response := ToPaymentTypeResponse(paymentType)
	return &response, nil
}

// Update changes a payment type's display fields. Admin only.
func (s *PaymentTypeService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdatePaymentTypeRequest) (*PaymentTypeResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can manage payment types")
	}

	paymentType, err := s.findPaymentType(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized := sales.NormalizePaymentTypeName(req.Name)
	if normalized != paymentType.NormalizedName {
		existing, err := s.paymentTypeRepo.FindActiveByNormalizedName(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != paymentType.ID {
			return nil, shared.NewConflictError("an active payment type named %s already exists", req.Name)
		}
	}

	if err := paymentType.Update(req.Name, req.Description, req.SortOrder); err != nil {
		return nil, err
	}

	if err := s.paymentTypeRepo.Save(ctx, paymentType); err != nil {
		return nil, err
	}

	response := ToPaymentTypeResponse(paymentType)
	return &response, nil
}

// Deactivate soft-deletes a payment type so historical sales keep their
// reference. Admin only.
func (s *PaymentTypeService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.NewForbiddenError("only admins can manage payment types")
	}

	paymentType, err := s.findPaymentType(ctx, id)
	if err != nil {
		return err
	}

	if err := paymentType.Deactivate(); err != nil {
		return err
	}

	return s.paymentTypeRepo.Save(ctx, paymentType)
}

func (s *PaymentTypeService) findPaymentType(ctx context.Context, id uuid.UUID) (*sales.PaymentType, error) {
	paymentType, err := s.paymentTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if paymentType == nil {
		return nil, shared.NewNotFoundError("payment type not found")
	}
	return paymentType, nil
}
