package commission

import (
	"context"

	"github.com/primtakip/backend/internal/domain/commission"
	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/shared"
)

// RateService handles commission rate operations
type RateService struct {
	rateRepo commission.RateRepository
}

// NewRateService creates a new RateService
func NewRateService(rateRepo commission.RateRepository) *RateService {
	return &RateService{
		rateRepo: rateRepo,
	}
}

// GetCurrentRate returns the active rate. When no rate has ever been
// configured the default 1% rate is materialized on first use, attributed
// to the requesting user.
func (s *RateService) GetCurrentRate(ctx context.Context, actor identity.Actor) (*RateResponse, error) {
	rate, err := s.rateRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	if rate == nil {
		rate = commission.NewDefaultRate(actor.ID)
		if err := s.rateRepo.ReplaceActive(ctx, rate); err != nil {
			return nil, err
		}
	}

	response := ToRateResponse(rate)
	return &response, nil
}

// SetRate replaces the active rate with a new one. The previous rate is
// deactivated, never deleted, so the history stays auditable.
func (s *RateService) SetRate(ctx context.Context, actor identity.Actor, req SetRateRequest) (*RateResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can change the commission rate")
	}

	rate, err := commission.NewRate(req.Rate, req.Description, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.rateRepo.ReplaceActive(ctx, rate); err != nil {
		return nil, err
	}

	response := ToRateResponse(rate)
	return &response, nil
}

// GetHistory returns all rates, newest first
func (s *RateService) GetHistory(ctx context.Context, actor identity.Actor) ([]RateResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can view the rate history")
	}

	rates, err := s.rateRepo.FindHistory(ctx)
	if err != nil {
		return nil, err
	}

	return ToRateResponses(rates), nil
}
