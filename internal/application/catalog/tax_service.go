package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/catalog"
)

// TaxRateService handles tax rate management use cases
type TaxRateService struct {
	taxRepo catalog.TaxRateRepository
}

// NewTaxRateService creates a new tax rate service
func NewTaxRateService(taxRepo catalog.TaxRateRepository) *TaxRateService {
	return &TaxRateService{taxRepo: taxRepo}
}

// Create registers a new tax rate. When the request flags it as the default,
// the previous default is cleared in the same transaction.
func (s *TaxRateService) Create(ctx context.Context, orgID uuid.UUID, req CreateTaxRateRequest) (*TaxRateResponse, error) {
	rate, err := catalog.NewTaxRate(orgID, req.Name, req.Rate)
	if err != nil {
		return nil, err
	}

	if err := s.taxRepo.Save(ctx, rate); err != nil {
		return nil, err
	}

	if req.IsDefault {
		if err := s.taxRepo.SetDefault(ctx, orgID, rate.ID); err != nil {
			return nil, err
		}
		rate.MarkDefault()
	}

	return ToTaxRateResponse(rate), nil
}

// GetByID returns a single tax rate
func (s *TaxRateService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*TaxRateResponse, error) {
	rate, err := s.taxRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return ToTaxRateResponse(rate), nil
}

// List returns all tax rates for the organization
func (s *TaxRateService) List(ctx context.Context, orgID uuid.UUID) ([]TaxRateResponse, error) {
	rates, err := s.taxRepo.FindAllForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return ToTaxRateResponses(rates), nil
}

// Update renames a rate or changes its percentage. Already-issued invoices
// keep the rates copied onto their lines.
func (s *TaxRateService) Update(ctx context.Context, orgID, id uuid.UUID, req UpdateTaxRateRequest) (*TaxRateResponse, error) {
	rate, err := s.taxRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	name := rate.Name
	pct := rate.Rate
	if req.Name != nil {
		name = *req.Name
	}
	if req.Rate != nil {
		pct = *req.Rate
	}
	if err := rate.Update(name, pct); err != nil {
		return nil, err
	}

	if err := s.taxRepo.Save(ctx, rate); err != nil {
		return nil, err
	}

	return ToTaxRateResponse(rate), nil
}

// SetDefault flags one rate as the organization's default and clears the
// flag on all others
func (s *TaxRateService) SetDefault(ctx context.Context, orgID, id uuid.UUID) (*TaxRateResponse, error) {
	rate, err := s.taxRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if err := s.taxRepo.SetDefault(ctx, orgID, id); err != nil {
		return nil, err
	}
	rate.MarkDefault()

	return ToTaxRateResponse(rate), nil
}

// Deactivate hides a rate from new invoice lines. A deactivated rate also
// loses its default flag.
func (s *TaxRateService) Deactivate(ctx context.Context, orgID, id uuid.UUID) error {
	rate, err := s.taxRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	rate.Deactivate()
	return s.taxRepo.Save(ctx, rate)
}

// Delete removes a tax rate
func (s *TaxRateService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := s.taxRepo.FindByIDForOrg(ctx, orgID, id); err != nil {
		return err
	}
	return s.taxRepo.DeleteForOrg(ctx, orgID, id)
}
