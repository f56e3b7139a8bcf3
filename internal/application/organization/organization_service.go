package organization

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
)

// SettingsCacheInvalidator drops cached views that embed organization
// defaults, such as the dashboard currency
type SettingsCacheInvalidator interface {
	InvalidateDashboardStats(ctx context.Context, orgID uuid.UUID) error
}

// OrganizationService handles organization profile and settings use cases
type OrganizationService struct {
	orgRepo organization.Repository
	cache   SettingsCacheInvalidator
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo organization.Repository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// SetCacheInvalidator wires cache invalidation for settings changes
func (s *OrganizationService) SetCacheInvalidator(cache SettingsCacheInvalidator) {
	s.cache = cache
}

// Get returns the organization profile and invoicing defaults
func (s *OrganizationService) Get(ctx context.Context, orgID uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return ToOrganizationResponse(org), nil
}

// UpdateProfile applies a partial update to the organization's contact and
// address fields
func (s *OrganizationService) UpdateProfile(ctx context.Context, orgID uuid.UUID, req UpdateProfileRequest) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	name := org.Name
	email := org.Email
	phone := org.Phone
	website := org.Website
	taxID := org.TaxID
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Website != nil {
		website = *req.Website
	}
	if req.TaxID != nil {
		taxID = *req.TaxID
	}
	if err := org.UpdateProfile(name, email, phone, website, taxID); err != nil {
		return nil, err
	}

	if req.AddressLine1 != nil || req.AddressLine2 != nil || req.City != nil ||
		req.State != nil || req.PostalCode != nil || req.Country != nil {
		line1 := org.AddressLine1
		line2 := org.AddressLine2
		city := org.City
		state := org.State
		postalCode := org.PostalCode
		country := org.Country
		if req.AddressLine1 != nil {
			line1 = *req.AddressLine1
		}
		if req.AddressLine2 != nil {
			line2 = *req.AddressLine2
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		if req.Country != nil {
			country = *req.Country
		}
		org.SetAddress(line1, line2, city, state, postalCode, country)
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	return ToOrganizationResponse(org), nil
}

// UpdateSettings applies a partial update to invoicing defaults. Changing the
// prefix never resets the sequence counter, and already-issued invoices keep
// their numbers, currency and copied rates.
func (s *OrganizationService) UpdateSettings(ctx context.Context, orgID uuid.UUID, req UpdateSettingsRequest) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Currency != nil {
		currency := valueobject.Currency(*req.Currency)
		if !currency.IsValid() {
			return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
		}
		if err := org.SetCurrency(currency); err != nil {
			return nil, err
		}
	}
	if req.InvoicePrefix != nil {
		if err := org.SetInvoicePrefix(*req.InvoicePrefix); err != nil {
			return nil, err
		}
	}
	if req.DefaultTaxRate != nil {
		if err := org.SetDefaultTaxRate(*req.DefaultTaxRate); err != nil {
			return nil, err
		}
	}
	if req.DefaultPaymentTerms != nil {
		if err := org.SetPaymentTerms(*req.DefaultPaymentTerms); err != nil {
			return nil, err
		}
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateDashboardStats(ctx, orgID)
	}

	return ToOrganizationResponse(org), nil
}
