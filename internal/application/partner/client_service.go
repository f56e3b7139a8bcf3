package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/partner"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
)

// ClientService handles client business operations
type ClientService struct {
	clientRepo  partner.Repository
	invoiceRepo billing.Repository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.Repository, invoiceRepo billing.Repository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, orgID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	exists, err := s.clientRepo.ExistsByEmail(ctx, orgID, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this email already exists")
	}

	client, err := partner.NewClient(orgID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != "" || req.Phone != "" || req.TaxID != "" {
		if err := client.Update(req.Name, req.CompanyName, req.Email, req.Phone, req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.Currency != "" {
		if err := client.SetCurrency(valueobject.Currency(req.Currency)); err != nil {
			return nil, err
		}
	}
	client.SetAddress(req.AddressLine1, req.AddressLine2, req.City, req.State, req.PostalCode, req.Country)
	if req.Notes != "" {
		client.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, orgID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForOrg(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves a list of clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, orgID uuid.UUID, filter ClientListFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	page, err := s.clientRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(page.Items), page.Total, nil
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, orgID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForOrg(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != client.Email {
		exists, err := s.clientRepo.ExistsByEmail(ctx, orgID, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this email already exists")
		}
	}

	name := client.Name
	companyName := client.CompanyName
	email := client.Email
	phone := client.Phone
	taxID := client.TaxID
	if req.Name != nil {
		name = *req.Name
	}
	if req.CompanyName != nil {
		companyName = *req.CompanyName
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.TaxID != nil {
		taxID = *req.TaxID
	}
	if err := client.Update(name, companyName, email, phone, taxID); err != nil {
		return nil, err
	}

	if req.Currency != nil {
		if err := client.SetCurrency(valueobject.Currency(*req.Currency)); err != nil {
			return nil, err
		}
	}

	if req.AddressLine1 != nil || req.AddressLine2 != nil || req.City != nil ||
		req.State != nil || req.PostalCode != nil || req.Country != nil {
		line1 := client.AddressLine1
		line2 := client.AddressLine2
		city := client.City
		state := client.State
		postal := client.PostalCode
		country := client.Country
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
			postal = *req.PostalCode
		}
		if req.Country != nil {
			country = *req.Country
		}
		client.SetAddress(line1, line2, city, state, postal, country)
	}

	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}
	if req.IsActive != nil {
		if *req.IsActive {
			client.Activate()
		} else {
			client.Deactivate()
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Deactivate marks a client inactive without touching its invoices
func (s *ClientService) Deactivate(ctx context.Context, orgID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForOrg(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}

	client.Deactivate()
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client. Clients referenced by invoices cannot be deleted;
// deactivate them instead.
func (s *ClientService) Delete(ctx context.Context, orgID, clientID uuid.UUID) error {
	if _, err := s.clientRepo.FindByIDForOrg(ctx, orgID, clientID); err != nil {
		return err
	}

	count, err := s.invoiceRepo.CountByClient(ctx, orgID, clientID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a client with invoices; deactivate it instead")
	}

	return s.clientRepo.DeleteForOrg(ctx, orgID, clientID)
}
