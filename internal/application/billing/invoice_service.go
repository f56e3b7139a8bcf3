package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/catalog"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/invoicehub/backend/internal/domain/partner"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/invoicehub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo    billing.Repository
	orgRepo        organization.Repository
	clientRepo     partner.Repository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.Repository, orgRepo organization.Repository, clientRepo partner.Repository, productRepo catalog.ProductRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		orgRepo:     orgRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft invoice. The invoice number is allocated
// atomically from the organization's counter, so concurrent creations never
// observe the same number.
func (s *InvoiceService) Create(ctx context.Context, orgID, userID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	client, err := s.clientRepo.FindByIDForOrg(ctx, orgID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Cannot create invoices for an inactive client")
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	_, invoiceNumber, err := s.orgRepo.NextInvoiceNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	dueDate := issueDate.AddDate(0, 0, org.DefaultPaymentTerms)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	// Currency fallback: request, then client preference, then organization
	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = client.Currency
	}
	if currency == "" {
		currency = org.Currency
	}

	inv, err := billing.NewInvoice(orgID, req.ClientID, invoiceNumber, issueDate, dueDate, currency)
	if err != nil {
		return nil, err
	}
	inv.SetCreatedBy(userID)

	if req.Notes != "" || req.Terms != "" || req.Footer != "" {
		if err := inv.SetNotes(req.Notes, req.Terms, req.Footer); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		taxRate, err := s.resolveTaxRate(ctx, orgID, org, item.ProductID, item.TaxRate)
		if err != nil {
			return nil, err
		}
		discount := decimal.Zero
		if item.DiscountPercent != nil {
			discount = *item.DiscountPercent
		}
		if _, err := inv.AddItem(item.ProductID, item.Description, item.Quantity, item.UnitPrice, taxRate, discount); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	response.ClientName = client.DisplayName()
	return &response, nil
}

// resolveTaxRate picks the line tax rate: explicit request value, then the
// product default, then the organization default
func (s *InvoiceService) resolveTaxRate(ctx context.Context, orgID uuid.UUID, org *organization.Organization, productID *uuid.UUID, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested != nil {
		return *requested, nil
	}
	if productID != nil {
		product, err := s.productRepo.FindByIDForOrg(ctx, orgID, *productID)
		if err != nil {
			return decimal.Zero, err
		}
		return product.DefaultTaxRate, nil
	}
	return org.DefaultTaxRate, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	response.ClientName = s.clientName(ctx, orgID, inv.ClientID)
	return &response, nil
}

// GetByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, orgID uuid.UUID, invoiceNumber string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByNumber(ctx, orgID, invoiceNumber)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	response.ClientName = s.clientName(ctx, orgID, inv.ClientID)
	return &response, nil
}

// List retrieves a list of invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, orgID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
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
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	page, err := s.invoiceRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := ToInvoiceListItemResponses(page.Items)
	s.enrichClientNames(ctx, orgID, page.Items, responses)

	return responses, page.Total, nil
}

// ListByClient retrieves invoices billed to a specific client
func (s *InvoiceService) ListByClient(ctx context.Context, orgID, clientID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	filter.ClientID = &clientID
	return s.List(ctx, orgID, filter)
}

// Update updates the header fields of a draft invoice
func (s *InvoiceService) Update(ctx context.Context, orgID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		client, err := s.clientRepo.FindByIDForOrg(ctx, orgID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if !client.IsActive {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Cannot bill an inactive client")
		}
		if err := inv.SetClient(*req.ClientID); err != nil {
			return nil, err
		}
	}

	if req.IssueDate != nil || req.DueDate != nil {
		issueDate := inv.IssueDate
		dueDate := inv.DueDate
		if req.IssueDate != nil {
			issueDate = *req.IssueDate
		}
		if req.DueDate != nil {
			dueDate = *req.DueDate
		}
		if err := inv.SetDates(issueDate, dueDate); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil || req.Terms != nil || req.Footer != nil {
		notes := inv.Notes
		terms := inv.Terms
		footer := inv.Footer
		if req.Notes != nil {
			notes = *req.Notes
		}
		if req.Terms != nil {
			terms = *req.Terms
		}
		if req.Footer != nil {
			footer = *req.Footer
		}
		if err := inv.SetNotes(notes, terms, footer); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	response.ClientName = s.clientName(ctx, orgID, inv.ClientID)
	return &response, nil
}

// AddItem adds a line item to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, orgID, invoiceID uuid.UUID, req AddInvoiceItemRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	taxRate, err := s.resolveTaxRate(ctx, orgID, org, req.ProductID, req.TaxRate)
	if err != nil {
		return nil, err
	}
	discount := decimal.Zero
	if req.DiscountPercent != nil {
		discount = *req.DiscountPercent
	}

	if _, err := inv.AddItem(req.ProductID, req.Description, req.Quantity, req.UnitPrice, taxRate, discount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// UpdateItem applies a partial update to a line item on a draft invoice
func (s *InvoiceService) UpdateItem(ctx context.Context, orgID, invoiceID, itemID uuid.UUID, req UpdateInvoiceItemRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.UpdateItem(itemID, req.Description, req.Quantity, req.UnitPrice, req.TaxRate, req.DiscountPercent); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RemoveItem removes a line item from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, orgID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Send transitions a draft invoice to sent
func (s *InvoiceService) Send(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Send(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// MarkPaid records payment against a sent or overdue invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, orgID, invoiceID uuid.UUID, req MarkPaidRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.MarkPaid(req.AmountPaid, req.PaidAt); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Cancel voids an unpaid invoice
func (s *InvoiceService) Cancel(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Cancel(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete removes a draft invoice and its items. Sent and later invoices are
// part of the financial record and can only be cancelled.
func (s *InvoiceService) Delete(ctx context.Context, orgID, invoiceID uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return err
	}

	if !inv.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}

	return s.invoiceRepo.DeleteForOrg(ctx, orgID, invoiceID)
}

// clientName looks up a client's display name, degrading to empty on any
// error so enrichment never fails a read
func (s *InvoiceService) clientName(ctx context.Context, orgID, clientID uuid.UUID) string {
	client, err := s.clientRepo.FindByIDForOrg(ctx, orgID, clientID)
	if err != nil {
		return ""
	}
	return client.DisplayName()
}

// enrichClientNames fills ClientName on list responses with one batched
// lookup
func (s *InvoiceService) enrichClientNames(ctx context.Context, orgID uuid.UUID, invoices []billing.Invoice, responses []InvoiceListItemResponse) {
	ids := make([]uuid.UUID, 0, len(invoices))
	seen := make(map[uuid.UUID]struct{}, len(invoices))
	for i := range invoices {
		if _, ok := seen[invoices[i].ClientID]; !ok {
			seen[invoices[i].ClientID] = struct{}{}
			ids = append(ids, invoices[i].ClientID)
		}
	}
	if len(ids) == 0 {
		return
	}

	clients, err := s.clientRepo.FindByIDs(ctx, orgID, ids)
	if err != nil {
		return
	}
	names := make(map[uuid.UUID]string, len(clients))
	for i := range clients {
		names[clients[i].ID] = clients[i].DisplayName()
	}
	for i := range responses {
		responses[i].ClientName = names[responses[i].ClientID]
	}
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range inv.GetDomainEvents() {
		// Event handling is best-effort; a failed publish never fails the
		// operation
		_ = s.eventPublisher.Publish(ctx, event)
	}
	inv.ClearDomainEvents()
}
