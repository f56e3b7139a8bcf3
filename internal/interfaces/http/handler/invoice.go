package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/invoicehub/backend/internal/application/billing"
)

// InvoiceHandler handles invoice lifecycle API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	overdueService *billingapp.OverdueService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, overdueService *billingapp.OverdueService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		overdueService: overdueService,
	}
}

// Create creates a draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	var req billingapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.invoiceService.Create(c.Request.Context(), orgID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single invoice with its line items
func (h *InvoiceHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.GetByID(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber returns a single invoice looked up by its invoice number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Invalid invoice number")
		return
	}

	resp, err := h.invoiceService.GetByNumber(c.Request.Context(), orgID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a filtered, paginated invoice list
func (h *InvoiceHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var filter billingapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.invoiceService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// ListByClient returns the invoices referencing one client
func (h *InvoiceHandler) ListByClient(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	clientID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var filter billingapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.invoiceService.ListByClient(c.Request.Context(), orgID, clientID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Update applies header changes to a draft invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.invoiceService.Update(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem appends a line item to a draft invoice
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.AddInvoiceItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.invoiceService.AddItem(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateItem applies a partial update to a line item on a draft invoice
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	itemID, err := parseUUIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req billingapp.UpdateInvoiceItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.invoiceService.UpdateItem(c.Request.Context(), orgID, invoiceID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem removes a line item from a draft invoice
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	itemID, err := parseUUIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.invoiceService.RemoveItem(c.Request.Context(), orgID, invoiceID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Send transitions a draft invoice to sent
func (h *InvoiceHandler) Send(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.Send(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkPaid records payment against a sent or overdue invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	// Body is optional; an empty body records full payment as of now
	var req billingapp.MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if !h.BindJSON(c, &req) {
			return
		}
	}

	resp, err := h.invoiceService.MarkPaid(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels an invoice that has not been paid
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.Cancel(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a draft invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), orgID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ReconcileOverdue flips past-due sent invoices to overdue for the caller's
// organization
func (h *InvoiceHandler) ReconcileOverdue(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	resp, err := h.overdueService.ReconcileOverdue(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
