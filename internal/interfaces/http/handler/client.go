package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/invoicehub/backend/internal/application/partner"
)

// ClientHandler handles client (invoice recipient) API endpoints
type ClientHandler struct {
	BaseHandler
	clientService *partnerapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *partnerapp.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create creates a client
func (h *ClientHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var req partnerapp.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.clientService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single client
func (h *ClientHandler) Get(c *gin.Context) {
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

	resp, err := h.clientService.GetByID(c.Request.Context(), orgID, clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a filtered, paginated client list
func (h *ClientHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var filter partnerapp.ClientListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.clientService.List(c.Request.Context(), orgID, filter)
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

// Update applies partial changes to a client
func (h *ClientHandler) Update(c *gin.Context) {
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

	var req partnerapp.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.clientService.Update(c.Request.Context(), orgID, clientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate marks a client inactive without removing it
func (h *ClientHandler) Deactivate(c *gin.Context) {
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

	resp, err := h.clientService.Deactivate(c.Request.Context(), orgID, clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a client with no invoices
func (h *ClientHandler) Delete(c *gin.Context) {
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

	if err := h.clientService.Delete(c.Request.Context(), orgID, clientID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
