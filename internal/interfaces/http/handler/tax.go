package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/invoicehub/backend/internal/application/catalog"
)

// TaxRateHandler handles tax rate API endpoints
type TaxRateHandler struct {
	BaseHandler
	taxService *catalogapp.TaxRateService
}

// NewTaxRateHandler creates a new TaxRateHandler
func NewTaxRateHandler(taxService *catalogapp.TaxRateService) *TaxRateHandler {
	return &TaxRateHandler{taxService: taxService}
}

// Create creates a tax rate
func (h *TaxRateHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var req catalogapp.CreateTaxRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.taxService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single tax rate
func (h *TaxRateHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	taxID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	resp, err := h.taxService.GetByID(c.Request.Context(), orgID, taxID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns all tax rates for the organization, default first
func (h *TaxRateHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	resp, err := h.taxService.List(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update applies partial changes to a tax rate
func (h *TaxRateHandler) Update(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	taxID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	var req catalogapp.UpdateTaxRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.taxService.Update(c.Request.Context(), orgID, taxID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetDefault makes a tax rate the organization default, clearing any
// previous default
func (h *TaxRateHandler) SetDefault(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	taxID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	resp, err := h.taxService.SetDefault(c.Request.Context(), orgID, taxID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate marks a tax rate inactive
func (h *TaxRateHandler) Deactivate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	taxID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	if err := h.taxService.Deactivate(c.Request.Context(), orgID, taxID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a tax rate
func (h *TaxRateHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}
	taxID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	if err := h.taxService.Delete(c.Request.Context(), orgID, taxID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
