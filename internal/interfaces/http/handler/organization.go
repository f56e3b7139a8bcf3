package handler

import (
	"github.com/gin-gonic/gin"
	orgapp "github.com/invoicehub/backend/internal/application/organization"
)

// OrganizationHandler handles organization profile and settings endpoints.
// Every route operates on the caller's own organization; there is no
// cross-organization access.
type OrganizationHandler struct {
	BaseHandler
	orgService *orgapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *orgapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Get returns the caller's organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	resp, err := h.orgService.Get(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateProfile updates the organization's business profile
func (h *OrganizationHandler) UpdateProfile(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var req orgapp.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orgService.UpdateProfile(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateSettings updates invoicing defaults such as numbering prefix,
// currency and payment terms
func (h *OrganizationHandler) UpdateSettings(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var req orgapp.UpdateSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orgService.UpdateSettings(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
