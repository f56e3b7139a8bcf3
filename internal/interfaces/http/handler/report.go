package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/invoicehub/backend/internal/application/report"
)

// ReportHandler handles reporting and export API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// DateRangeQuery captures a reporting period. Dates are inclusive and
// default to the last 30 days when omitted.
type DateRangeQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// Range resolves the query into concrete period bounds
func (q DateRangeQuery) Range() (time.Time, time.Time) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if q.EndDate != "" {
		end, _ = time.Parse("2006-01-02", q.EndDate)
	}
	start := end.AddDate(0, 0, -30)
	if q.StartDate != "" {
		start, _ = time.Parse("2006-01-02", q.StartDate)
	}
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// RecentActivityQuery captures the recent activity limit
type RecentActivityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Dashboard returns aggregate invoice counts and revenue for the
// organization
func (h *ReportHandler) Dashboard(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	resp, err := h.reportService.DashboardStats(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Revenue returns daily revenue buckets over the requested period
func (h *ReportHandler) Revenue(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var query DateRangeQuery
	if !h.BindQuery(c, &query) {
		return
	}
	start, end := query.Range()
	if end.Before(start) {
		h.BadRequest(c, "end_date must not be before start_date")
		return
	}

	resp, err := h.reportService.RevenueReport(c.Request.Context(), orgID, start, end)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Outstanding returns every unpaid sent or overdue invoice with its balance
func (h *ReportHandler) Outstanding(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	resp, err := h.reportService.OutstandingReport(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RecentActivity returns the latest invoice lifecycle events
func (h *ReportHandler) RecentActivity(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var query RecentActivityQuery
	if !h.BindQuery(c, &query) {
		return
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	resp, err := h.reportService.RecentActivity(c.Request.Context(), orgID, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ExportCSV streams the organization's invoices for the period as a CSV
// attachment
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Missing organization scope")
		return
	}

	var query DateRangeQuery
	if !h.BindQuery(c, &query) {
		return
	}
	start, end := query.Range()
	if end.Before(start) {
		h.BadRequest(c, "end_date must not be before start_date")
		return
	}

	data, err := h.reportService.ExportCSV(c.Request.Context(), orgID, start, end)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	filename := fmt.Sprintf("invoices_%s_%s.csv",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
