package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/store"
)

// ListUsers handles GET /api/v1/admin/users?role=
func (ctl *Controller) ListUsers(c *gin.Context) {
	users, err := ctl.Store.Users(c.Request.Context(), models.Role(c.Query("role")))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, users)
}

// TechnicianSummary handles GET /api/v1/admin/technicians/:id/summary -
// the technician's profile with a generated one-paragraph summary
func (ctl *Controller) TechnicianSummary(c *gin.Context) {
	ctx := c.Request.Context()
	tech, err := ctl.Store.User(ctx, c.Param("id"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	if !tech.IsTechnician() {
		respondError(c, http.StatusNotFound, apperr.CodeNotFound, "Technician not found")
		return
	}

	summary := ctl.Text.TechnicianSummary(ctx, tech.JobsCompleted, tech.Rating, tech.Specialty)
	respond(c, http.StatusOK, gin.H{
		"technician": tech,
		"summary":    summary,
	})
}

// Overview handles GET /api/v1/admin/overview?period=all|today|month|year
func (ctl *Controller) Overview(c *gin.Context) {
	overview, err := ctl.Store.Overview(c.Request.Context(), store.Period(c.Query("period")))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, overview)
}

// Payouts handles GET /api/v1/admin/payouts
func (ctl *Controller) Payouts(c *gin.Context) {
	payouts, err := ctl.Store.TechnicianPayouts(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, payouts)
}

// PayTechnician handles POST /api/v1/admin/payouts/:id/pay - marks the
// payout of ticket :id as paid
func (ctl *Controller) PayTechnician(c *gin.Context) {
	ticket, err := ctl.Store.PayTechnician(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, ticket)
}

// ListPayments handles GET /api/v1/admin/payments?customer_id=
func (ctl *Controller) ListPayments(c *gin.Context) {
	payments, err := ctl.Store.Payments(c.Request.Context(), c.Query("customer_id"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, payments)
}

// ExportPayments handles POST /api/v1/admin/payments/export
func (ctl *Controller) ExportPayments(c *gin.Context) {
	if ctl.Reports == nil {
		respondError(c, http.StatusServiceUnavailable, "REPORTS_DISABLED", "Report export is not configured")
		return
	}
	export, err := ctl.Reports.ExportPayments(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, export)
}

// UpdatePlans handles PUT /api/v1/admin/plans - replaces every plan
func (ctl *Controller) UpdatePlans(c *gin.Context) {
	var plans []models.PricingPlan
	if err := c.ShouldBindJSON(&plans); err != nil {
		respondError(c, http.StatusBadRequest, apperr.CodeValidation, "Invalid request data")
		return
	}
	updated, err := ctl.Store.UpdatePricingPlans(c.Request.Context(), plans)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// UpdateServices handles PUT /api/v1/admin/services - replaces the catalog
func (ctl *Controller) UpdateServices(c *gin.Context) {
	var services []models.ServiceDefinition
	if err := c.ShouldBindJSON(&services); err != nil {
		respondError(c, http.StatusBadRequest, apperr.CodeValidation, "Invalid request data")
		return
	}
	updated, err := ctl.Store.UpdateServices(c.Request.Context(), services)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// GetSettings handles GET /api/v1/admin/settings
func (ctl *Controller) GetSettings(c *gin.Context) {
	settings, err := ctl.Store.Settings(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/admin/settings
func (ctl *Controller) UpdateSettings(c *gin.Context) {
	var settings models.AppSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondError(c, http.StatusBadRequest, apperr.CodeValidation, "Invalid request data")
		return
	}
	updated, err := ctl.Store.UpdateAppSettings(c.Request.Context(), settings)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}
