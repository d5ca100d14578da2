package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

// ChangeSubscriptionRequest selects the tier to move to.
type ChangeSubscriptionRequest struct {
	Tier string `json:"tier" validate:"required,max=50"`
}

// SubscriptionResponse is the customer's tier and payment history.
type SubscriptionResponse struct {
	Tier     string                   `json:"tier"`
	Payments []models.CustomerPayment `json:"payments"`
}

// ChangeSubscriptionResponse reports the outcome of a tier change. Payment
// is nil when the customer picked the tier they already had.
type ChangeSubscriptionResponse struct {
	User    models.User             `json:"user"`
	Payment *models.CustomerPayment `json:"payment"`
	Changed bool                    `json:"changed"`
}

// GetSubscription handles GET /api/v1/subscription
func (ctl *Controller) GetSubscription(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	payments, err := ctl.Store.Payments(c.Request.Context(), user.ID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, SubscriptionResponse{Tier: user.Tier(), Payments: payments})
}

// ChangeSubscription handles PUT /api/v1/subscription - pays for and
// switches to another tier
func (ctl *Controller) ChangeSubscription(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	var req ChangeSubscriptionRequest
	if !ctl.bind(c, &req) {
		return
	}

	payment, updated, err := ctl.Store.ChangeSubscription(c.Request.Context(), user.ID, req.Tier)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, ChangeSubscriptionResponse{User: updated, Payment: payment, Changed: payment != nil})
}

// TechnicianEarnings handles GET /api/v1/technician/earnings?year=&month=
func (ctl *Controller) TechnicianEarnings(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	year, err := queryInt(c, "year")
	if err != nil {
		ctl.fail(c, err)
		return
	}
	month, err := queryInt(c, "month")
	if err != nil {
		ctl.fail(c, err)
		return
	}

	earnings, err := ctl.Store.TechnicianEarnings(c.Request.Context(), user.ID, year, month)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, earnings)
}

// TechnicianStats handles GET /api/v1/technician/stats
func (ctl *Controller) TechnicianStats(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	stats, err := ctl.Store.TechnicianStats(c.Request.Context(), user.ID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// queryInt reads an optional integer query parameter. Missing means 0.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be a number", key)
	}
	return n, nil
}
