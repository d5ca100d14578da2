package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListServices handles GET /api/v1/services
func (ctl *Controller) ListServices(c *gin.Context) {
	services, err := ctl.Store.Services(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, services)
}

// ListPlans handles GET /api/v1/plans - cheapest first
func (ctl *Controller) ListPlans(c *gin.Context) {
	plans, err := ctl.Store.Plans(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, plans)
}

// ListInventory handles GET /api/v1/inventory
func (ctl *Controller) ListInventory(c *gin.Context) {
	items, err := ctl.Store.Inventory(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, items)
}
