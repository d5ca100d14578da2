package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/session"
	"github.com/servicehub-pro/servicehub-api/utils"
)

// VerifyRequest carries the one-time code sent to the user's phone.
type VerifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// LoginResponse tells the client where the verification code went.
type LoginResponse struct {
	Name        string `json:"name"`
	MaskedPhone string `json:"masked_phone"`
}

// Health handles GET /api/v1/health
func (ctl *Controller) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := ctl.Store.Ping(ctx); err != nil {
		ctl.Logger.Error().Err(err).Msg("health check failed")
		respondError(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ServiceHub Pro API is running",
	})
}

// Register handles POST /api/v1/auth/register - creates a customer or
// technician account and logs it in
func (ctl *Controller) Register(c *gin.Context) {
	var details session.Details
	if err := c.ShouldBindJSON(&details); err != nil {
		respondError(c, http.StatusBadRequest, apperr.CodeValidation, "Invalid request data")
		return
	}

	user, err := ctl.Store.Register(c.Request.Context(), details)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login - matches the account and starts
// phone verification
func (ctl *Controller) Login(c *gin.Context) {
	var creds session.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respondError(c, http.StatusBadRequest, apperr.CodeValidation, "Invalid request data")
		return
	}

	user, err := ctl.Store.Login(c.Request.Context(), creds)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LoginResponse{Name: user.Name, MaskedPhone: utils.MaskPhone(user.Phone)})
}

// Verify handles POST /api/v1/auth/verify - checks the code and completes
// the pending login
func (ctl *Controller) Verify(c *gin.Context) {
	var req VerifyRequest
	if !ctl.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	pending, err := ctl.Store.PendingLogin(ctx)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	if err := ctl.Verifier.Verify(ctx, pending.Phone, req.Code); err != nil {
		ctl.fail(c, err)
		return
	}

	user, err := ctl.Store.CompleteLogin(ctx)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// Logout handles POST /api/v1/auth/logout
func (ctl *Controller) Logout(c *gin.Context) {
	ctl.Store.Logout()
	respond(c, http.StatusOK, gin.H{"logged_out": true})
}

// Session handles GET /api/v1/auth/session - returns the logged-in user
func (ctl *Controller) Session(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, user)
}
