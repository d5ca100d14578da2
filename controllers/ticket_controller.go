package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/store"
)

// CreateTicketRequest represents the request body for creating a ticket.
// The verification code confirms the customer's phone before booking.
type CreateTicketRequest struct {
	ServiceID        string `json:"service_id"        validate:"required"`
	Description      string `json:"description"       validate:"required,max=2000"`
	VerificationCode string `json:"verification_code" validate:"required,len=6,numeric"`
}

// FeedbackRequest represents the request body for rating a completed ticket
type FeedbackRequest struct {
	Rating   int    `json:"rating"   validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

type SuggestDescriptionRequest struct {
	ServiceType string `json:"service_type" validate:"required,max=200"`
}

type SuggestRatingRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

// CreateTicket handles POST /api/v1/tickets - opens a ticket (customers only)
func (ctl *Controller) CreateTicket(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	var req CreateTicketRequest
	if !ctl.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := ctl.Verifier.Verify(ctx, user.Phone, req.VerificationCode); err != nil {
		ctl.fail(c, err)
		return
	}

	ticket, err := ctl.Store.CreateTicket(ctx, user.ID, req.ServiceID, req.Description)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, ticket)
}

// ListTickets handles GET /api/v1/tickets
//
// Customers see their own tickets. Technicians see the tickets assigned to
// them, or the open queue with ?scope=open. Admins see everything. All
// roles may narrow the list with ?status=.
func (ctl *Controller) ListTickets(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}

	filter := store.TicketFilter{Status: models.TicketStatus(c.Query("status"))}
	switch user.Role {
	case models.RoleCustomer:
		filter.CustomerID = user.ID
	case models.RoleTechnician:
		switch c.DefaultQuery("scope", "assigned") {
		case "open":
			filter.Status = models.TicketOpen
		case "assigned":
			filter.TechnicianID = user.ID
		default:
			respondError(c, http.StatusBadRequest, apperr.CodeValidation, "scope must be open or assigned")
			return
		}
	}

	tickets, err := ctl.Store.Tickets(c.Request.Context(), filter)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, tickets)
}

// GetTicket handles GET /api/v1/tickets/:id
func (ctl *Controller) GetTicket(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}

	ticket, err := ctl.Store.Ticket(c.Request.Context(), c.Param("id"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	if !canView(user, ticket) {
		respondError(c, http.StatusForbidden, apperr.CodeForbidden, "You do not have access to this ticket")
		return
	}
	respond(c, http.StatusOK, ticket)
}

func canView(user models.User, ticket models.ServiceTicket) bool {
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return ticket.CustomerID == user.ID
	case models.RoleTechnician:
		return ticket.Status == models.TicketOpen || ticket.AssignedTo(user.ID)
	}
	return false
}

// AcceptTicket handles POST /api/v1/tickets/:id/accept
func (ctl *Controller) AcceptTicket(c *gin.Context) {
	ctl.ticketAction(c, ctl.Store.AcceptTicket)
}

// StartTicket handles POST /api/v1/tickets/:id/start
func (ctl *Controller) StartTicket(c *gin.Context) {
	ctl.ticketAction(c, ctl.Store.StartTicket)
}

// CompleteTicket handles POST /api/v1/tickets/:id/complete
func (ctl *Controller) CompleteTicket(c *gin.Context) {
	ctl.ticketAction(c, ctl.Store.CompleteTicket)
}

// CancelTicket handles POST /api/v1/tickets/:id/cancel
func (ctl *Controller) CancelTicket(c *gin.Context) {
	ctl.ticketAction(c, ctl.Store.CancelTicket)
}

type ticketActionFunc func(ctx context.Context, ticketID, userID string) (models.ServiceTicket, error)

// ticketAction runs action as the session user against the :id ticket.
func (ctl *Controller) ticketAction(c *gin.Context, action ticketActionFunc) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	ticket, err := action(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, ticket)
}

// SubmitFeedback handles POST /api/v1/tickets/:id/feedback
func (ctl *Controller) SubmitFeedback(c *gin.Context) {
	user, ok := ctl.currentUser(c)
	if !ok {
		return
	}
	var req FeedbackRequest
	if !ctl.bind(c, &req) {
		return
	}

	ticket, err := ctl.Store.SubmitFeedback(c.Request.Context(), c.Param("id"), user.ID, req.Rating, req.Feedback)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	respond(c, http.StatusOK, ticket)
}

// SuggestDescription handles POST /api/v1/tickets/suggest-description
func (ctl *Controller) SuggestDescription(c *gin.Context) {
	var req SuggestDescriptionRequest
	if !ctl.bind(c, &req) {
		return
	}
	description := ctl.Text.JobDescription(c.Request.Context(), req.ServiceType)
	respond(c, http.StatusOK, gin.H{"description": description})
}

// SuggestRating handles POST /api/v1/tickets/suggest-rating
func (ctl *Controller) SuggestRating(c *gin.Context) {
	var req SuggestRatingRequest
	if !ctl.bind(c, &req) {
		return
	}
	rating := ctl.Text.RatingFromFeedback(c.Request.Context(), req.Feedback)
	respond(c, http.StatusOK, gin.H{"rating": rating})
}
