package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/services"
	"github.com/servicehub-pro/servicehub-api/store"
)

func (s *ControllerTestSuite) createTicket(serviceID, description string) models.ServiceTicket {
	w, env := s.do(http.MethodPost, "/api/v1/tickets", gin.H{
		"service_id":        serviceID,
		"description":       description,
		"verification_code": services.DefaultVerificationCode,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var ticket models.ServiceTicket
	s.data(env, &ticket)
	return ticket
}

func (s *ControllerTestSuite) TestTicketLifecycle() {
	s.loginAs("customer@example.com", models.RoleCustomer)
	ticket := s.createTicket("serv3", "Shower drain is blocked")
	s.Equal("tkt101", ticket.ID)
	s.Equal(models.TicketOpen, ticket.Status)
	s.Equal("Sanitary Services", ticket.ServiceType)
	s.Equal("Alice Johnson", ticket.CustomerName)

	s.loginAs("technician@example.com", models.RoleTechnician)
	for _, step := range []struct {
		action string
		want   models.TicketStatus
	}{
		{"accept", models.TicketAssigned},
		{"start", models.TicketInProgress},
		{"complete", models.TicketCompleted},
	} {
		w, env := s.do(http.MethodPost, "/api/v1/tickets/tkt101/"+step.action, nil)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.data(env, &ticket)
		s.Equal(step.want, ticket.Status)
	}
	s.Require().NotNil(ticket.TechnicianEarning)
	s.Equal(900.0, *ticket.TechnicianEarning)
	s.Equal(models.PaymentPending, *ticket.PaymentStatus)

	// Completing twice keeps the first payout.
	w, env := s.do(http.MethodPost, "/api/v1/tickets/tkt101/complete", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var again models.ServiceTicket
	s.data(env, &again)
	s.Equal(ticket, again)

	s.loginAs("customer@example.com", models.RoleCustomer)
	w, env = s.do(http.MethodPost, "/api/v1/tickets/tkt101/feedback", gin.H{"rating": 4, "feedback": "Fixed quickly"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.data(env, &ticket)
	s.Equal(4, *ticket.Rating)

	tech, err := s.store.User(s.T().Context(), "tech1")
	s.Require().NoError(err)
	s.Equal(26, tech.JobsCompleted)
	s.Equal(26, tech.RatingCount)
}

func (s *ControllerTestSuite) TestCreateTicketRequiresVerificationCode() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/v1/tickets", gin.H{
		"service_id": "serv1", "description": "Leak", "verification_code": "000000",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(apperr.CodeVerificationFailed, env.Error.Code)

	w, env = s.do(http.MethodPost, "/api/v1/tickets", gin.H{"service_id": "serv1", "description": "Leak"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeValidation, env.Error.Code)

	tickets, err := s.store.Tickets(s.T().Context(), store.TicketFilter{CustomerID: "cust1"})
	s.Require().NoError(err)
	s.Len(tickets, 3, "seeded tickets only")
}

func (s *ControllerTestSuite) TestCreateTicketUnknownService() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/v1/tickets", gin.H{
		"service_id": "serv99", "description": "Leak", "verification_code": services.DefaultVerificationCode,
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeValidation, env.Error.Code)
}

func (s *ControllerTestSuite) TestTicketRoutesEnforceRoles() {
	w, env := s.do(http.MethodGet, "/api/v1/tickets", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(apperr.CodeUnauthorized, env.Error.Code)

	s.loginAs("technician@example.com", models.RoleTechnician)
	w, env = s.do(http.MethodPost, "/api/v1/tickets", gin.H{
		"service_id": "serv1", "description": "Leak", "verification_code": services.DefaultVerificationCode,
	})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(apperr.CodeForbidden, env.Error.Code)

	s.loginAs("customer@example.com", models.RoleCustomer)
	w, _ = s.do(http.MethodPost, "/api/v1/tickets/tkt3/accept", nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ControllerTestSuite) TestAcceptAssignedTicketConflicts() {
	s.loginAs("technician@example.com", models.RoleTechnician)

	w, env := s.do(http.MethodPost, "/api/v1/tickets/tkt2/accept", nil)

	s.Equal(http.StatusConflict, w.Code)
	s.Equal(apperr.CodeInvalidTransition, env.Error.Code)
	ticket, err := s.store.Ticket(s.T().Context(), "tkt2")
	s.Require().NoError(err)
	s.Equal("tech2", *ticket.TechnicianID)
}

func (s *ControllerTestSuite) TestCompleteByOtherTechnicianForbidden() {
	s.loginAs("technician@example.com", models.RoleTechnician)

	w, env := s.do(http.MethodPost, "/api/v1/tickets/tkt2/complete", nil)

	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(apperr.CodeForbidden, env.Error.Code)
}

func (s *ControllerTestSuite) TestCancelTicket() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/v1/tickets/tkt3/cancel", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var ticket models.ServiceTicket
	s.data(env, &ticket)
	s.Equal(models.TicketCancelled, ticket.Status)

	w, env = s.do(http.MethodPost, "/api/v1/tickets/tkt3/cancel", nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(apperr.CodeInvalidTransition, env.Error.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/tickets/tkt2/cancel", nil)
	s.Equal(http.StatusForbidden, w.Code, "tkt2 belongs to another customer")
}

func (s *ControllerTestSuite) TestFeedbackValidation() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/v1/tickets/tkt5/feedback", gin.H{"rating": 6, "feedback": "Great"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeValidation, env.Error.Code)

	w, env = s.do(http.MethodPost, "/api/v1/tickets/tkt5/feedback", gin.H{"rating": 3, "feedback": "Again"})
	s.Equal(http.StatusConflict, w.Code, "tkt5 already has feedback")
	s.Equal(apperr.CodeInvalidTransition, env.Error.Code)
}

func (s *ControllerTestSuite) TestListTicketsByRole() {
	ids := func() []string {
		w, env := s.do(http.MethodGet, "/api/v1/tickets", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		var tickets []models.ServiceTicket
		s.data(env, &tickets)
		out := make([]string, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, t.ID)
		}
		return out
	}

	s.loginAs("customer@example.com", models.RoleCustomer)
	s.ElementsMatch([]string{"tkt1", "tkt3", "tkt5"}, ids())

	s.loginAs("eve@example.com", models.RoleTechnician)
	s.ElementsMatch([]string{"tkt2", "tkt4"}, ids())

	w, env := s.do(http.MethodGet, "/api/v1/tickets?scope=open", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var open []models.ServiceTicket
	s.data(env, &open)
	s.Require().Len(open, 1)
	s.Equal("tkt3", open[0].ID)

	w, _ = s.do(http.MethodGet, "/api/v1/tickets?scope=everything", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	s.loginAs("admin@example.com", models.RoleAdmin)
	s.Len(ids(), 5)
}

func (s *ControllerTestSuite) TestGetTicketVisibility() {
	s.loginAs("diana@example.com", models.RoleCustomer)
	w, _ := s.do(http.MethodGet, "/api/v1/tickets/tkt2", nil)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/tickets/tkt1", nil)
	s.Equal(http.StatusForbidden, w.Code)
	w, env := s.do(http.MethodGet, "/api/v1/tickets/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(apperr.CodeNotFound, env.Error.Code)

	s.loginAs("technician@example.com", models.RoleTechnician)
	w, _ = s.do(http.MethodGet, "/api/v1/tickets/tkt3", nil)
	s.Equal(http.StatusOK, w.Code, "open tickets are visible to every technician")
	w, _ = s.do(http.MethodGet, "/api/v1/tickets/tkt2", nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ControllerTestSuite) TestSuggestions() {
	s.assistant.Answers["Leaky pipe"] = "Inspect and fix the leak."
	s.assistant.Answers["Feedback:"] = " 5 "
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/v1/tickets/suggest-description", gin.H{"service_type": "Emergency Plumbing"})
	s.Require().Equal(http.StatusOK, w.Code)
	var desc struct {
		Description string `json:"description"`
	}
	s.data(env, &desc)
	s.Equal("Inspect and fix the leak.", desc.Description)

	w, env = s.do(http.MethodPost, "/api/v1/tickets/suggest-rating", gin.H{"feedback": "Brilliant work"})
	s.Require().Equal(http.StatusOK, w.Code)
	var rating struct {
		Rating int `json:"rating"`
	}
	s.data(env, &rating)
	s.Equal(5, rating.Rating)
}

func (s *ControllerTestSuite) TestSuggestionsFallBackWhenAssistantFails() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/v1/tickets/suggest-rating", gin.H{"feedback": "Meh"})

	s.Require().Equal(http.StatusOK, w.Code)
	var rating struct {
		Rating int `json:"rating"`
	}
	s.data(env, &rating)
	s.Equal(services.NeutralRating, rating.Rating)
}
