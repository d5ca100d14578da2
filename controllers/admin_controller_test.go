package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/services"
	"github.com/servicehub-pro/servicehub-api/store"
)

func (s *ControllerTestSuite) TestAdminRoutesRequireAdmin() {
	w, _ := s.do(http.MethodGet, "/api/v1/admin/users", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	s.loginAs("customer@example.com", models.RoleCustomer)
	w, env := s.do(http.MethodGet, "/api/v1/admin/users", nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(apperr.CodeForbidden, env.Error.Code)
}

func (s *ControllerTestSuite) TestListUsers() {
	s.loginAs("admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodGet, "/api/v1/admin/users?role=Technician", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var users []models.User
	s.data(env, &users)
	s.Require().Len(users, 2)
	s.Equal("Bob Vance", users[0].Name)
	s.Equal("Eve Masters", users[1].Name)
}

func (s *ControllerTestSuite) TestTechnicianSummary() {
	s.assistant.Answers["specializing in Electrical"] = "Eve is a seasoned electrician."
	s.loginAs("admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodGet, "/api/v1/admin/technicians/tech2/summary", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp struct {
		Technician models.User `json:"technician"`
		Summary    string      `json:"summary"`
	}
	s.data(env, &resp)
	s.Equal("tech2", resp.Technician.ID)
	s.Equal("Eve is a seasoned electrician.", resp.Summary)

	w, _ = s.do(http.MethodGet, "/api/v1/admin/technicians/cust1/summary", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) TestOverview() {
	s.loginAs("admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodGet, "/api/v1/admin/overview?period=today", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var overview store.Overview
	s.data(env, &overview)
	s.Equal(store.PeriodToday, overview.Period)
	s.Equal(int64(2), overview.TotalCustomers)
	s.Equal(int64(0), overview.NewCustomers)
	s.Equal(int64(1), overview.OpenTickets)
	s.Equal(int64(1), overview.CompletedTickets)

	w, env = s.do(http.MethodGet, "/api/v1/admin/overview?period=decade", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeValidation, env.Error.Code)
}

func (s *ControllerTestSuite) TestPayouts() {
	s.loginAs("admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodGet, "/api/v1/admin/payouts", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var payouts store.Payouts
	s.data(env, &payouts)
	s.Require().Len(payouts.Pending, 1)
	s.Equal("tkt5", payouts.Pending[0].ID)
	s.Equal(1200.0, payouts.PendingTotal)
	s.Equal(2250.0, payouts.PaidTotal)

	w, env = s.do(http.MethodPost, "/api/v1/admin/payouts/tkt5/pay", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var ticket models.ServiceTicket
	s.data(env, &ticket)
	s.Equal(models.PaymentPaid, *ticket.PaymentStatus)

	w, env = s.do(http.MethodPost, "/api/v1/admin/payouts/tkt3/pay", nil)
	s.Equal(http.StatusConflict, w.Code, "open tickets have no payout")
	s.Equal(apperr.CodeInvalidTransition, env.Error.Code)
}

func (s *ControllerTestSuite) TestExportPayments() {
	s.loginAs("admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodPost, "/api/v1/admin/payments/export", nil)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var export services.Export
	s.data(env, &export)
	s.Equal(2, export.Rows)
	s.True(strings.HasPrefix(export.Key, "reports/payments/"))
	s.Contains(export.URL, export.Key)

	body, contentType, ok := s.s3.Object(export.Key)
	s.Require().True(ok)
	s.Equal("text/csv", contentType)
	s.Contains(string(body), "Diana Prince")
}

func (s *ControllerTestSuite) TestExportPaymentsDisabled() {
	ctl := New(s.store, nil, services.StaticCodeVerifier{}, nil, zerolog.Nop())
	router := gin.New()
	router.POST("/export", ctl.ExportPayments)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/export", nil))

	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Contains(w.Body.String(), "REPORTS_DISABLED")
}

func (s *ControllerTestSuite) TestUpdatePlans() {
	s.loginAs("admin@example.com", models.RoleAdmin)
	plans := []models.PricingPlan{
		{ID: "plan1", Tier: "Basic", MonthlyPrice: 99, AnnualPrice: 999, Class: models.ClassResidential, IncludedServiceIDs: []string{"serv1"}},
		{ID: "plan2", Tier: "Business", MonthlyPrice: 999, AnnualPrice: 9999, Class: models.ClassCommercial, IncludedServiceIDs: []string{"serv5"}},
	}

	w, env := s.do(http.MethodPut, "/api/v1/admin/plans", plans)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated []models.PricingPlan
	s.data(env, &updated)
	s.Require().Len(updated, 2)
	s.Equal("Basic", updated[0].Tier)

	plans[1].Tier = "Basic"
	w, env = s.do(http.MethodPut, "/api/v1/admin/plans", plans)
	s.Equal(http.StatusBadRequest, w.Code, "duplicate tiers")
	s.Equal(apperr.CodeValidation, env.Error.Code)

	w, _ = s.do(http.MethodPut, "/api/v1/admin/plans", gin.H{"not": "a list"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) TestUpdateServicesKeepsPlanServices() {
	s.loginAs("admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodPut, "/api/v1/admin/services", []models.ServiceDefinition{
		{ID: "serv5", Name: "Annual HVAC Maintenance", Class: models.ClassCommercial, Price: 8000},
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeValidation, env.Error.Code)
	catalog, err := s.store.Services(s.T().Context())
	s.Require().NoError(err)
	s.Len(catalog, 6)
}

func (s *ControllerTestSuite) TestSettings() {
	s.loginAs("admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodGet, "/api/v1/admin/settings", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var settings models.AppSettings
	s.data(env, &settings)
	s.Equal("servicehubpro@gbi", settings.Payee())

	settings.PaymentGateway.UPIID = "newpayee@bank"
	w, env = s.do(http.MethodPut, "/api/v1/admin/settings", settings)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.data(env, &settings)
	s.Equal("newpayee@bank", settings.Payee())
}

func (s *ControllerTestSuite) TestSubscriptionChange() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPut, "/api/v1/subscription", gin.H{"tier": "Ultra"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp ChangeSubscriptionResponse
	s.data(env, &resp)
	s.True(resp.Changed)
	s.Equal("Ultra", resp.User.Tier())
	s.Require().NotNil(resp.Payment)
	s.Equal(599.0, resp.Payment.Amount)
	s.Equal(models.PaymentUpgrade, resp.Payment.Type)
	s.Equal([]float64{599}, s.confirmed)

	w, env = s.do(http.MethodPut, "/api/v1/subscription", gin.H{"tier": "Ultra"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.data(env, &resp)
	s.False(resp.Changed)
	s.Nil(resp.Payment)

	w, env = s.do(http.MethodGet, "/api/v1/subscription", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var sub SubscriptionResponse
	s.data(env, &sub)
	s.Equal("Ultra", sub.Tier)
	s.Len(sub.Payments, 2)
}

func (s *ControllerTestSuite) TestSubscriptionChangeFailures() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPut, "/api/v1/subscription", gin.H{"tier": "Platinum"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeUnknownPlan, env.Error.Code)

	s.payErr = errors.New("declined")
	w, env = s.do(http.MethodPut, "/api/v1/subscription", gin.H{"tier": "Super"})
	s.Equal(http.StatusPaymentRequired, w.Code)
	s.Equal(apperr.CodePaymentFailed, env.Error.Code)

	user, err := s.store.User(s.T().Context(), "cust1")
	s.Require().NoError(err)
	s.Equal("Premium", user.Tier(), "a failed payment leaves the tier unchanged")
}

func (s *ControllerTestSuite) TestTechnicianEarningsAndStats() {
	s.loginAs("technician@example.com", models.RoleTechnician)

	w, env := s.do(http.MethodGet, "/api/v1/technician/earnings?year=2023", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var earnings store.Earnings
	s.data(env, &earnings)
	s.Require().Len(earnings.Jobs, 1)
	s.Equal("tkt1", earnings.Jobs[0].ID)
	s.Equal(750.0, earnings.Total)
	s.ElementsMatch([]int{2023, 2024}, earnings.Years)

	w, env = s.do(http.MethodGet, "/api/v1/technician/earnings?month=july", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeValidation, env.Error.Code)

	w, env = s.do(http.MethodGet, "/api/v1/technician/stats", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats store.TechnicianStats
	s.data(env, &stats)
	s.Equal(2, stats.Completed)
	s.Equal(5.0, stats.AverageRating)
}
