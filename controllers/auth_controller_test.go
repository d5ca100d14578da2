package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

func (s *ControllerTestSuite) TestRegisterCustomerWithPlan() {
	w, env := s.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":    "Frank Castle",
		"email":   "  Frank@Example.com ",
		"phone":   "9876500000",
		"role":    "Customer",
		"address": "1 Hell's Kitchen",
		"plan":    "Super",
	})

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var user models.User
	s.data(env, &user)
	s.Equal("cust101", user.ID)
	s.Equal("frank@example.com", user.Email)
	s.Equal("Super", user.Tier())
	s.Equal([]float64{399}, s.confirmed)

	// Registration logs the new user in.
	w, env = s.do(http.MethodGet, "/api/v1/auth/session", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var current models.User
	s.data(env, &current)
	s.Equal("cust101", current.ID)
}

func (s *ControllerTestSuite) TestRegisterErrors() {
	valid := func() gin.H {
		return gin.H{"name": "Grace", "email": "grace@example.com", "phone": "9876500001", "role": "Technician"}
	}

	tests := []struct {
		name       string
		mutate     func(gin.H)
		wantStatus int
		wantCode   string
	}{
		{"duplicate email", func(b gin.H) { b["email"] = "customer@example.com" }, http.StatusConflict, apperr.CodeDuplicateEmail},
		{"bad email", func(b gin.H) { b["email"] = "not-an-email" }, http.StatusBadRequest, apperr.CodeValidation},
		{"admin role", func(b gin.H) { b["role"] = "Admin" }, http.StatusBadRequest, apperr.CodeValidation},
		{"unknown plan", func(b gin.H) { b["role"] = "Customer"; b["plan"] = "Platinum" }, http.StatusBadRequest, apperr.CodeUnknownPlan},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			body := valid()
			tt.mutate(body)
			w, env := s.do(http.MethodPost, "/api/v1/auth/register", body)
			s.Equal(tt.wantStatus, w.Code)
			s.False(env.Success)
			s.Equal(tt.wantCode, env.Error.Code)
		})
	}

	users, err := s.store.Users(s.T().Context(), "")
	s.Require().NoError(err)
	s.Len(users, 5, "failed registrations must not create users")
}

func (s *ControllerTestSuite) TestRegisterPaymentFailure() {
	s.payErr = errors.New("gateway down")

	w, env := s.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Hank", "email": "hank@example.com", "phone": "9876500002", "role": "Customer", "plan": "Ultra",
	})

	s.Equal(http.StatusPaymentRequired, w.Code)
	s.Equal(apperr.CodePaymentFailed, env.Error.Code)
	_, err := s.store.CurrentUser(s.T().Context())
	s.ErrorIs(err, apperr.ErrUnauthorized)
}

func (s *ControllerTestSuite) TestLoginReturnsMaskedPhone() {
	w, env := s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "customer@example.com", "role": "Customer"})

	s.Require().Equal(http.StatusOK, w.Code)
	var resp LoginResponse
	s.data(env, &resp)
	s.Equal("Alice Johnson", resp.Name)
	s.Equal("******3210", resp.MaskedPhone)

	// Not logged in until verified.
	w, _ = s.do(http.MethodGet, "/api/v1/auth/session", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ControllerTestSuite) TestLoginWrongRole() {
	w, env := s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "customer@example.com", "role": "Technician"})

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(apperr.CodeNotFound, env.Error.Code)
}

func (s *ControllerTestSuite) TestVerify() {
	w, env := s.do(http.MethodPost, "/api/v1/auth/verify", gin.H{"code": "123456"})
	s.Equal(http.StatusUnauthorized, w.Code, "no login in progress")
	s.Equal(apperr.CodeUnauthorized, env.Error.Code)

	s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "technician@example.com", "role": "Technician"})

	w, env = s.do(http.MethodPost, "/api/v1/auth/verify", gin.H{"code": "654321"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(apperr.CodeVerificationFailed, env.Error.Code)

	w, env = s.do(http.MethodPost, "/api/v1/auth/verify", gin.H{"code": "12"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(apperr.CodeValidation, env.Error.Code)

	user := s.loginAs("technician@example.com", models.RoleTechnician)
	s.Equal("tech1", user.ID)
}

func (s *ControllerTestSuite) TestLogout() {
	s.loginAs("customer@example.com", models.RoleCustomer)

	w, _ := s.do(http.MethodPost, "/api/v1/auth/logout", nil)
	s.Equal(http.StatusOK, w.Code)

	w, env := s.do(http.MethodGet, "/api/v1/auth/session", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(apperr.CodeUnauthorized, env.Error.Code)
}
