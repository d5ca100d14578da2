package controllers

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/servicehub-pro/servicehub-api/config"
	"github.com/servicehub-pro/servicehub-api/middleware"
	"github.com/servicehub-pro/servicehub-api/models"
)

// NewRouter wires every /api/v1 route onto a new engine.
func NewRouter(cfg *config.Config, ctl *Controller) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(ctl.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 || slices.Contains(cfg.CORSAllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	loggedIn := middleware.RequireRole(ctl.Store)
	customer := middleware.RequireRole(ctl.Store, models.RoleCustomer)
	technician := middleware.RequireRole(ctl.Store, models.RoleTechnician)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", ctl.Health)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", ctl.Register)
			auth.POST("/login", ctl.Login)
			auth.POST("/verify", ctl.Verify)
			auth.POST("/logout", ctl.Logout)
			auth.GET("/session", loggedIn, ctl.Session)
		}

		v1.GET("/services", ctl.ListServices)
		v1.GET("/plans", ctl.ListPlans)
		v1.GET("/inventory", middleware.RequireRole(ctl.Store, models.RoleTechnician, models.RoleAdmin), ctl.ListInventory)

		tickets := v1.Group("/tickets")
		{
			tickets.GET("", loggedIn, ctl.ListTickets)
			tickets.POST("", customer, ctl.CreateTicket)
			tickets.POST("/suggest-description", customer, ctl.SuggestDescription)
			tickets.POST("/suggest-rating", customer, ctl.SuggestRating)
			tickets.GET("/:id", loggedIn, ctl.GetTicket)
			tickets.POST("/:id/accept", technician, ctl.AcceptTicket)
			tickets.POST("/:id/start", technician, ctl.StartTicket)
			tickets.POST("/:id/complete", technician, ctl.CompleteTicket)
			tickets.POST("/:id/cancel", customer, ctl.CancelTicket)
			tickets.POST("/:id/feedback", customer, ctl.SubmitFeedback)
		}

		v1.GET("/subscription", customer, ctl.GetSubscription)
		v1.PUT("/subscription", customer, ctl.ChangeSubscription)

		v1.GET("/technician/earnings", technician, ctl.TechnicianEarnings)
		v1.GET("/technician/stats", technician, ctl.TechnicianStats)

		admin := v1.Group("/admin")
		if cfg.AdminJWTEnabled() {
			guard, err := middleware.EnsureValidToken(cfg.Auth0Domain, cfg.Auth0Audience, ctl.Logger)
			if err != nil {
				return nil, err
			}
			admin.Use(guard, middleware.RequireScope(middleware.AdminScope))
		}
		admin.Use(middleware.RequireRole(ctl.Store, models.RoleAdmin))
		{
			admin.GET("/users", ctl.ListUsers)
			admin.GET("/technicians/:id/summary", ctl.TechnicianSummary)
			admin.GET("/overview", ctl.Overview)
			admin.GET("/payouts", ctl.Payouts)
			admin.POST("/payouts/:id/pay", ctl.PayTechnician)
			admin.GET("/payments", ctl.ListPayments)
			admin.POST("/payments/export", ctl.ExportPayments)
			admin.PUT("/plans", ctl.UpdatePlans)
			admin.PUT("/services", ctl.UpdateServices)
			admin.GET("/settings", ctl.GetSettings)
			admin.PUT("/settings", ctl.UpdateSettings)
		}
	}

	return r, nil
}
