package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/servicehub-pro/servicehub-api/models"
)

// Seed loads the demo collections into an empty database. It does nothing
// when users already exist.
func (s *Store) Seed(ctx context.Context) error {
	return s.mutate(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			s.log.Debug().Int64("users", count).Msg("database already seeded")
			return nil
		}

		data := DemoData(s.clock())
		for _, batch := range []any{
			&data.Services, &data.Plans, &data.Users, &data.Tickets,
			&data.Inventory, &data.Payments, &data.Settings,
		} {
			if err := tx.Create(batch).Error; err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
		s.log.Info().
			Int("users", len(data.Users)).
			Int("tickets", len(data.Tickets)).
			Msg("demo data seeded")
		return nil
	})
}

// Demo is the initial data set.
type Demo struct {
	Services  []models.ServiceDefinition
	Plans     []models.PricingPlan
	Users     []models.User
	Tickets   []models.ServiceTicket
	Inventory []models.InventoryItem
	Payments  []models.CustomerPayment
	Settings  models.AppSettings
}

// DemoData returns the demo set. Tickets tkt3 and tkt5 are dated now.
func DemoData(now time.Time) Demo {
	at := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t
	}
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	stars := func(n int) *int { return &n }
	paid, pending := models.PaymentPaid, models.PaymentPending
	premium, ultra := "Premium", "Ultra"

	return Demo{
		Services: []models.ServiceDefinition{
			{ID: "serv1", Name: "Emergency Plumbing", Description: "Immediate assistance for leaks, burst pipes, etc.", Class: models.ClassResidential, Price: 1500},
			{ID: "serv2", Name: "Emergency Electrical", Description: "Power outages, short circuits, etc.", Class: models.ClassResidential, Price: 1500},
			{ID: "serv3", Name: "Sanitary Services", Description: "Clogged drains, toilet issues.", Class: models.ClassResidential, Price: 1200},
			{ID: "serv4", Name: "Appliance Repair", Description: "Repair for major home appliances.", Class: models.ClassResidential, Price: 1800},
			{ID: "serv5", Name: "Annual HVAC Maintenance", Description: "Full check-up and cleaning of HVAC systems.", Class: models.ClassCommercial, Price: 8000},
			{ID: "serv6", Name: "Commercial Electrical Audit", Description: "Safety and efficiency audit for commercial properties.", Class: models.ClassCommercial, Price: 15000},
		},
		Plans: []models.PricingPlan{
			{
				ID: "plan1", Tier: premium, MonthlyPrice: 249, AnnualPrice: 249 * 12 * 0.9,
				Features:           []string{"24/7 Emergency Support", "Priority Booking"},
				IncludedServiceIDs: []string{"serv1", "serv2"},
				Class:              models.ClassResidential,
			},
			{
				ID: "plan2", Tier: "Super", MonthlyPrice: 399, AnnualPrice: 399 * 12 * 0.9,
				Features:           []string{"All Premium Benefits", "No Visit Charges"},
				IncludedServiceIDs: []string{"serv1", "serv2", "serv3"},
				Class:              models.ClassResidential,
			},
			{
				ID: "plan3", Tier: ultra, MonthlyPrice: 599, AnnualPrice: 599 * 12 * 0.9,
				Features:           []string{"All Super Benefits", "Small Parts Included", "Dedicated Service Manager"},
				IncludedServiceIDs: []string{"serv1", "serv2", "serv3", "serv4"},
				Class:              models.ClassResidential,
			},
		},
		Users: []models.User{
			{ID: "cust1", Name: "Alice Johnson", Email: "customer@example.com", Phone: "9876543210", Role: models.RoleCustomer, CreatedAt: at("2023-01-15T09:00:00Z"), Address: "123 Maple St, Springfield", UPIID: str("alice@upi"), Subscription: &premium},
			{ID: "tech1", Name: "Bob Vance", Email: "technician@example.com", Phone: "9876543211", Role: models.RoleTechnician, CreatedAt: at("2023-02-20T11:00:00Z"), Specialty: "Plumbing", Location: "Springfield", Rating: 4.8, RatingCount: 25, Verified: true, JobsCompleted: 25, UPIID: str("bobvance@upi")},
			{ID: "admin1", Name: "Charles Admin", Email: "admin@example.com", Phone: "9876543212", Role: models.RoleAdmin, CreatedAt: at("2023-01-01T08:00:00Z")},
			{ID: "cust2", Name: "Diana Prince", Email: "diana@example.com", Phone: "9876543213", Role: models.RoleCustomer, CreatedAt: at("2023-05-10T14:00:00Z"), Address: "456 Oak Ave, Metropolis", UPIID: str("diana@upi"), Subscription: &ultra},
			{ID: "tech2", Name: "Eve Masters", Email: "eve@example.com", Phone: "9876543214", Role: models.RoleTechnician, CreatedAt: at("2023-06-01T16:00:00Z"), Specialty: "Electrical", Location: "Metropolis", Rating: 4.9, RatingCount: 42, Verified: true, JobsCompleted: 42, UPIID: str("evem@upi")},
		},
		Tickets: []models.ServiceTicket{
			{
				ID: "tkt1", CustomerID: "cust1", CustomerName: "Alice Johnson", ServiceType: "Emergency Plumbing",
				Description: "The kitchen sink faucet is constantly dripping.", Status: models.TicketCompleted,
				CreatedAt: at("2023-10-26T10:00:00Z"), CompletedAt: ptrTime(at("2023-10-26T12:00:00Z")),
				TechnicianID: str("tech1"), TechnicianName: str("Bob Vance"),
				Rating: stars(5), Feedback: str("Bob was quick and professional!"),
				TechnicianEarning: num(750), PaymentStatus: &paid,
			},
			{
				ID: "tkt2", CustomerID: "cust2", CustomerName: "Diana Prince", ServiceType: "Emergency Electrical",
				Description: "An outlet in the living room has no power.", Status: models.TicketAssigned,
				CreatedAt:    at("2023-10-28T14:30:00Z"),
				TechnicianID: str("tech2"), TechnicianName: str("Eve Masters"),
			},
			{
				ID: "tkt3", CustomerID: "cust1", CustomerName: "Alice Johnson", ServiceType: "Sanitary Services",
				Description: "The bathroom shower drain is not draining.", Status: models.TicketOpen,
				CreatedAt: now,
			},
			{
				ID: "tkt4", CustomerID: "cust2", CustomerName: "Diana Prince", ServiceType: "Appliance Repair",
				Description: "AC is not cooling the room properly.", Status: models.TicketCompleted,
				CreatedAt: at("2023-09-15T11:00:00Z"), CompletedAt: ptrTime(at("2023-09-15T15:00:00Z")),
				TechnicianID: str("tech2"), TechnicianName: str("Eve Masters"),
				Rating: stars(4), Feedback: str("Good work"),
				TechnicianEarning: num(1500), PaymentStatus: &paid,
			},
			{
				ID: "tkt5", CustomerID: "cust1", CustomerName: "Alice Johnson", ServiceType: "Emergency Plumbing",
				Description: "No hot water.", Status: models.TicketCompleted,
				CreatedAt: now, CompletedAt: ptrTime(now),
				TechnicianID: str("tech1"), TechnicianName: str("Bob Vance"),
				Rating: stars(5), Feedback: str("Excellent!"),
				TechnicianEarning: num(1200), PaymentStatus: &pending,
			},
		},
		Inventory: []models.InventoryItem{
			{ID: "inv1", Name: `1/2" Copper Pipe (ft)`, Quantity: 150, Price: 250},
			{ID: "inv2", Name: "PVC Cement (8oz)", Quantity: 40, Price: 650},
			{ID: "inv3", Name: "15 Amp Circuit Breaker", Quantity: 75, Price: 950},
			{ID: "inv4", Name: "GFCI Outlet", Quantity: 120, Price: 1500},
			{ID: "inv5", Name: "Faucet Washer Kit", Quantity: 200, Price: 420},
		},
		Payments: []models.CustomerPayment{
			{ID: "pay1", CustomerID: "cust1", CustomerName: "Alice Johnson", Amount: 249, Tier: premium, PaymentDate: at("2023-01-15T09:01:00Z"), Type: models.PaymentNewSubscription},
			{ID: "pay2", CustomerID: "cust2", CustomerName: "Diana Prince", Amount: 599, Tier: ultra, PaymentDate: at("2023-05-10T14:01:00Z"), Type: models.PaymentNewSubscription},
		},
		Settings: demoSettings(),
	}
}

func demoSettings() models.AppSettings {
	company := models.CompanyInfo{
		Name:    "ServiceHub Pro India Pvt. Ltd.",
		Address: "789 Tech Park, Electronic City, Bangalore, 560100, India",
		Email:   "contact@servicehubpro.in",
		Phone:   "+91 80 1234 5678",
		Bank: models.BankDetails{
			Name:          "Global Bank of India",
			Branch:        "Koramangala",
			AccountNumber: "9876543210123",
			IFSC:          "GBIN0001234",
			MICR:          "560002001",
		},
		UPIID: "servicehubpro@gbi",
	}
	return models.AppSettings{
		ID:          models.SettingsID,
		CompanyInfo: company,
		PaymentGateway: models.PaymentGatewaySettings{
			Primary:        "upi",
			UPIID:          company.UPIID,
			StripeAPIKey:   "sk_test_...",
			RazorpayAPIKey: "rzp_test_...",
			SMSAPIKey:      "sms_test_...",
		},
		Theme: models.ThemeSettings{
			FontFamily: "'Inter', sans-serif",
			FontWeight: models.FontWeights{Regular: 400, Bold: 700, ExtraBold: 800},
			LineHeight: 1.6,
			Colors: models.ThemeColors{
				Primary:       "#22d3ee",
				Secondary:     "#06b6d4",
				Accent:        "#facc15",
				Light:         "#1f2937",
				Dark:          "#111827",
				TextPrimary:   "#e2e8f0",
				TextSecondary: "#94a3b8",
				Border:        "#374151",
			},
		},
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
