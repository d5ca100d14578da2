package store

import (
	"context"
	"fmt"

	"github.com/servicehub-pro/servicehub-api/models"
)

// TicketFilter narrows Tickets. Zero fields match everything.
type TicketFilter struct {
	CustomerID   string
	TechnicianID string
	Status       models.TicketStatus
}

// Users returns all users, or only those with role when it is set, sorted
// by name.
func (s *Store) Users(ctx context.Context, role models.Role) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) User(ctx context.Context, id string) (models.User, error) {
	return loadUser(s.db.WithContext(ctx), id)
}

// Tickets returns the tickets matching f, newest first.
func (s *Store) Tickets(ctx context.Context, f TicketFilter) ([]models.ServiceTicket, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.TechnicianID != "" {
		q = q.Where("technician_id = ?", f.TechnicianID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var tickets []models.ServiceTicket
	if err := q.Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *Store) Ticket(ctx context.Context, id string) (models.ServiceTicket, error) {
	return loadTicket(s.db.WithContext(ctx), id)
}

func (s *Store) Inventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// Payments returns ledger entries, newest first. A non-empty customerID
// restricts them to that customer.
func (s *Store) Payments(ctx context.Context, customerID string) ([]models.CustomerPayment, error) {
	q := s.db.WithContext(ctx).Order("payment_date DESC")
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	var payments []models.CustomerPayment
	if err := q.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// Plans returns pricing plans, cheapest first.
func (s *Store) Plans(ctx context.Context) ([]models.PricingPlan, error) {
	return loadPlans(s.db.WithContext(ctx))
}

func (s *Store) Services(ctx context.Context) ([]models.ServiceDefinition, error) {
	var services []models.ServiceDefinition
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (s *Store) Settings(ctx context.Context) (models.AppSettings, error) {
	return loadSettings(s.db.WithContext(ctx))
}
