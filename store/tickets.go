package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/lifecycle"
	"github.com/servicehub-pro/servicehub-api/models"
)

// CreateTicket opens a ticket for customerID against serviceID.
func (s *Store) CreateTicket(ctx context.Context, customerID, serviceID, description string) (models.ServiceTicket, error) {
	var ticket models.ServiceTicket
	err := s.mutate(ctx, func(tx *gorm.DB) error {
		customer, err := loadUser(tx, customerID)
		if err != nil {
			return err
		}
		service, err := first[models.ServiceDefinition](tx, "service", serviceID)
		var svc *models.ServiceDefinition
		switch {
		case err == nil:
			svc = &service
		case !errors.Is(err, apperr.ErrNotFound):
			return err
		}

		ticket, err = lifecycle.Create(s.newID(PrefixTicket), customer, svc, description, s.clock())
		if err != nil {
			return err
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ServiceTicket{}, err
	}

	s.log.Info().Str("ticket_id", ticket.ID).Str("customer_id", customerID).Str("service", ticket.ServiceType).Msg("ticket created")
	return ticket, nil
}

// AcceptTicket assigns an open ticket to technicianID.
func (s *Store) AcceptTicket(ctx context.Context, ticketID, technicianID string) (models.ServiceTicket, error) {
	return s.transition(ctx, ticketID, "accepted", func(tx *gorm.DB, t models.ServiceTicket) (models.ServiceTicket, bool, error) {
		technician, err := loadUser(tx, technicianID)
		if err != nil {
			return t, false, err
		}
		out, err := lifecycle.Accept(t, technician)
		return out, err == nil, err
	})
}

// StartTicket moves an assigned ticket to In Progress.
func (s *Store) StartTicket(ctx context.Context, ticketID, technicianID string) (models.ServiceTicket, error) {
	return s.transition(ctx, ticketID, "started", func(_ *gorm.DB, t models.ServiceTicket) (models.ServiceTicket, bool, error) {
		out, err := lifecycle.Start(t, technicianID)
		return out, err == nil, err
	})
}

// CompleteTicket completes a ticket held by technicianID and assigns its
// payout. Completing an already completed ticket changes nothing.
func (s *Store) CompleteTicket(ctx context.Context, ticketID, technicianID string) (models.ServiceTicket, error) {
	return s.transition(ctx, ticketID, "completed", func(tx *gorm.DB, t models.ServiceTicket) (models.ServiceTicket, bool, error) {
		if err := lifecycle.CheckAssignee(t, technicianID); err != nil {
			return t, false, err
		}
		out, changed, err := lifecycle.Complete(t, s.payout, s.clock())
		if err != nil || !changed {
			return out, false, err
		}

		technician, err := loadUser(tx, technicianID)
		if err != nil {
			return t, false, err
		}
		technician = lifecycle.RecordCompletion(technician)
		if err := tx.Save(&technician).Error; err != nil {
			return t, false, fmt.Errorf("update technician: %w", err)
		}
		return out, true, nil
	})
}

// CancelTicket withdraws a ticket on behalf of the customer who raised it.
func (s *Store) CancelTicket(ctx context.Context, ticketID, customerID string) (models.ServiceTicket, error) {
	return s.transition(ctx, ticketID, "cancelled", func(_ *gorm.DB, t models.ServiceTicket) (models.ServiceTicket, bool, error) {
		out, err := lifecycle.Cancel(t, customerID)
		return out, err == nil, err
	})
}

// SubmitFeedback rates a completed ticket and folds the rating into the
// technician's average.
func (s *Store) SubmitFeedback(ctx context.Context, ticketID, customerID string, rating int, feedback string) (models.ServiceTicket, error) {
	return s.transition(ctx, ticketID, "rated", func(tx *gorm.DB, t models.ServiceTicket) (models.ServiceTicket, bool, error) {
		if t.CustomerID != customerID {
			return t, false, apperr.Forbidden("ticket %s belongs to another customer", t.ID)
		}
		out, err := lifecycle.SubmitFeedback(t, rating, feedback)
		if err != nil {
			return t, false, err
		}
		if t.TechnicianID == nil {
			return out, true, nil
		}

		technician, err := loadUser(tx, *t.TechnicianID)
		if err != nil {
			return t, false, err
		}
		technician = lifecycle.RecordRating(technician, rating)
		if err := tx.Save(&technician).Error; err != nil {
			return t, false, fmt.Errorf("update technician: %w", err)
		}
		return out, true, nil
	})
}

// PayTechnician settles the payout of a completed ticket. Paying a ticket
// twice is a no-op.
func (s *Store) PayTechnician(ctx context.Context, ticketID string) (models.ServiceTicket, error) {
	return s.transition(ctx, ticketID, "payout settled", func(_ *gorm.DB, t models.ServiceTicket) (models.ServiceTicket, bool, error) {
		return lifecycle.Pay(t)
	})
}

type transitionFunc func(tx *gorm.DB, t models.ServiceTicket) (out models.ServiceTicket, changed bool, err error)

// transition loads a ticket, applies fn and saves the result when fn
// reports a change.
func (s *Store) transition(ctx context.Context, ticketID, verb string, fn transitionFunc) (models.ServiceTicket, error) {
	var (
		out     models.ServiceTicket
		changed bool
	)
	err := s.mutate(ctx, func(tx *gorm.DB) error {
		t, err := loadTicket(tx, ticketID)
		if err != nil {
			return err
		}
		out, changed, err = fn(tx, t)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		if err := tx.Save(&out).Error; err != nil {
			return fmt.Errorf("save ticket %s: %w", ticketID, err)
		}
		return nil
	})
	if err != nil {
		s.log.Debug().Err(err).Str("ticket_id", ticketID).Msgf("ticket not %s", verb)
		return models.ServiceTicket{}, err
	}

	if changed {
		s.log.Info().Str("ticket_id", out.ID).Str("status", string(out.Status)).Msgf("ticket %s", verb)
	}
	return out, nil
}
