// Package lifecycle holds the ticket state machine:
//
//	Open -> Assigned -> In Progress -> Completed
//	Open | Assigned | In Progress -> Cancelled
//
// Every function takes a ticket by value and returns the next version of
// it; the caller decides whether to persist the result. A returned error
// means the input ticket must be kept as is.
package lifecycle

import (
	"math"
	"strings"
	"time"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Create opens a new ticket for customer. service is nil when the requested
// service id did not resolve.
func Create(id string, customer models.User, service *models.ServiceDefinition, description string, now time.Time) (models.ServiceTicket, error) {
	if !customer.IsCustomer() {
		return models.ServiceTicket{}, apperr.Forbidden("only customers can raise service tickets")
	}
	if service == nil {
		return models.ServiceTicket{}, apperr.Validation("unknown service")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return models.ServiceTicket{}, apperr.Validation("description is required")
	}

	return models.ServiceTicket{
		ID:           id,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ServiceType:  service.Name,
		Description:  description,
		Status:       models.TicketOpen,
		CreatedAt:    now,
	}, nil
}

// Accept assigns an open ticket to technician.
func Accept(t models.ServiceTicket, technician models.User) (models.ServiceTicket, error) {
	if !technician.IsTechnician() {
		return t, apperr.Forbidden("only technicians can accept tickets")
	}
	if t.Status != models.TicketOpen {
		return t, apperr.InvalidTransition("ticket %s is %s, only Open tickets can be accepted", t.ID, t.Status)
	}

	t.Status = models.TicketAssigned
	t.TechnicianID = ptr(technician.ID)
	t.TechnicianName = ptr(technician.Name)
	return t, nil
}

// Start marks an assigned ticket as being worked on.
func Start(t models.ServiceTicket, technicianID string) (models.ServiceTicket, error) {
	if err := CheckAssignee(t, technicianID); err != nil {
		return t, err
	}
	if t.Status != models.TicketAssigned {
		return t, apperr.InvalidTransition("ticket %s is %s, only Assigned tickets can be started", t.ID, t.Status)
	}

	t.Status = models.TicketInProgress
	return t, nil
}

// Complete moves an Assigned or In Progress ticket to Completed, stamps the
// completion time and assigns the payout. Completing a ticket that is
// already Completed returns it unchanged with changed=false; the payout is
// never drawn twice.
func Complete(t models.ServiceTicket, payout PayoutCalculator, now time.Time) (out models.ServiceTicket, changed bool, err error) {
	switch t.Status {
	case models.TicketCompleted:
		return t, false, nil
	case models.TicketAssigned, models.TicketInProgress:
	default:
		return t, false, apperr.InvalidTransition("ticket %s is %s and cannot be completed", t.ID, t.Status)
	}

	t.Status = models.TicketCompleted
	t.CompletedAt = ptr(now)
	if t.TechnicianEarning == nil {
		t.TechnicianEarning = ptr(payout.Payout(t))
		t.PaymentStatus = ptr(models.PaymentPending)
	}
	return t, true, nil
}

// Cancel withdraws a ticket that has not reached a terminal state. Only the
// customer who raised it may cancel.
func Cancel(t models.ServiceTicket, customerID string) (models.ServiceTicket, error) {
	if t.CustomerID != customerID {
		return t, apperr.Forbidden("ticket %s belongs to another customer", t.ID)
	}
	if t.IsTerminal() {
		return t, apperr.InvalidTransition("ticket %s is %s and cannot be cancelled", t.ID, t.Status)
	}

	t.Status = models.TicketCancelled
	return t, nil
}

// SubmitFeedback records the customer's rating on a completed ticket. A
// ticket can be rated once.
func SubmitFeedback(t models.ServiceTicket, rating int, feedback string) (models.ServiceTicket, error) {
	if rating < MinRating || rating > MaxRating {
		return t, apperr.Validation("rating must be between %d and %d", MinRating, MaxRating)
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return t, apperr.Validation("feedback is required")
	}
	if t.Status != models.TicketCompleted {
		return t, apperr.InvalidTransition("ticket %s is %s, only Completed tickets can be rated", t.ID, t.Status)
	}
	if t.Rating != nil {
		return t, apperr.InvalidTransition("ticket %s has already been rated", t.ID)
	}

	t.Rating = ptr(rating)
	t.Feedback = ptr(feedback)
	return t, nil
}

// Pay settles a pending payout. Paying a ticket that is already Paid
// returns it unchanged with changed=false.
func Pay(t models.ServiceTicket) (out models.ServiceTicket, changed bool, err error) {
	if t.Status != models.TicketCompleted || t.PaymentStatus == nil {
		return t, false, apperr.InvalidTransition("ticket %s has no payout to settle", t.ID)
	}
	if *t.PaymentStatus == models.PaymentPaid {
		return t, false, nil
	}

	t.PaymentStatus = ptr(models.PaymentPaid)
	return t, true, nil
}

// CheckAssignee returns an error unless technicianID holds the ticket.
func CheckAssignee(t models.ServiceTicket, technicianID string) error {
	if !t.AssignedTo(technicianID) {
		return apperr.Forbidden("ticket %s is not assigned to you", t.ID)
	}
	return nil
}

// RecordCompletion bumps the technician's completed-job counter.
func RecordCompletion(technician models.User) models.User {
	technician.JobsCompleted++
	return technician
}

// RecordRating folds a new rating into the technician's running average.
func RecordRating(technician models.User, rating int) models.User {
	total := technician.Rating*float64(technician.RatingCount) + float64(rating)
	technician.RatingCount++
	technician.Rating = math.Round(total/float64(technician.RatingCount)*100) / 100
	return technician
}

func ptr[T any](v T) *T { return &v }
