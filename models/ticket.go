package models

import (
	"time"
)

// TicketStatus is a state of the ticket lifecycle.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "Open"
	TicketAssigned   TicketStatus = "Assigned"
	TicketInProgress TicketStatus = "In Progress"
	TicketCompleted  TicketStatus = "Completed"
	TicketCancelled  TicketStatus = "Cancelled"
)

// PaymentStatus tracks the technician payout of a completed ticket.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// ServiceTicket is a unit of requested service work. Customer and
// technician names are snapshots taken when the ticket is created or
// accepted. TechnicianEarning and PaymentStatus are set only on completion.
type ServiceTicket struct {
	ID                string         `gorm:"primaryKey" json:"id"`
	CustomerID        string         `gorm:"not null;index" json:"customer_id"`
	CustomerName      string         `gorm:"not null" json:"customer_name"`
	ServiceType       string         `gorm:"not null" json:"service_type"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	Status            TicketStatus   `gorm:"not null;index;default:'Open'" json:"status"`
	CreatedAt         time.Time      `gorm:"<-:create;not null;index" json:"created_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
	TechnicianID      *string        `gorm:"index" json:"technician_id,omitempty"`
	TechnicianName    *string        `json:"technician_name,omitempty"`
	Rating            *int           `json:"rating,omitempty"`
	Feedback          *string        `gorm:"type:text" json:"feedback,omitempty"`
	TechnicianEarning *float64       `json:"technician_earning,omitempty"`
	PaymentStatus     *PaymentStatus `json:"payment_status,omitempty"`
}

// TableName specifies the table name for the ServiceTicket model
func (ServiceTicket) TableName() string {
	return "tickets"
}

// IsTerminal reports whether no further status transition is possible.
func (t ServiceTicket) IsTerminal() bool {
	return t.Status == TicketCompleted || t.Status == TicketCancelled
}

// AssignedTo reports whether the ticket is held by the given technician.
func (t ServiceTicket) AssignedTo(technicianID string) bool {
	return t.TechnicianID != nil && *t.TechnicianID == technicianID
}
