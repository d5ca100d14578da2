package models

import (
	"time"
)

// PaymentType distinguishes subscription ledger entries.
type PaymentType string

const (
	PaymentNewSubscription PaymentType = "New Subscription"
	PaymentUpgrade         PaymentType = "Upgrade"
)

// CustomerPayment is an append-only ledger entry recorded for every
// subscription purchase or tier change. Rows are never updated or deleted.
type CustomerPayment struct {
	ID           string      `gorm:"primaryKey" json:"id"`
	CustomerID   string      `gorm:"<-:create;not null;index" json:"customer_id"`
	CustomerName string      `gorm:"<-:create;not null" json:"customer_name"`
	Amount       float64     `gorm:"<-:create;not null" json:"amount"`
	Tier         string      `gorm:"<-:create;not null" json:"tier"`
	PaymentDate  time.Time   `gorm:"<-:create;not null;index" json:"payment_date"`
	Type         PaymentType `gorm:"<-:create;not null" json:"type"`
}

// TableName specifies the table name for the CustomerPayment model
func (CustomerPayment) TableName() string {
	return "customer_payments"
}
