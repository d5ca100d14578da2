package models

import (
	"time"
)

// Role identifies what a user can do. It is fixed when the user is created.
type Role string

const (
	RoleCustomer   Role = "Customer"
	RoleTechnician Role = "Technician"
	RoleAdmin      Role = "Admin"
)

// User represents an account in the marketplace. Customers and technicians
// share the table; the role-specific columns are left at their zero value
// for the other roles.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"not null" json:"phone"`
	Role         Role      `gorm:"<-:create;not null;index" json:"role"`
	CreatedAt    time.Time `gorm:"<-:create;not null" json:"created_at"`
	UPIID        *string   `json:"upi_id,omitempty"`       // payout/collection id
	Subscription *string   `json:"subscription,omitempty"` // plan tier, mutated only by the ledger
	PasswordHash string    `json:"-"`

	// Customer
	Address string `json:"address,omitempty"`

	// Technician
	Specialty     string  `json:"specialty,omitempty"`
	Location      string  `json:"location,omitempty"`
	Rating        float64 `gorm:"not null;default:0" json:"rating"`
	RatingCount   int     `gorm:"not null;default:0" json:"rating_count"`
	Verified      bool    `gorm:"not null;default:false" json:"verified"`
	JobsCompleted int     `gorm:"not null;default:0" json:"jobs_completed"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

func (u User) IsCustomer() bool   { return u.Role == RoleCustomer }
func (u User) IsTechnician() bool { return u.Role == RoleTechnician }
func (u User) IsAdmin() bool      { return u.Role == RoleAdmin }

// Tier returns the user's subscription tier, or "" when unsubscribed.
func (u User) Tier() string {
	if u.Subscription == nil {
		return ""
	}
	return *u.Subscription
}
