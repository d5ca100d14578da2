package models

import "slices"

// ServiceClass separates residential and commercial offerings.
type ServiceClass string

const (
	ClassResidential ServiceClass = "Residential"
	ClassCommercial  ServiceClass = "Commercial"
)

// PricingPlan is a subscription tier. Tier is the unique, human-facing name.
type PricingPlan struct {
	ID                 string       `gorm:"primaryKey" json:"id"`
	Tier               string       `gorm:"uniqueIndex;not null" json:"tier"`
	MonthlyPrice       float64      `gorm:"not null" json:"monthly_price"`
	AnnualPrice        float64      `gorm:"not null" json:"annual_price"`
	Features           []string     `gorm:"serializer:json" json:"features"`
	IncludedServiceIDs []string     `gorm:"serializer:json" json:"included_service_ids"`
	Class              ServiceClass `gorm:"not null" json:"class"`
}

// TableName specifies the table name for the PricingPlan model
func (PricingPlan) TableName() string {
	return "pricing_plans"
}

// Includes reports whether the service is free under this plan.
func (p PricingPlan) Includes(serviceID string) bool {
	return slices.Contains(p.IncludedServiceIDs, serviceID)
}

// ServiceDefinition is a bookable service with its out-of-plan price.
type ServiceDefinition struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Class       ServiceClass `gorm:"not null" json:"class"`
	Price       float64      `gorm:"not null" json:"price"`
}

// TableName specifies the table name for the ServiceDefinition model
func (ServiceDefinition) TableName() string {
	return "services"
}

// InventoryItem is a stocked part.
type InventoryItem struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"`
}

// TableName specifies the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}
