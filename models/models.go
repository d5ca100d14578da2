package models

// All returns every model, in migration order.
func All() []any {
	return []any{
		&User{},
		&ServiceDefinition{},
		&PricingPlan{},
		&ServiceTicket{},
		&CustomerPayment{},
		&InventoryItem{},
		&AppSettings{},
	}
}
