// Package ledger derives subscription payment records. Entries are
// append-only: callers insert what these functions return and never update
// or delete an existing entry.
//
// A payment is committed only after the payment gateway has confirmed it;
// nothing in this package talks to the gateway.
package ledger

import (
	"time"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

// FindPlan resolves a tier label to its plan.
func FindPlan(plans []models.PricingPlan, tier string) (models.PricingPlan, bool) {
	for _, p := range plans {
		if p.Tier == tier {
			return p, true
		}
	}
	return models.PricingPlan{}, false
}

// NewSubscription charges a freshly registered customer for plan's monthly
// price and enrolls them in its tier.
func NewSubscription(paymentID string, customer models.User, plan models.PricingPlan, now time.Time) (models.CustomerPayment, models.User, error) {
	if !customer.IsCustomer() {
		return models.CustomerPayment{}, customer, apperr.Validation("only customers can subscribe")
	}

	payment := entry(paymentID, customer, plan, models.PaymentNewSubscription, now)
	customer.Subscription = ptr(plan.Tier)
	return payment, customer, nil
}

// ChangeSubscription moves customer to newTier. Moving to the tier the
// customer already has is a no-op and returns a nil payment. Any other change,
// up or down, is recorded as an Upgrade.
func ChangeSubscription(paymentID string, customer models.User, plans []models.PricingPlan, newTier string, now time.Time) (*models.CustomerPayment, models.User, error) {
	if !customer.IsCustomer() {
		return nil, customer, apperr.Validation("only customers have subscriptions")
	}
	if customer.Tier() == newTier {
		return nil, customer, nil
	}
	plan, ok := FindPlan(plans, newTier)
	if !ok {
		return nil, customer, apperr.New(apperr.CodeUnknownPlan, "unknown plan %q", newTier)
	}

	payment := entry(paymentID, customer, plan, models.PaymentUpgrade, now)
	customer.Subscription = ptr(plan.Tier)
	return &payment, customer, nil
}

// Total sums the amounts of payments.
func Total(payments []models.CustomerPayment) float64 {
	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	return sum
}

func entry(id string, customer models.User, plan models.PricingPlan, kind models.PaymentType, now time.Time) models.CustomerPayment {
	return models.CustomerPayment{
		ID:           id,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Amount:       plan.MonthlyPrice,
		Tier:         plan.Tier,
		PaymentDate:  now,
		Type:         kind,
	}
}

func ptr[T any](v T) *T { return &v }
