package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub-pro/servicehub-api/apperr"
)

// DefaultConfirmDelay is how long the simulated gateway takes to confirm.
const DefaultConfirmDelay = 1500 * time.Millisecond

// PaymentGateway collects amount for payee and invokes onSuccess when the
// payment is confirmed. onSuccess may run on another goroutine, may be
// invoked more than once, and is never invoked for a failed payment.
type PaymentGateway interface {
	Pay(amount float64, payee string, onSuccess func())
}

// SimulatedGateway confirms every payment after Delay.
type SimulatedGateway struct {
	Delay time.Duration
	Log   zerolog.Logger
}

func (g SimulatedGateway) Pay(amount float64, payee string, onSuccess func()) {
	g.Log.Debug().Float64("amount", amount).Str("payee", payee).Dur("delay", g.Delay).Msg("simulated payment started")
	time.AfterFunc(g.Delay, onSuccess)
}

// AwaitConfirmation blocks until gw confirms the payment or ctx is done.
func AwaitConfirmation(ctx context.Context, gw PaymentGateway, amount float64, payee string) error {
	if amount < 0 {
		return apperr.Validation("payment amount cannot be negative")
	}
	if payee == "" {
		return apperr.New(apperr.CodePaymentFailed, "no payee configured")
	}

	var once sync.Once
	done := make(chan struct{})
	gw.Pay(amount, payee, func() { once.Do(func() { close(done) }) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return apperr.New(apperr.CodePaymentFailed, "payment not confirmed: %v", ctx.Err())
	}
}

// GatewayConfirmer confirms ledger payments through a PaymentGateway.
type GatewayConfirmer struct {
	Gateway PaymentGateway
	Timeout time.Duration
}

func (c GatewayConfirmer) ConfirmPayment(ctx context.Context, amount float64, payee string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return AwaitConfirmation(ctx, c.Gateway, amount, payee)
}
