package lifecycle

import (
	"math/rand/v2"
	"sync"

	"github.com/servicehub-pro/servicehub-api/models"
)

// Default payout band in rupees, inclusive.
const (
	DefaultPayoutMin = 500
	DefaultPayoutMax = 2000
)

// PayoutCalculator derives what a technician is owed for a ticket that is
// entering Completed.
type PayoutCalculator interface {
	Payout(ticket models.ServiceTicket) float64
}

// PayoutFunc adapts a function to PayoutCalculator.
type PayoutFunc func(ticket models.ServiceTicket) float64

func (f PayoutFunc) Payout(ticket models.ServiceTicket) float64 { return f(ticket) }

// BandPayout draws a whole-rupee amount uniformly from [Min, Max]. It stands
// in for a real pricing formula.
type BandPayout struct {
	Min int
	Max int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBandPayout returns a BandPayout over [min, max]. A nil rng uses the
// global source.
func NewBandPayout(min, max int, rng *rand.Rand) *BandPayout {
	return &BandPayout{Min: min, Max: max, rng: rng}
}

func (b *BandPayout) Payout(models.ServiceTicket) float64 {
	span := b.Max - b.Min + 1
	if span <= 1 {
		return float64(b.Min)
	}
	if b.rng == nil {
		return float64(b.Min + rand.IntN(span))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return float64(b.Min + b.rng.IntN(span))
}
