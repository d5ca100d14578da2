// Package store is the entity store: the single source of truth for users,
// tickets, payments, catalog and settings, plus the active session user.
//
// Every mutator runs in one database transaction and mutators are
// serialized, so a failed call leaves every collection as it was. Reads
// return freshly loaded slices the caller owns.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/lifecycle"
	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/session"
)

// Id prefixes.
const (
	PrefixCustomer   = "cust"
	PrefixTechnician = "tech"
	PrefixTicket     = "tkt"
	PrefixPayment    = "pay"
)

// PaymentConfirmer blocks until the payment gateway confirms that amount
// has been paid to payee. A ledger entry is committed only after it
// returns nil.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, amount float64, payee string) error
}

// ConfirmFunc adapts a function to PaymentConfirmer.
type ConfirmFunc func(ctx context.Context, amount float64, payee string) error

func (f ConfirmFunc) ConfirmPayment(ctx context.Context, amount float64, payee string) error {
	return f(ctx, amount, payee)
}

// Store owns all collections.
type Store struct {
	db        *gorm.DB
	payout    lifecycle.PayoutCalculator
	auth      session.Authenticator
	confirmer PaymentConfirmer
	now       func() time.Time
	newID     func(prefix string) string
	log       zerolog.Logger

	mu        sync.Mutex
	currentID string
	pendingID string
}

// Option configures a Store.
type Option func(*Store)

func WithPayout(p lifecycle.PayoutCalculator) Option {
	return func(s *Store) { s.payout = p }
}

func WithAuthenticator(a session.Authenticator) Option {
	return func(s *Store) { s.auth = a }
}

func WithPaymentConfirmer(c PaymentConfirmer) Option {
	return func(s *Store) { s.confirmer = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the default prefix+uuid id scheme.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a Store over db. Defaults: the 500-2000 payout band, lookup
// authentication, instant payment confirmation and the wall clock.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		payout: lifecycle.NewBandPayout(lifecycle.DefaultPayoutMin, lifecycle.DefaultPayoutMax, nil),
		auth:   session.LookupAuthenticator{},
		confirmer: ConfirmFunc(func(context.Context, float64, string) error {
			return nil
		}),
		now:   time.Now,
		newID: func(prefix string) string { return prefix + "-" + uuid.NewString() },
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// mutate runs fn in a transaction while holding the store lock.
func (s *Store) mutate(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) clock() time.Time {
	return s.now().UTC()
}

func first[T any](tx *gorm.DB, kind, id string) (T, error) {
	var v T
	err := tx.Where("id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, apperr.NotFound("%s %q not found", kind, id)
	}
	if err != nil {
		return v, fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	return v, nil
}

func loadUser(tx *gorm.DB, id string) (models.User, error) {
	return first[models.User](tx, "user", id)
}

func loadTicket(tx *gorm.DB, id string) (models.ServiceTicket, error) {
	return first[models.ServiceTicket](tx, "ticket", id)
}

func loadPlans(tx *gorm.DB) ([]models.PricingPlan, error) {
	var plans []models.PricingPlan
	if err := tx.Order("monthly_price ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}
	return plans, nil
}

func loadSettings(tx *gorm.DB) (models.AppSettings, error) {
	var settings models.AppSettings
	err := tx.Where("id = ?", models.SettingsID).Take(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AppSettings{ID: models.SettingsID}, nil
	}
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}
