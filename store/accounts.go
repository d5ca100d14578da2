package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/ledger"
	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/session"
)

// Register creates a customer or technician and makes them the session
// user. A customer who picked a plan is charged for it first; the account
// and its New Subscription entry are committed together once the payment
// is confirmed.
func (s *Store) Register(ctx context.Context, d session.Details) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db.WithContext(ctx)
	prefix := PrefixCustomer
	if d.Role == models.RoleTechnician {
		prefix = PrefixTechnician
	}
	user, err := session.BuildUser(s.newID(prefix), d, s.clock())
	if err != nil {
		return models.User{}, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return models.User{}, apperr.New(apperr.CodeDuplicateEmail, "an account with email %s already exists", user.Email)
	}

	var payment *models.CustomerPayment
	if tier := d.Normalize().Plan; tier != "" && user.IsCustomer() {
		plans, err := loadPlans(db)
		if err != nil {
			return models.User{}, err
		}
		plan, ok := ledger.FindPlan(plans, tier)
		if !ok {
			return models.User{}, apperr.New(apperr.CodeUnknownPlan, "unknown plan %q", tier)
		}
		p, subscribed, err := ledger.NewSubscription(s.newID(PrefixPayment), user, plan, s.clock())
		if err != nil {
			return models.User{}, err
		}
		if err := s.confirm(ctx, db, p.Amount); err != nil {
			return models.User{}, err
		}
		payment, user = &p, subscribed
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if payment != nil {
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("record payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.currentID, s.pendingID = user.ID, ""
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Str("tier", user.Tier()).Msg("user registered")
	return user, nil
}

// Login matches creds against an existing user and holds the match until
// CompleteLogin is called. The session user does not change yet.
func (s *Store) Login(ctx context.Context, creds session.Credentials) (models.User, error) {
	creds.Email = session.NormalizeEmail(creds.Email)
	if err := session.Validate(creds); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ? AND role = ?", creds.Email, creds.Role).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperr.NotFound("no %s account for %s", creds.Role, creds.Email)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if err := s.auth.Authenticate(user, creds); err != nil {
		s.log.Warn().Str("user_id", user.ID).Msg("authentication failed")
		return models.User{}, err
	}

	s.pendingID = user.ID
	return user, nil
}

// PendingLogin returns the user awaiting verification.
func (s *Store) PendingLogin(ctx context.Context) (models.User, error) {
	s.mu.Lock()
	id := s.pendingID
	s.mu.Unlock()

	if id == "" {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, "no login in progress")
	}
	return loadUser(s.db.WithContext(ctx), id)
}

// CompleteLogin promotes the pending login to the session user. Callers
// verify the user's identity before calling it.
func (s *Store) CompleteLogin(ctx context.Context) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingID == "" {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, "no login in progress")
	}
	user, err := loadUser(s.db.WithContext(ctx), s.pendingID)
	if err != nil {
		return models.User{}, err
	}

	s.currentID, s.pendingID = user.ID, ""
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return user, nil
}

// Logout clears the session user and any pending login.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID, s.pendingID = "", ""
}

// CurrentUser returns the session user, reloaded so derived fields are
// fresh.
func (s *Store) CurrentUser(ctx context.Context) (models.User, error) {
	s.mu.Lock()
	id := s.currentID
	s.mu.Unlock()

	if id == "" {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, "not logged in")
	}
	return loadUser(s.db.WithContext(ctx), id)
}

// ChangeSubscription moves a customer to newTier and records an Upgrade
// entry once the payment is confirmed. Choosing the current tier returns
// a nil payment and changes nothing.
func (s *Store) ChangeSubscription(ctx context.Context, customerID, newTier string) (*models.CustomerPayment, models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db.WithContext(ctx)
	customer, err := loadUser(db, customerID)
	if err != nil {
		return nil, models.User{}, err
	}
	plans, err := loadPlans(db)
	if err != nil {
		return nil, models.User{}, err
	}
	payment, updated, err := ledger.ChangeSubscription(s.newID(PrefixPayment), customer, plans, newTier, s.clock())
	if err != nil || payment == nil {
		return nil, updated, err
	}
	if err := s.confirm(ctx, db, payment.Amount); err != nil {
		return nil, customer, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("record payment: %w", err)
		}
		if err := tx.Model(&updated).Update("subscription", updated.Subscription).Error; err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, customer, err
	}

	s.log.Info().Str("user_id", customerID).Str("from", customer.Tier()).Str("to", updated.Tier()).Float64("amount", payment.Amount).Msg("subscription changed")
	return payment, updated, nil
}

// confirm waits for the gateway to confirm amount paid to the company payee.
func (s *Store) confirm(ctx context.Context, db *gorm.DB, amount float64) error {
	settings, err := loadSettings(db)
	if err != nil {
		return err
	}
	if err := s.confirmer.ConfirmPayment(ctx, amount, settings.Payee()); err != nil {
		s.log.Warn().Err(err).Float64("amount", amount).Msg("payment not confirmed")
		if apperr.CodeOf(err) != "" {
			return err
		}
		return apperr.New(apperr.CodePaymentFailed, "payment was not confirmed: %v", err)
	}
	return nil
}
