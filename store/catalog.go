package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

// UpdatePricingPlans replaces the whole plan collection.
func (s *Store) UpdatePricingPlans(ctx context.Context, plans []models.PricingPlan) ([]models.PricingPlan, error) {
	err := s.mutate(ctx, func(tx *gorm.DB) error {
		var serviceIDs []string
		if err := tx.Model(&models.ServiceDefinition{}).Pluck("id", &serviceIDs).Error; err != nil {
			return fmt.Errorf("load service ids: %w", err)
		}
		if err := validatePlans(plans, serviceIDs); err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.PricingPlan{}).Error; err != nil {
			return fmt.Errorf("clear plans: %w", err)
		}
		if len(plans) == 0 {
			return nil
		}
		if err := tx.Create(&plans).Error; err != nil {
			return fmt.Errorf("insert plans: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("count", len(plans)).Msg("pricing plans updated")
	return s.Plans(ctx)
}

// UpdateServices replaces the whole service catalog. A service still
// included in a plan cannot be removed.
func (s *Store) UpdateServices(ctx context.Context, services []models.ServiceDefinition) ([]models.ServiceDefinition, error) {
	err := s.mutate(ctx, func(tx *gorm.DB) error {
		if err := validateServices(services); err != nil {
			return err
		}
		plans, err := loadPlans(tx)
		if err != nil {
			return err
		}
		kept := make(map[string]bool, len(services))
		for _, svc := range services {
			kept[svc.ID] = true
		}
		for _, plan := range plans {
			for _, id := range plan.IncludedServiceIDs {
				if !kept[id] {
					return apperr.Validation("service %s is included in plan %s", id, plan.Tier)
				}
			}
		}

		if err := tx.Where("1 = 1").Delete(&models.ServiceDefinition{}).Error; err != nil {
			return fmt.Errorf("clear services: %w", err)
		}
		if len(services) == 0 {
			return nil
		}
		if err := tx.Create(&services).Error; err != nil {
			return fmt.Errorf("insert services: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("count", len(services)).Msg("services updated")
	return s.Services(ctx)
}

// UpdateAppSettings replaces the settings row.
func (s *Store) UpdateAppSettings(ctx context.Context, settings models.AppSettings) (models.AppSettings, error) {
	settings.ID = models.SettingsID
	err := s.mutate(ctx, func(tx *gorm.DB) error {
		if err := tx.Save(&settings).Error; err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.AppSettings{}, err
	}

	s.log.Info().Msg("app settings updated")
	return settings, nil
}

func validClass(c models.ServiceClass) bool {
	return c == models.ClassResidential || c == models.ClassCommercial
}

func validatePlans(plans []models.PricingPlan, serviceIDs []string) error {
	known := make(map[string]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		known[id] = true
	}
	ids := make(map[string]bool, len(plans))
	tiers := make(map[string]bool, len(plans))
	for i, p := range plans {
		p.Tier = strings.TrimSpace(p.Tier)
		switch {
		case strings.TrimSpace(p.ID) == "":
			return apperr.Validation("plan %d: id is required", i)
		case p.Tier == "":
			return apperr.Validation("plan %s: tier is required", p.ID)
		case ids[p.ID]:
			return apperr.Validation("plan id %s is repeated", p.ID)
		case tiers[p.Tier]:
			return apperr.Validation("plan tier %s is repeated", p.Tier)
		case p.MonthlyPrice < 0 || p.AnnualPrice < 0:
			return apperr.Validation("plan %s: prices cannot be negative", p.Tier)
		case !validClass(p.Class):
			return apperr.Validation("plan %s: unknown class %q", p.Tier, p.Class)
		}
		for _, id := range p.IncludedServiceIDs {
			if !known[id] {
				return apperr.Validation("plan %s: unknown service %s", p.Tier, id)
			}
		}
		ids[p.ID], tiers[p.Tier] = true, true
		plans[i].Tier = p.Tier
	}
	return nil
}

func validateServices(services []models.ServiceDefinition) error {
	ids := make(map[string]bool, len(services))
	for i, svc := range services {
		switch {
		case strings.TrimSpace(svc.ID) == "":
			return apperr.Validation("service %d: id is required", i)
		case ids[svc.ID]:
			return apperr.Validation("service id %s is repeated", svc.ID)
		case strings.TrimSpace(svc.Name) == "":
			return apperr.Validation("service %s: name is required", svc.ID)
		case svc.Price < 0:
			return apperr.Validation("service %s: price cannot be negative", svc.ID)
		case !validClass(svc.Class):
			return apperr.Validation("service %s: unknown class %q", svc.ID, svc.Class)
		}
		ids[svc.ID] = true
	}
	return nil
}
