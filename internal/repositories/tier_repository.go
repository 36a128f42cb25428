package repositories

import (
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

type TierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) *TierRepository {
	return &TierRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *TierRepository) WithTx(tx *gorm.DB) *TierRepository {
	return &TierRepository{db: tx}
}

// GetLimits reads a tier's activity quotas. Admins edit this table at
// runtime, so every call hits the database; no caching.
func (r *TierRepository) GetLimits(tier string) (*models.TierLimits, error) {
	var limits models.TierLimits
	result := r.db.Where("tier = ?", tier).First(&limits)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "tier limits not configured")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get tier limits")
	}

	return &limits, nil
}

// GetContactRule reads the contact permission for a (tier, target tier)
// pair. Missing rows default to allowed with no surcharge.
func (r *TierRepository) GetContactRule(tier, targetTier string) (*models.TierContactRule, error) {
	var rule models.TierContactRule
	result := r.db.Where("tier = ? AND target_tier = ?", tier, targetTier).First(&rule)

	if result.Error == gorm.ErrRecordNotFound {
		return &models.TierContactRule{Tier: tier, TargetTier: targetTier, Allowed: true}, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get contact rule")
	}

	return &rule, nil
}

// UpsertLimits replaces a tier's quota row.
func (r *TierRepository) UpsertLimits(limits *models.TierLimits) error {
	var existing models.TierLimits
	result := r.db.Where("tier = ?", limits.Tier).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		if err := r.db.Create(limits).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create tier limits")
		}
		return nil
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check tier limits")
	}

	limits.ID = existing.ID
	if err := r.db.Save(limits).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update tier limits")
	}
	return nil
}

// SeedDefaults installs quota rows for tiers that have none. Zero means
// unlimited, so premium and vip stay at all-zero rows.
func (r *TierRepository) SeedDefaults() error {
	defaults := []models.TierLimits{
		{
			Tier:               models.TierBasic,
			WinksPerDay:        10,
			WinksPerWeek:       50,
			WinksPerMonth:      150,
			LikesPerDay:        5,
			LikesPerWeek:       25,
			LikesPerMonth:      75,
			InterestedPerDay:   3,
			InterestedPerWeek:  15,
			InterestedPerMonth: 45,
		},
		{
			Tier:               models.TierStandard,
			WinksPerDay:        30,
			WinksPerWeek:       150,
			WinksPerMonth:      450,
			LikesPerDay:        15,
			LikesPerWeek:       75,
			LikesPerMonth:      225,
			InterestedPerDay:   10,
			InterestedPerWeek:  50,
			InterestedPerMonth: 150,
		},
		{Tier: models.TierPremium},
		{Tier: models.TierVIP},
	}

	for _, def := range defaults {
		var count int64
		if err := r.db.Model(&models.TierLimits{}).Where("tier = ?", def.Tier).Count(&count).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check tier limits")
		}
		if count > 0 {
			continue
		}
		row := def
		if err := r.db.Create(&row).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to seed tier limits")
		}
	}
	return nil
}
