package services

import (
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/internal/security"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

// AdminService covers privileged account and reference-data mutations.
// Every mutation writes its audit row in the same transaction.
type AdminService struct {
	db        *gorm.DB
	users     *repositories.UserRepository
	wallets   *repositories.WalletRepository
	tiers     *repositories.TierRepository
	adminLogs *repositories.AdminLogRepository
	notifier  Notifier
}

func NewAdminService(
	db *gorm.DB,
	users *repositories.UserRepository,
	wallets *repositories.WalletRepository,
	tiers *repositories.TierRepository,
	adminLogs *repositories.AdminLogRepository,
	notifier Notifier,
) *AdminService {
	return &AdminService{
		db:        db,
		users:     users,
		wallets:   wallets,
		tiers:     tiers,
		adminLogs: adminLogs,
		notifier:  notifier,
	}
}

// SetAccountStatus transitions a user's account status with an audit
// row. Accounts are never deleted; suspension and banning are the
// moderation levers.
func (s *AdminService) SetAccountStatus(adminID uint, adminRole string, targetID uint, status, reason string) error {
	if !models.IsStaff(adminRole) {
		return errors.New(errors.ErrCodeForbidden, "account moderation requires a staff role")
	}
	switch status {
	case models.AccountStatusActive, models.AccountStatusSuspended, models.AccountStatusBanned:
	default:
		return errors.New(errors.ErrCodeValidation, "unknown account status")
	}
	reason = security.SanitizeNotes(reason)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		previous, err := s.users.WithTx(tx).UpdateAccountStatus(targetID, status)
		if err != nil {
			return err
		}
		return s.adminLogs.WithTx(tx).Append(adminID, targetID, models.AccountStatusChangedMeta{
			FromStatus: previous,
			ToStatus:   status,
			Reason:     reason,
		})
	})
	if err != nil {
		return err
	}

	notify(s.notifier, targetID, models.NotificationAccountStatusChanged,
		"Account status updated",
		"Your account status is now "+status+".",
		map[string]interface{}{"status": status})

	return nil
}

// AdjustWallet applies a signed admin correction to a user's wallet with
// a ledger row and an audit row in one transaction.
func (s *AdminService) AdjustWallet(adminID uint, adminRole string, targetID uint, amountCents int64, reason string) error {
	if !models.IsStaff(adminRole) {
		return errors.New(errors.ErrCodeForbidden, "wallet adjustment requires a staff role")
	}
	if amountCents == 0 {
		return errors.New(errors.ErrCodeValidation, "amount_cents cannot be zero")
	}
	reason = security.SanitizeNotes(reason)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.wallets.WithTx(tx).Apply(targetID, amountCents,
			models.WalletTxAdminAdjust, "", reason); err != nil {
			return err
		}
		return s.adminLogs.WithTx(tx).Append(adminID, targetID, models.WalletAdjustedMeta{
			AmountCents: amountCents,
			Reason:      reason,
		})
	})
}

// UpdateTierLimits replaces a tier's quota row with an audit row. Takes
// effect on the next quota check; limits are never cached.
func (s *AdminService) UpdateTierLimits(adminID uint, adminRole string, limits *models.TierLimits) error {
	if !models.IsStaff(adminRole) {
		return errors.New(errors.ErrCodeForbidden, "tier configuration requires a staff role")
	}
	switch limits.Tier {
	case models.TierBasic, models.TierStandard, models.TierPremium, models.TierVIP:
	default:
		return errors.New(errors.ErrCodeValidation, "unknown tier")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.tiers.WithTx(tx).UpsertLimits(limits); err != nil {
			return err
		}
		return s.adminLogs.WithTx(tx).Append(adminID, 0, models.TierLimitsUpdatedMeta{
			Tier: limits.Tier,
		})
	})
}
