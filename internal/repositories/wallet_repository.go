package repositories

import (
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// WithTx returns a repository bound to an open transaction. Used when a
// settlement has to move money for two users atomically.
func (r *WalletRepository) WithTx(tx *gorm.DB) *WalletRepository {
	return &WalletRepository{db: tx}
}

// Credit adds cents to a user's wallet with a ledger row.
func (r *WalletRepository) Credit(userID uint, amountCents int64, txType, reference, description string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.WithTx(tx).Apply(userID, amountCents, txType, reference, description)
	})
}

// Debit removes cents from a user's wallet with a ledger row. The
// balance may go negative: the accepter-charge path accrues debt rather
// than failing the resolution.
func (r *WalletRepository) Debit(userID uint, amountCents int64, txType, reference, description string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.WithTx(tx).Apply(userID, -amountCents, txType, reference, description)
	})
}

// Apply records a signed balance movement inside the repository's
// current transaction. Every movement appends exactly one
// wallet_transactions row with balance_after == balance_before + amount.
func (r *WalletRepository) Apply(userID uint, amountCents int64, txType, reference, description string) error {
	wallet, err := r.lockedWallet(userID)
	if err != nil {
		return err
	}

	balanceBefore := wallet.BalanceCents
	balanceAfter := balanceBefore + amountCents

	if err := r.db.Model(wallet).Update("balance_cents", balanceAfter).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update balance")
	}

	row := &models.WalletTransaction{
		UserID:        userID,
		AmountCents:   amountCents,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Type:          txType,
		Reference:     reference,
		Description:   description,
	}
	if err := r.db.Create(row).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create wallet transaction")
	}

	return nil
}

// GetBalance retrieves the current wallet balance in cents.
func (r *WalletRepository) GetBalance(userID uint) (int64, error) {
	var wallet models.Wallet
	result := r.db.Where("user_id = ?", userID).First(&wallet)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get balance")
	}

	return wallet.BalanceCents, nil
}

// GetTransactionHistory retrieves a user's most recent ledger rows.
func (r *WalletRepository) GetTransactionHistory(userID uint, limit int) ([]models.WalletTransaction, error) {
	var transactions []models.WalletTransaction
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get transaction history")
	}

	return transactions, nil
}

func (r *WalletRepository) lockedWallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	result := forUpdate(r.db).Where("user_id = ?", userID).First(&wallet)

	if result.Error == gorm.ErrRecordNotFound {
		wallet = models.Wallet{UserID: userID}
		if err := r.db.Create(&wallet).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create wallet")
		}
		return &wallet, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to lock wallet")
	}

	return &wallet, nil
}
