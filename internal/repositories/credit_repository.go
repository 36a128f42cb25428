package repositories

import (
	"fmt"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *CreditRepository) WithTx(tx *gorm.DB) *CreditRepository {
	return &CreditRepository{db: tx}
}

// GetCredits retrieves the credit row for a user, creating an empty one
// on first access.
func (r *CreditRepository) GetCredits(userID uint) (*models.UserCredits, error) {
	var credits models.UserCredits
	result := r.db.Where("user_id = ?", userID).First(&credits)

	if result.Error == gorm.ErrRecordNotFound {
		credits = models.UserCredits{UserID: userID}
		if err := r.db.Create(&credits).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create credit row")
		}
		return &credits, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get credits")
	}

	return &credits, nil
}

// Grant adds credits to a user's allowance.
func (r *CreditRepository) Grant(userID uint, amount int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		credits, err := r.WithTx(tx).lockedCredits(userID)
		if err != nil {
			return err
		}
		if err := tx.Model(credits).Update("total", credits.Total+amount).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to grant credits")
		}
		return nil
	})
}

// Deduct spends credits. Fails when the available balance would go
// negative; the check happens under the row lock so concurrent spends
// serialize.
func (r *CreditRepository) Deduct(userID uint, amount int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		credits, err := r.WithTx(tx).lockedCredits(userID)
		if err != nil {
			return err
		}

		if credits.Available() < amount {
			return errors.New(errors.ErrCodeInsufficientFunds,
				fmt.Sprintf("insufficient credits: have %d, need %d", credits.Available(), amount))
		}

		if err := tx.Model(credits).Update("used", credits.Used+amount).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to deduct credits")
		}
		return nil
	})
}

// RefundOne credits one use back, clamped at zero. Must run inside the
// caller's settlement transaction via WithTx.
func (r *CreditRepository) RefundOne(userID uint) error {
	credits, err := r.lockedCredits(userID)
	if err != nil {
		return err
	}

	newUsed := credits.Used - 1
	if newUsed < 0 {
		newUsed = 0
	}

	if err := r.db.Model(credits).Update("used", newUsed).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to refund credit")
	}
	return nil
}

func (r *CreditRepository) lockedCredits(userID uint) (*models.UserCredits, error) {
	var credits models.UserCredits
	result := forUpdate(r.db).Where("user_id = ?", userID).First(&credits)

	if result.Error == gorm.ErrRecordNotFound {
		credits = models.UserCredits{UserID: userID}
		if err := r.db.Create(&credits).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create credit row")
		}
		return &credits, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to lock credits")
	}

	return &credits, nil
}
