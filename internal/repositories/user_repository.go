package repositories

import (
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"github.com/mshirazi/datebridge/pkg/utils"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	if user.PublicID == "" {
		user.PublicID = utils.GenerateRandomID(8)
	}

	result := r.db.Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// UpdateAccountStatus transitions a user's account status. Accounts are
// never deleted, only status-transitioned.
func (r *UserRepository) UpdateAccountStatus(userID uint, status string) (string, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", errors.New(errors.ErrCodeNotFound, "user not found")
		}
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user")
	}

	previous := user.AccountStatus
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Update("account_status", status)
	if result.Error != nil {
		return "", errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update account status")
	}
	return previous, nil
}

// UpdateLastActivity updates user's last activity timestamp
func (r *UserRepository) UpdateLastActivity(userID uint) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Update("last_activity", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update last activity")
	}
	return nil
}
