package repositories

import (
	stderrors "errors"
	"time"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

// Create inserts an activity row. The unique index on
// (user_id, target_user_id, activity_type) is the authoritative
// duplicate guard: a constraint violation surfaces as ALREADY_EXISTS
// even when two requests race past the application pre-check.
func (r *ActivityRepository) Create(activity *models.UserActivity) error {
	if err := r.db.Create(activity).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.New(errors.ErrCodeAlreadyExists, "activity already recorded")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create activity")
	}
	return nil
}

// Get retrieves one activity of a given type between two users.
func (r *ActivityRepository) Get(userID, targetUserID uint, activityType string) (*models.UserActivity, error) {
	var activity models.UserActivity
	result := r.db.Where("user_id = ? AND target_user_id = ? AND activity_type = ?",
		userID, targetUserID, activityType).First(&activity)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "activity not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get activity")
	}

	return &activity, nil
}

// GetByID retrieves an activity by primary key.
func (r *ActivityRepository) GetByID(id uint) (*models.UserActivity, error) {
	var activity models.UserActivity
	result := r.db.First(&activity, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "activity not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get activity")
	}

	return &activity, nil
}

// HasPositive reports whether userID has recorded any positive activity
// (wink, like, interested) directed at targetUserID.
func (r *ActivityRepository) HasPositive(userID, targetUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserActivity{}).
		Where("user_id = ? AND target_user_id = ? AND activity_type IN ?",
			userID, targetUserID,
			[]string{models.ActivityWink, models.ActivityLike, models.ActivityInterested}).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check reciprocal activity")
	}
	return count > 0, nil
}

// CountSince counts activities of one type sent by a user since a point
// in time. Used for quota evaluation.
func (r *ActivityRepository) CountSince(userID uint, activityType string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserActivity{}).
		Where("user_id = ? AND activity_type = ? AND created_at >= ?", userID, activityType, since).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count activities")
	}
	return count, nil
}

// DeleteRejected removes any rejected row from userID toward
// targetUserID. Recording a positive interaction self-heals a prior
// rejection.
func (r *ActivityRepository) DeleteRejected(userID, targetUserID uint) error {
	result := r.db.Where("user_id = ? AND target_user_id = ? AND activity_type = ?",
		userID, targetUserID, models.ActivityRejected).
		Delete(&models.UserActivity{})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete rejected row")
	}
	return nil
}

// Delete removes an activity (undo). A rejected row for the same pair is
// removed alongside so a later re-like never trips over stale state.
func (r *ActivityRepository) Delete(activity *models.UserActivity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(activity).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete activity")
		}
		if activity.ActivityType != models.ActivityRejected {
			if err := r.WithTx(tx).DeleteRejected(activity.UserID, activity.TargetUserID); err != nil {
				return err
			}
		}
		return nil
	})
}
