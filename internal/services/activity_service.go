package services

import (
	"time"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

// ActivityService enforces per-tier quotas on outgoing interactions and
// detects mutual matches on the way in.
type ActivityService struct {
	db         *gorm.DB
	activities *repositories.ActivityRepository
	matches    *repositories.MatchRepository
	tiers      *repositories.TierRepository
	users      *repositories.UserRepository
	notifier   Notifier
}

func NewActivityService(
	db *gorm.DB,
	activities *repositories.ActivityRepository,
	matches *repositories.MatchRepository,
	tiers *repositories.TierRepository,
	users *repositories.UserRepository,
	notifier Notifier,
) *ActivityService {
	return &ActivityService{
		db:         db,
		activities: activities,
		matches:    matches,
		tiers:      tiers,
		users:      users,
		notifier:   notifier,
	}
}

type ActivityResult struct {
	Allowed     bool
	Activity    *models.UserActivity
	MutualMatch bool
}

// quota periods are evaluated in this order; the first exceeded cap
// fails fast.
var quotaPeriods = []string{models.PeriodDay, models.PeriodWeek, models.PeriodMonth}

// CheckAndRecord validates, quota-checks and records one outgoing
// interaction. Positive types notify the target exactly once; a
// reciprocal like/interested additionally materializes a match with one
// notification pair.
func (s *ActivityService) CheckAndRecord(userID, targetUserID uint, activityType string) (*ActivityResult, error) {
	if !models.IsValidActivityType(activityType) {
		return nil, errors.New(errors.ErrCodeValidation, "unknown activity type")
	}
	if userID == targetUserID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot interact with yourself")
	}

	if activityType == models.ActivityRejected {
		return s.recordRejection(userID, targetUserID)
	}

	// Friendlier pre-check; the unique index remains the authoritative
	// guard under concurrency.
	if _, err := s.activities.Get(userID, targetUserID, activityType); err == nil {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "activity already recorded")
	} else if errors.Code(err) != errors.ErrCodeNotFound {
		return nil, err
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.checkQuota(user, activityType); err != nil {
		return nil, err
	}

	activity := &models.UserActivity{
		UserID:       userID,
		TargetUserID: targetUserID,
		ActivityType: activityType,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.activities.WithTx(tx).Create(activity); err != nil {
			return err
		}
		// Self-heal: a positive interaction clears a prior rejection of
		// the same target.
		return s.activities.WithTx(tx).DeleteRejected(userID, targetUserID)
	})
	if err != nil {
		return nil, err
	}

	notify(s.notifier, targetUserID, models.NotificationActivityReceived,
		"Someone is interested in you",
		"You received a new "+activityType+".",
		map[string]interface{}{"from_user_id": userID, "activity_type": activityType})

	result := &ActivityResult{Allowed: true, Activity: activity}

	// Winks can complete a match but never initiate one.
	if activityType == models.ActivityLike || activityType == models.ActivityInterested {
		mutual, err := s.CheckMutual(userID, targetUserID)
		if err != nil {
			return nil, err
		}
		if mutual {
			result.MutualMatch = true
			if err := s.materializeMatch(userID, targetUserID); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// CheckMutual reports whether the target has already directed any
// positive activity at the user.
func (s *ActivityService) CheckMutual(userID, targetUserID uint) (bool, error) {
	return s.activities.HasPositive(targetUserID, userID)
}

// Undo deletes an activity the user created, clearing any stale
// rejected row for the same pair.
func (s *ActivityService) Undo(userID, activityID uint) error {
	activity, err := s.activities.GetByID(activityID)
	if err != nil {
		return err
	}
	if activity.UserID != userID {
		return errors.New(errors.ErrCodeForbidden, "activity belongs to another user")
	}
	return s.activities.Delete(activity)
}

func (s *ActivityService) recordRejection(userID, targetUserID uint) (*ActivityResult, error) {
	existing, err := s.activities.Get(userID, targetUserID, models.ActivityRejected)
	if err == nil {
		// Repeated rejection is idempotent.
		return &ActivityResult{Allowed: true, Activity: existing}, nil
	}
	if errors.Code(err) != errors.ErrCodeNotFound {
		return nil, err
	}

	activity := &models.UserActivity{
		UserID:       userID,
		TargetUserID: targetUserID,
		ActivityType: models.ActivityRejected,
	}
	if err := s.activities.Create(activity); err != nil {
		if errors.Code(err) == errors.ErrCodeAlreadyExists {
			// Lost a race against an identical rejection; same outcome.
			return &ActivityResult{Allowed: true}, nil
		}
		return nil, err
	}

	// Rejections never notify the target.
	return &ActivityResult{Allowed: true, Activity: activity}, nil
}

func (s *ActivityService) checkQuota(user *models.User, activityType string) error {
	limits, err := s.tiers.GetLimits(user.Tier)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, period := range quotaPeriods {
		limit := limits.LimitFor(activityType, period)
		if limit == 0 {
			continue
		}
		used, err := s.activities.CountSince(user.ID, activityType, periodStart(now, period))
		if err != nil {
			return err
		}
		if used >= limit {
			return errors.NewLimitExceeded(period, used, limit)
		}
	}
	return nil
}

func (s *ActivityService) materializeMatch(userID, targetUserID uint) error {
	created, err := s.matches.UpsertPair(userID, targetUserID, models.MatchOriginActivity)
	if err != nil {
		return err
	}
	if !created {
		// Pair already matched; the notification pair went out with the
		// original row.
		return nil
	}

	data := map[string]interface{}{"matched_user_id": targetUserID}
	notify(s.notifier, userID, models.NotificationMutualMatch,
		"It's a match!", "You and another member liked each other. You can now message each other.", data)

	data = map[string]interface{}{"matched_user_id": userID}
	notify(s.notifier, targetUserID, models.NotificationMutualMatch,
		"It's a match!", "You and another member liked each other. You can now message each other.", data)

	return nil
}

// periodStart computes the quota window boundary: local midnight for
// day, the most recent Sunday 00:00 for week, the first of the month
// for month.
func periodStart(now time.Time, period string) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case models.PeriodDay:
		return midnight
	case models.PeriodWeek:
		return midnight.AddDate(0, 0, -int(now.Weekday()))
	case models.PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	return midnight
}
