package models

import (
	"time"
)

// UserActivity is a one-way interaction. The composite unique index is
// the authoritative guard against duplicate rows; the application-level
// pre-check exists only to give a friendlier error before hitting it.
type UserActivity struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;index;index:idx_activity_unique,unique"`
	TargetUserID uint      `gorm:"not null;index;index:idx_activity_unique,unique"`
	ActivityType string    `gorm:"type:varchar(20);not null;index:idx_activity_unique,unique"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

// Activity type constants
const (
	ActivityWink       = "wink"
	ActivityLike       = "like"
	ActivityInterested = "interested"
	ActivityRejected   = "rejected"
)

// IsPositiveActivity reports whether the type expresses interest (as
// opposed to rejection).
func IsPositiveActivity(activityType string) bool {
	switch activityType {
	case ActivityWink, ActivityLike, ActivityInterested:
		return true
	}
	return false
}

// IsValidActivityType reports whether the type is a known value.
func IsValidActivityType(activityType string) bool {
	return IsPositiveActivity(activityType) || activityType == ActivityRejected
}

func (UserActivity) TableName() string {
	return "user_activities"
}
