package models

import (
	"time"
)

// TierLimits holds the per-tier activity quotas. A value of 0 means
// unlimited for that (type, period) pair. Admin-editable reference data;
// always read fresh, never cached.
type TierLimits struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Tier string `gorm:"type:varchar(20);uniqueIndex;not null" json:"tier"`

	WinksPerDay   int64 `gorm:"default:0;not null" json:"winks_per_day"`
	WinksPerWeek  int64 `gorm:"default:0;not null" json:"winks_per_week"`
	WinksPerMonth int64 `gorm:"default:0;not null" json:"winks_per_month"`

	LikesPerDay   int64 `gorm:"default:0;not null" json:"likes_per_day"`
	LikesPerWeek  int64 `gorm:"default:0;not null" json:"likes_per_week"`
	LikesPerMonth int64 `gorm:"default:0;not null" json:"likes_per_month"`

	InterestedPerDay   int64 `gorm:"default:0;not null" json:"interested_per_day"`
	InterestedPerWeek  int64 `gorm:"default:0;not null" json:"interested_per_week"`
	InterestedPerMonth int64 `gorm:"default:0;not null" json:"interested_per_month"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Quota period constants
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// LimitFor returns the cap for an activity type and period. Unknown
// combinations are unlimited.
func (t *TierLimits) LimitFor(activityType, period string) int64 {
	switch activityType {
	case ActivityWink:
		switch period {
		case PeriodDay:
			return t.WinksPerDay
		case PeriodWeek:
			return t.WinksPerWeek
		case PeriodMonth:
			return t.WinksPerMonth
		}
	case ActivityLike:
		switch period {
		case PeriodDay:
			return t.LikesPerDay
		case PeriodWeek:
			return t.LikesPerWeek
		case PeriodMonth:
			return t.LikesPerMonth
		}
	case ActivityInterested:
		switch period {
		case PeriodDay:
			return t.InterestedPerDay
		case PeriodWeek:
			return t.InterestedPerWeek
		case PeriodMonth:
			return t.InterestedPerMonth
		}
	}
	return 0
}

func (TierLimits) TableName() string {
	return "tier_limits"
}

// TierContactRule governs whether a tier may request a meeting with a
// target tier, and the surcharge for doing so.
type TierContactRule struct {
	ID               uint      `gorm:"primaryKey"`
	Tier             string    `gorm:"type:varchar(20);not null;index:idx_contact_rule,unique"`
	TargetTier       string    `gorm:"type:varchar(20);not null;index:idx_contact_rule,unique"`
	Allowed          bool      `gorm:"default:true;not null"`
	ExtraChargeCents int64     `gorm:"default:0;not null"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (TierContactRule) TableName() string {
	return "tier_contact_rules"
}
