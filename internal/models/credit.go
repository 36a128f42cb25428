package models

import (
	"time"
)

// UserCredits tracks the meeting-credit allowance per user. Available
// credits are derived as Total - Used; deductions must never push the
// derived value below zero.
type UserCredits struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Total     int64     `gorm:"default:0;not null"`
	Used      int64     `gorm:"default:0;not null"`
	Rollover  int64     `gorm:"default:0;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (c *UserCredits) Available() int64 {
	return c.Total - c.Used
}

func (UserCredits) TableName() string {
	return "user_credits"
}
