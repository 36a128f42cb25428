package models

import (
	"time"
)

// UserMatch records a mutual match for an unordered user pair. Rows are
// stored normalized with User1ID < User2ID so a pair can never appear
// twice under swapped columns.
type UserMatch struct {
	ID        uint      `gorm:"primaryKey"`
	User1ID   uint      `gorm:"not null;index;index:idx_match_unique,unique"`
	User1     User      `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2ID   uint      `gorm:"not null;index;index:idx_match_unique,unique"`
	User2     User      `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`
	Origin    string    `gorm:"type:varchar(20);not null;index:idx_match_unique,unique"`
	MatchedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match origin constants
const (
	MatchOriginActivity = "activity"
	MatchOriginMeeting  = "meeting"
)

// NormalizePair orders two user ids for storage in a UserMatch row.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func (UserMatch) TableName() string {
	return "user_matches"
}
