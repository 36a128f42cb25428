package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint      `gorm:"primaryKey"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName      string    `gorm:"type:varchar(255);not null"`
	Tier          string    `gorm:"type:varchar(20);default:'basic';not null;index"`
	Role          string    `gorm:"type:varchar(20);default:'user';not null"`
	AccountStatus string    `gorm:"type:varchar(20);default:'active';not null;index"`
	PublicID      string    `gorm:"uniqueIndex;type:varchar(8)"`
	LastActivity  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Subscription tier constants
const (
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"
	TierVIP      = "vip"
)

// Role constants
const (
	RoleUser       = "user"
	RoleModerator  = "moderator"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Account status constants
const (
	AccountStatusActive    = "active"
	AccountStatusSuspended = "suspended"
	AccountStatusBanned    = "banned"
)

// IsStaff reports whether the role carries moderation privileges.
func IsStaff(role string) bool {
	return role == RoleModerator || role == RoleAdmin || role == RoleSuperAdmin
}

// BeforeSave hook for enum validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	validTiers := map[string]bool{
		TierBasic:    true,
		TierStandard: true,
		TierPremium:  true,
		TierVIP:      true,
	}
	if !validTiers[u.Tier] {
		return gorm.ErrInvalidData
	}

	validRoles := map[string]bool{
		RoleUser:       true,
		RoleModerator:  true,
		RoleAdmin:      true,
		RoleSuperAdmin: true,
	}
	if !validRoles[u.Role] {
		return gorm.ErrInvalidData
	}

	validStatuses := map[string]bool{
		AccountStatusActive:    true,
		AccountStatusSuspended: true,
		AccountStatusBanned:    true,
	}
	if !validStatuses[u.AccountStatus] {
		return gorm.ErrInvalidData
	}

	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
