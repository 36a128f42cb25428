package models

import (
	"time"
)

// Notification is one persisted in-app notification. Delivery beyond
// this row (push, email fan-out) is handled by external systems.
type Notification struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Type      string    `gorm:"type:varchar(50);not null;index"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Message   string    `gorm:"type:text;not null"`
	Data      string    `gorm:"type:text"`
	Read      bool      `gorm:"default:false;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// Notification type constants
const (
	NotificationActivityReceived      = "activity_received"
	NotificationMutualMatch           = "mutual_match"
	NotificationMeetingRequested      = "meeting_requested"
	NotificationMeetingConfirmed      = "meeting_confirmed"
	NotificationMeetingCancelled      = "meeting_cancelled"
	NotificationMeetingConcluded      = "meeting_concluded"
	NotificationInvestigationOpened   = "investigation_opened"
	NotificationInvestigationResolved = "investigation_resolved"
	NotificationAccountStatusChanged  = "account_status_changed"
)

func (Notification) TableName() string {
	return "notifications"
}
