package models

import (
	"time"
)

// Meeting is a scheduled, fee-bearing video date. Status (scheduling
// lifecycle) and ChargeStatus (fee settlement lifecycle) are independent
// axes: a meeting can be completed and still pending_review.
type Meeting struct {
	ID          uint      `gorm:"primaryKey"`
	PublicRef   string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	HostID      uint      `gorm:"not null;index"`
	Host        User      `gorm:"foreignKey:HostID"`
	MeetingType string    `gorm:"type:varchar(20);default:'one_on_one';not null"`
	ScheduledAt time.Time `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(20);default:'pending';not null;index"`
	FeeCents    int64     `gorm:"default:0;not null"`

	ChargeStatus string `gorm:"type:varchar(20);default:'authorized';not null;index"`

	Outcome            string `gorm:"type:varchar(30)"`
	FaultDetermination string `gorm:"type:varchar(30)"`
	HostNotes          string `gorm:"type:text"`
	FinalizedAt        *time.Time
	FinalizedBy        uint `gorm:"default:0"`

	AdminResolution      string `gorm:"type:varchar(30)"`
	AdminResolutionNotes string `gorm:"type:text"`
	AdminResolvedAt      *time.Time
	AdminResolvedBy      uint `gorm:"default:0"`

	Participants []MeetingParticipant `gorm:"foreignKey:MeetingID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Meeting type constants
const (
	MeetingOneOnOne = "one_on_one"
	MeetingGroup    = "group"
)

// Meeting status constants
const (
	MeetingStatusPending   = "pending"
	MeetingStatusConfirmed = "confirmed"
	MeetingStatusCompleted = "completed"
	MeetingStatusCancelled = "cancelled"
)

// Charge status constants
const (
	ChargeStatusAuthorized    = "authorized"
	ChargeStatusPendingReview = "pending_review"
	ChargeStatusCaptured      = "captured"
	ChargeStatusRefunded      = "refunded"
)

// Outcome constants
const (
	OutcomeCompleted = "completed"
	OutcomeNoShow    = "no_show"
	OutcomeCutShort  = "cut_short"
	OutcomeIncident  = "incident"
)

// Fault determination constants (requester = guest, accepter = host)
const (
	FaultNone      = "none"
	FaultRequester = "requester_fault"
	FaultAccepter  = "accepter_fault"
	FaultUnclear   = "unclear"
)

// Charge decision constants for the host's conclusion report
const (
	ChargeDecisionCapture       = "capture"
	ChargeDecisionRefund        = "refund"
	ChargeDecisionPendingReview = "pending_review"
)

// Admin resolution constants
const (
	ResolutionChargeRequester = "charge_requester"
	ResolutionRefundRequester = "refund_requester"
	ResolutionChargeAccepter  = "charge_accepter"
	ResolutionNoCharge        = "no_charge"
	ResolutionSplit           = "split"
)

// CanTransitionStatus is the single chokepoint for scheduling-status
// transitions.
func CanTransitionStatus(from, to string) bool {
	switch from {
	case MeetingStatusPending:
		return to == MeetingStatusConfirmed || to == MeetingStatusCancelled
	case MeetingStatusConfirmed:
		return to == MeetingStatusCompleted || to == MeetingStatusCancelled
	}
	return false
}

// CanTransitionCharge is the single chokepoint for settlement-status
// transitions. Captured and refunded are terminal.
func CanTransitionCharge(from, to string) bool {
	switch from {
	case ChargeStatusAuthorized:
		return to == ChargeStatusCaptured || to == ChargeStatusRefunded || to == ChargeStatusPendingReview
	case ChargeStatusPendingReview:
		return to == ChargeStatusCaptured || to == ChargeStatusRefunded
	}
	return false
}

// IsConcludable reports whether a meeting in this status accepts a
// conclusion report.
func IsConcludable(status string) bool {
	return status == MeetingStatusConfirmed || status == MeetingStatusCompleted
}

// IsValidResolution reports whether the value is one of the five admin
// resolutions.
func IsValidResolution(resolution string) bool {
	switch resolution {
	case ResolutionChargeRequester, ResolutionRefundRequester, ResolutionChargeAccepter, ResolutionNoCharge, ResolutionSplit:
		return true
	}
	return false
}

func (Meeting) TableName() string {
	return "meetings"
}

// MeetingParticipant links a user to a meeting. Exactly one host, at
// least one guest, per meeting. MatchResponse records the participant's
// post-meeting interest answer; when every side answers yes the pair
// becomes a meeting-origin match.
type MeetingParticipant struct {
	ID            uint      `gorm:"primaryKey"`
	MeetingID     uint      `gorm:"not null;index;index:idx_participant_unique,unique"`
	UserID        uint      `gorm:"not null;index;index:idx_participant_unique,unique"`
	User          User      `gorm:"foreignKey:UserID"`
	Role          string    `gorm:"type:varchar(10);not null"`
	MatchResponse string    `gorm:"type:varchar(5)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// Participant role constants
const (
	ParticipantHost  = "host"
	ParticipantGuest = "guest"
)

// Post-meeting match response constants. Empty string means not yet
// answered.
const (
	MatchResponseYes = "yes"
	MatchResponseNo  = "no"
)

func (MeetingParticipant) TableName() string {
	return "meeting_participants"
}
