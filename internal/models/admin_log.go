package models

import (
	"encoding/json"
	"time"
)

// AdminLog is the append-only audit trail for privileged state
// transitions. Rows are never mutated or deleted. Meta holds the typed
// payload for the action, serialized to JSON.
type AdminLog struct {
	ID           uint      `gorm:"primaryKey"`
	EventID      string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	AdminID      uint      `gorm:"not null;index"`
	TargetUserID uint      `gorm:"default:0;index"`
	Action       string    `gorm:"type:varchar(50);not null;index"`
	Meta         string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

// Admin action constants
const (
	AdminActionInvestigationResolved = "investigation_resolved"
	AdminActionAccountStatusChanged  = "account_status_changed"
	AdminActionWalletAdjusted        = "wallet_adjusted"
	AdminActionTierLimitsUpdated     = "tier_limits_updated"
)

// AdminLogMeta is the discriminated payload union for audit rows. Each
// action has its own struct so new admin actions get compile-time
// coverage instead of an untyped map.
type AdminLogMeta interface {
	AdminAction() string
}

type InvestigationResolvedMeta struct {
	MeetingID    uint   `json:"meeting_id"`
	Resolution   string `json:"resolution"`
	RefundUserID uint   `json:"refund_user_id,omitempty"`
	ChargeUserID uint   `json:"charge_user_id,omitempty"`
	FeeCents     int64  `json:"fee_cents"`
	Notes        string `json:"notes,omitempty"`
}

func (InvestigationResolvedMeta) AdminAction() string { return AdminActionInvestigationResolved }

type AccountStatusChangedMeta struct {
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Reason     string `json:"reason,omitempty"`
}

func (AccountStatusChangedMeta) AdminAction() string { return AdminActionAccountStatusChanged }

type WalletAdjustedMeta struct {
	AmountCents int64  `json:"amount_cents"`
	Reason      string `json:"reason,omitempty"`
}

func (WalletAdjustedMeta) AdminAction() string { return AdminActionWalletAdjusted }

type TierLimitsUpdatedMeta struct {
	Tier string `json:"tier"`
}

func (TierLimitsUpdatedMeta) AdminAction() string { return AdminActionTierLimitsUpdated }

// EncodeMeta serializes a typed payload for storage.
func EncodeMeta(meta AdminLogMeta) (string, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (AdminLog) TableName() string {
	return "admin_logs"
}
