package models

import (
	"time"
)

// Wallet holds the cents-denominated balance. The balance column is a
// materialized cache of the wallet_transactions log, never a second
// source of truth.
type Wallet struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"uniqueIndex;not null"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BalanceCents int64     `gorm:"default:0;not null"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// WalletTransaction is one append-only ledger row. Invariant:
// BalanceAfter == BalanceBefore + AmountCents.
type WalletTransaction struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;index"`
	AmountCents   int64     `gorm:"not null"`
	BalanceBefore int64     `gorm:"not null"`
	BalanceAfter  int64     `gorm:"not null"`
	Type          string    `gorm:"type:varchar(50);not null;index"`
	Reference     string    `gorm:"type:varchar(64);index"`
	Description   string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

// Wallet transaction type constants
const (
	WalletTxMeetingRefund = "meeting_refund"
	WalletTxMeetingCharge = "meeting_charge"
	WalletTxTopUp         = "top_up"
	WalletTxAdminAdjust   = "admin_adjustment"
)

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
