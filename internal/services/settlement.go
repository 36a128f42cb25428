package services

import (
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"gorm.io/gorm"
)

// refundGuestTx moves a meeting refund inside the caller's transaction:
// one credit back (clamped at zero) plus, when a fee was charged, the
// fee in cents back to the guest's wallet with a ledger row.
func refundGuestTx(tx *gorm.DB, credits *repositories.CreditRepository, wallets *repositories.WalletRepository,
	meeting *models.Meeting, guestID uint, description string) error {

	if err := credits.WithTx(tx).RefundOne(guestID); err != nil {
		return err
	}
	if meeting.FeeCents > 0 {
		return wallets.WithTx(tx).Apply(guestID, meeting.FeeCents,
			models.WalletTxMeetingRefund, meeting.PublicRef, description)
	}
	return nil
}

// guestOf returns the first guest participant of a meeting. One-on-one
// meetings have exactly one.
func guestOf(meeting *models.Meeting) (uint, bool) {
	for _, p := range meeting.Participants {
		if p.Role == models.ParticipantGuest {
			return p.UserID, true
		}
	}
	return 0, false
}

// isParticipant reports whether a user belongs to the meeting.
func isParticipant(meeting *models.Meeting, userID uint) bool {
	for _, p := range meeting.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
