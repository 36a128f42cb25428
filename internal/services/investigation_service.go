package services

import (
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/internal/security"
	"github.com/mshirazi/datebridge/pkg/errors"
	"github.com/mshirazi/datebridge/pkg/logger"
	"gorm.io/gorm"
)

// InvestigationService is the human-in-the-loop adjudicator for
// meetings escalated to pending_review. A resolution settles the charge
// at most once: the precondition is re-checked as a compare-and-swap
// inside the settlement transaction.
type InvestigationService struct {
	db        *gorm.DB
	meetings  *repositories.MeetingRepository
	users     *repositories.UserRepository
	credits   *repositories.CreditRepository
	wallets   *repositories.WalletRepository
	adminLogs *repositories.AdminLogRepository
	notifier  Notifier
	email     EmailSender
}

func NewInvestigationService(
	db *gorm.DB,
	meetings *repositories.MeetingRepository,
	users *repositories.UserRepository,
	credits *repositories.CreditRepository,
	wallets *repositories.WalletRepository,
	adminLogs *repositories.AdminLogRepository,
	notifier Notifier,
	email EmailSender,
) *InvestigationService {
	return &InvestigationService{
		db:        db,
		meetings:  meetings,
		users:     users,
		credits:   credits,
		wallets:   wallets,
		adminLogs: adminLogs,
		notifier:  notifier,
		email:     email,
	}
}

type ResolveResult struct {
	ChargeStatus string
	RefundIssued bool
}

// Resolve applies one of the five resolutions to a pending_review
// meeting. Money movement, the status swap and the audit row commit in
// one transaction; notifications and emails are dispatched afterwards,
// best-effort.
func (s *InvestigationService) Resolve(meetingID, adminID uint, adminRole, resolution, adminNotes string) (*ResolveResult, error) {
	if !models.IsStaff(adminRole) {
		return nil, errors.New(errors.ErrCodeForbidden, "resolution requires a moderator or admin role")
	}
	if !models.IsValidResolution(resolution) {
		return nil, errors.New(errors.ErrCodeValidation, "unknown resolution")
	}
	adminNotes = security.SanitizeNotes(adminNotes)

	var meeting *models.Meeting
	var result ResolveResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		meetingsTx := s.meetings.WithTx(tx)

		var err error
		meeting, err = meetingsTx.GetByIDLocked(meetingID)
		if err != nil {
			return err
		}
		if meeting.ChargeStatus != models.ChargeStatusPendingReview {
			return errors.New(errors.ErrCodeInvalidState, "meeting is not pending review")
		}

		guestID, hasGuest := guestOf(meeting)
		if !hasGuest {
			return errors.New(errors.ErrCodeInternalError, "meeting has no guest participant")
		}

		newChargeStatus := models.ChargeStatusCaptured
		refundGuest := false
		chargeHost := false
		switch resolution {
		case models.ResolutionChargeRequester, models.ResolutionSplit:
			// Charges stand as-is.
		case models.ResolutionRefundRequester, models.ResolutionNoCharge:
			newChargeStatus = models.ChargeStatusRefunded
			refundGuest = true
		case models.ResolutionChargeAccepter:
			newChargeStatus = models.ChargeStatusRefunded
			refundGuest = true
			chargeHost = true
		}

		if err := meetingsTx.Resolve(meeting, resolution, adminNotes, newChargeStatus, adminID); err != nil {
			return err
		}

		meta := models.InvestigationResolvedMeta{
			MeetingID:  meeting.ID,
			Resolution: resolution,
			FeeCents:   meeting.FeeCents,
			Notes:      adminNotes,
		}

		if refundGuest {
			if err := refundGuestTx(tx, s.credits, s.wallets, meeting, guestID, "investigation refund"); err != nil {
				return err
			}
			meta.RefundUserID = guestID
		}
		if chargeHost && meeting.FeeCents > 0 {
			// The host wallet may go negative here: the charge accrues
			// as debt rather than blocking the resolution.
			if err := s.wallets.WithTx(tx).Apply(meeting.HostID, -meeting.FeeCents,
				models.WalletTxMeetingCharge, meeting.PublicRef, "investigation charge to host"); err != nil {
				return err
			}
			meta.ChargeUserID = meeting.HostID
		}

		result = ResolveResult{ChargeStatus: newChargeStatus, RefundIssued: refundGuest}

		return s.adminLogs.WithTx(tx).Append(adminID, guestID, meta)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchResolutionNotices(meeting, resolution)

	return &result, nil
}

func (s *InvestigationService) dispatchResolutionNotices(meeting *models.Meeting, resolution string) {
	message := resolutionMessage(resolution)

	for _, p := range meeting.Participants {
		notify(s.notifier, p.UserID, models.NotificationInvestigationResolved,
			"Investigation resolved", message,
			map[string]interface{}{
				"meeting_ref": meeting.PublicRef,
				"resolution":  resolution,
			})

		user, err := s.users.GetUserByID(p.UserID)
		if err != nil {
			logger.Warn("could not load user for resolution email", "user_id", p.UserID, "error", err)
			continue
		}
		emailErr := s.email.SendInvestigationResolvedEmail(user.Email, InvestigationEmailData{
			MeetingRef: meeting.PublicRef,
			Resolution: resolution,
			Message:    message,
		})
		if emailErr != nil {
			logger.Warn("resolution email dispatch failed", "user_id", p.UserID, "error", emailErr)
		}
	}
}

func resolutionMessage(resolution string) string {
	switch resolution {
	case models.ResolutionChargeRequester:
		return "After review, the meeting charge stands as billed."
	case models.ResolutionRefundRequester:
		return "After review, the meeting charge has been refunded to the requester."
	case models.ResolutionChargeAccepter:
		return "After review, the requester has been refunded and the charge was applied to the host."
	case models.ResolutionNoCharge:
		return "After review, no charge applies for this meeting and the requester has been refunded."
	case models.ResolutionSplit:
		return "After review, charges for this meeting stand as originally applied."
	}
	return "Your meeting investigation has been resolved."
}
