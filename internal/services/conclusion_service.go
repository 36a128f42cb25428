package services

import (
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/security"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

// Wording shown when a conclusion escalates to investigation. The
// timeline is contractual: it sets the expectation the resolution team
// operates under.
const pendingReviewMessage = "The charge for this meeting is under investigation. " +
	"Our team will review the report and resolve the charge within 1-2 business days."

// Finalize records the host's post-meeting report and settles or
// escalates the charge. Finalization is at-most-once: a meeting with
// finalized_at set is rejected before anything is applied.
func (s *MeetingService) Finalize(meetingID, actorID uint, actorRole, outcome, fault, chargeDecision, notes string) (*models.Meeting, error) {
	switch outcome {
	case models.OutcomeCompleted, models.OutcomeNoShow, models.OutcomeCutShort, models.OutcomeIncident:
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown outcome")
	}
	switch fault {
	case models.FaultNone, models.FaultRequester, models.FaultAccepter, models.FaultUnclear:
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown fault determination")
	}

	var newChargeStatus string
	switch chargeDecision {
	case models.ChargeDecisionCapture:
		newChargeStatus = models.ChargeStatusCaptured
	case models.ChargeDecisionRefund:
		newChargeStatus = models.ChargeStatusRefunded
	case models.ChargeDecisionPendingReview:
		newChargeStatus = models.ChargeStatusPendingReview
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown charge decision")
	}

	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.HostID != actorID && !models.IsStaff(actorRole) {
		return nil, errors.New(errors.ErrCodeForbidden, "only the host or staff can conclude a meeting")
	}
	if meeting.FinalizedAt != nil {
		return nil, errors.New(errors.ErrCodeInvalidState, "meeting already finalized")
	}
	if !models.IsConcludable(meeting.Status) {
		return nil, errors.New(errors.ErrCodeInvalidState, "meeting is not concludable in status "+meeting.Status)
	}
	if !models.CanTransitionCharge(meeting.ChargeStatus, newChargeStatus) {
		return nil, errors.New(errors.ErrCodeInvalidState, "charge is already settled")
	}

	guestID, hasGuest := guestOf(meeting)
	if !hasGuest {
		return nil, errors.New(errors.ErrCodeInternalError, "meeting has no guest participant")
	}

	notes = security.SanitizeNotes(notes)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.meetings.WithTx(tx).Finalize(meeting, outcome, fault, notes, newChargeStatus, actorID); err != nil {
			return err
		}
		if chargeDecision == models.ChargeDecisionRefund {
			// Refund moves money immediately; pending_review defers it
			// to the investigation.
			return refundGuestTx(tx, s.credits, s.wallets, meeting, guestID, "meeting refund on conclusion")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	message := "The host has concluded your meeting."
	notifType := models.NotificationMeetingConcluded
	if newChargeStatus == models.ChargeStatusPendingReview {
		message = pendingReviewMessage
		notifType = models.NotificationInvestigationOpened
	}

	for _, p := range meeting.Participants {
		notify(s.notifier, p.UserID, notifType,
			"Meeting concluded", message,
			map[string]interface{}{
				"meeting_ref":   meeting.PublicRef,
				"outcome":       outcome,
				"charge_status": newChargeStatus,
			})
	}

	return meeting, nil
}
