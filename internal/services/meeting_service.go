package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

// MeetingService governs the meeting lifecycle from request through
// conclusion. Scheduling status and charge status are driven through
// the model-level transition validators.
type MeetingService struct {
	db       *gorm.DB
	meetings *repositories.MeetingRepository
	users    *repositories.UserRepository
	credits  *repositories.CreditRepository
	wallets  *repositories.WalletRepository
	tiers    *repositories.TierRepository
	matches  *repositories.MatchRepository
	notifier Notifier
}

func NewMeetingService(
	db *gorm.DB,
	meetings *repositories.MeetingRepository,
	users *repositories.UserRepository,
	credits *repositories.CreditRepository,
	wallets *repositories.WalletRepository,
	tiers *repositories.TierRepository,
	matches *repositories.MatchRepository,
	notifier Notifier,
) *MeetingService {
	return &MeetingService{
		db:       db,
		meetings: meetings,
		users:    users,
		credits:  credits,
		wallets:  wallets,
		tiers:    tiers,
		matches:  matches,
		notifier: notifier,
	}
}

// Request creates a meeting on behalf of a guest. One credit is
// consumed at request time; the fee itself is debited by the payment
// layer and tracked here as charge_status authorized.
func (s *MeetingService) Request(requesterID, hostID uint, meetingType string, scheduledAt time.Time, feeCents int64) (*models.Meeting, error) {
	if requesterID == hostID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot request a meeting with yourself")
	}
	if meetingType != models.MeetingOneOnOne && meetingType != models.MeetingGroup {
		return nil, errors.New(errors.ErrCodeValidation, "unknown meeting type")
	}
	if scheduledAt.IsZero() {
		return nil, errors.New(errors.ErrCodeValidation, "scheduled_at is required")
	}
	if feeCents < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "fee_cents cannot be negative")
	}

	requester, err := s.users.GetUserByID(requesterID)
	if err != nil {
		return nil, err
	}
	host, err := s.users.GetUserByID(hostID)
	if err != nil {
		return nil, err
	}
	if requester.AccountStatus != models.AccountStatusActive || host.AccountStatus != models.AccountStatusActive {
		return nil, errors.New(errors.ErrCodeForbidden, "account is not active")
	}

	// Contact permission is tier-pair reference data, read fresh per
	// request.
	rule, err := s.tiers.GetContactRule(requester.Tier, host.Tier)
	if err != nil {
		return nil, err
	}
	if !rule.Allowed {
		return nil, errors.New(errors.ErrCodeForbidden, "your tier cannot request meetings with this member")
	}

	meeting := &models.Meeting{
		PublicRef:    uuid.NewString(),
		HostID:       hostID,
		MeetingType:  meetingType,
		ScheduledAt:  scheduledAt,
		Status:       models.MeetingStatusPending,
		ChargeStatus: models.ChargeStatusAuthorized,
		FeeCents:     feeCents + rule.ExtraChargeCents,
	}
	participants := []models.MeetingParticipant{
		{UserID: hostID, Role: models.ParticipantHost},
		{UserID: requesterID, Role: models.ParticipantGuest},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.credits.WithTx(tx).Deduct(requesterID, 1); err != nil {
			return err
		}
		return s.meetings.WithTx(tx).Create(meeting, participants)
	})
	if err != nil {
		return nil, err
	}

	notify(s.notifier, hostID, models.NotificationMeetingRequested,
		"New meeting request",
		"You have a new video meeting request.",
		map[string]interface{}{"meeting_ref": meeting.PublicRef, "from_user_id": requesterID})

	return meeting, nil
}

// Confirm moves a pending meeting to confirmed. Host only.
func (s *MeetingService) Confirm(meetingID, actorID uint) (*models.Meeting, error) {
	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.HostID != actorID {
		return nil, errors.New(errors.ErrCodeForbidden, "only the host can confirm a meeting")
	}

	if err := s.meetings.UpdateStatus(meeting, models.MeetingStatusConfirmed); err != nil {
		return nil, err
	}

	for _, p := range meeting.Participants {
		if p.UserID == actorID {
			continue
		}
		notify(s.notifier, p.UserID, models.NotificationMeetingConfirmed,
			"Meeting confirmed",
			"Your video meeting has been confirmed.",
			map[string]interface{}{"meeting_ref": meeting.PublicRef})
	}

	return meeting, nil
}

// Cancel aborts a pending or confirmed meeting. Any participant or
// staff can cancel; an authorized charge is released back to the guest.
func (s *MeetingService) Cancel(meetingID, actorID uint, actorRole string) (*models.Meeting, error) {
	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(meeting, actorID) && !models.IsStaff(actorRole) {
		return nil, errors.New(errors.ErrCodeForbidden, "not a participant of this meeting")
	}

	guestID, hasGuest := guestOf(meeting)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		meetingsTx := s.meetings.WithTx(tx)
		if err := meetingsTx.UpdateStatus(meeting, models.MeetingStatusCancelled); err != nil {
			return err
		}
		if meeting.ChargeStatus == models.ChargeStatusAuthorized && hasGuest {
			if err := meetingsTx.UpdateChargeStatus(meeting, models.ChargeStatusRefunded); err != nil {
				return err
			}
			return refundGuestTx(tx, s.credits, s.wallets, meeting, guestID, "meeting cancelled")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range meeting.Participants {
		if p.UserID == actorID {
			continue
		}
		notify(s.notifier, p.UserID, models.NotificationMeetingCancelled,
			"Meeting cancelled",
			"Your video meeting has been cancelled.",
			map[string]interface{}{"meeting_ref": meeting.PublicRef})
	}

	return meeting, nil
}

// RespondMatch records a participant's post-meeting interest answer.
// When the responder and another participant have both answered yes, a
// meeting-origin match is materialized with one notification pair.
func (s *MeetingService) RespondMatch(meetingID, actorID uint, interested bool) (bool, error) {
	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return false, err
	}
	if !isParticipant(meeting, actorID) {
		return false, errors.New(errors.ErrCodeForbidden, "not a participant of this meeting")
	}
	if meeting.Status != models.MeetingStatusCompleted {
		return false, errors.New(errors.ErrCodeInvalidState, "meeting is not completed")
	}

	response := models.MatchResponseNo
	if interested {
		response = models.MatchResponseYes
	}
	if err := s.meetings.SetMatchResponse(meetingID, actorID, response); err != nil {
		return false, err
	}
	if !interested {
		return false, nil
	}

	matched := false
	for _, p := range meeting.Participants {
		if p.UserID == actorID || p.MatchResponse != models.MatchResponseYes {
			continue
		}
		created, err := s.matches.UpsertPair(actorID, p.UserID, models.MatchOriginMeeting)
		if err != nil {
			return false, err
		}
		matched = true
		if !created {
			continue
		}
		for _, userID := range []uint{actorID, p.UserID} {
			other := p.UserID
			if userID == p.UserID {
				other = actorID
			}
			notify(s.notifier, userID, models.NotificationMutualMatch,
				"It's a match!",
				"You both want to see each other again. You can now message each other.",
				map[string]interface{}{"matched_user_id": other, "meeting_ref": meeting.PublicRef})
		}
	}

	return matched, nil
}
