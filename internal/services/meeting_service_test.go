package services

import (
	"testing"
	"time"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"github.com/stretchr/testify/require"
)

func scheduleTime() time.Time {
	return time.Now().Add(48 * time.Hour).UTC()
}

func (env *testEnv) requestMeeting(t *testing.T, guest, host *models.User, feeCents int64) *models.Meeting {
	t.Helper()

	require.NoError(t, env.credits.Grant(guest.ID, 5))
	meeting, err := env.meetingService.Request(guest.ID, host.ID, models.MeetingOneOnOne, scheduleTime(), feeCents)
	require.NoError(t, err)
	return meeting
}

func TestRequest_ConsumesCredit(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)

	require.NoError(t, env.credits.Grant(guest.ID, 2))

	meeting, err := env.meetingService.Request(guest.ID, host.ID, models.MeetingOneOnOne, scheduleTime(), 500)
	require.NoError(t, err)
	require.Equal(t, models.MeetingStatusPending, meeting.Status)
	require.Equal(t, models.ChargeStatusAuthorized, meeting.ChargeStatus)
	require.EqualValues(t, 500, meeting.FeeCents)
	require.NotEmpty(t, meeting.PublicRef)

	credits, err := env.credits.GetCredits(guest.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, credits.Used)

	require.Equal(t, 1, env.countNotifications(t, host.ID, models.NotificationMeetingRequested))
}

func TestRequest_InsufficientCredits(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)

	_, err := env.meetingService.Request(guest.ID, host.ID, models.MeetingOneOnOne, scheduleTime(), 500)
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeInsufficientFunds, errors.Code(err))

	// Nothing was created.
	var count int64
	require.NoError(t, env.db.Model(&models.Meeting{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRequest_ContactRuleForbidden(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierBasic, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierVIP, models.RoleUser)

	require.NoError(t, env.db.Create(&models.TierContactRule{
		Tier:       models.TierBasic,
		TargetTier: models.TierVIP,
		Allowed:    false,
	}).Error)
	require.NoError(t, env.credits.Grant(guest.ID, 5))

	_, err := env.meetingService.Request(guest.ID, host.ID, models.MeetingOneOnOne, scheduleTime(), 500)
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeForbidden, errors.Code(err))
}

func TestRequest_ContactRuleSurcharge(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierBasic, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierVIP, models.RoleUser)

	require.NoError(t, env.db.Create(&models.TierContactRule{
		Tier:             models.TierBasic,
		TargetTier:       models.TierVIP,
		Allowed:          true,
		ExtraChargeCents: 250,
	}).Error)
	require.NoError(t, env.credits.Grant(guest.ID, 5))

	meeting, err := env.meetingService.Request(guest.ID, host.ID, models.MeetingOneOnOne, scheduleTime(), 500)
	require.NoError(t, err)
	require.EqualValues(t, 750, meeting.FeeCents)
}

func TestConfirm_HostOnly(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)

	_, err := env.meetingService.Confirm(meeting.ID, guest.ID)
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeForbidden, errors.Code(err))

	confirmed, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)
	require.Equal(t, models.MeetingStatusConfirmed, confirmed.Status)

	require.Equal(t, 1, env.countNotifications(t, guest.ID, models.NotificationMeetingConfirmed))
}

func TestCancel_RefundsAuthorizedCharge(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)

	cancelled, err := env.meetingService.Cancel(meeting.ID, host.ID, models.RoleUser)
	require.NoError(t, err)
	require.Equal(t, models.MeetingStatusCancelled, cancelled.Status)
	require.Equal(t, models.ChargeStatusRefunded, cancelled.ChargeStatus)

	credits, err := env.credits.GetCredits(guest.ID)
	require.NoError(t, err)
	require.Zero(t, credits.Used)

	balance, err := env.wallets.GetBalance(guest.ID)
	require.NoError(t, err)
	require.EqualValues(t, 500, balance)
}

func TestCancel_OutsiderForbidden(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	outsider := env.createUser(t, "other@example.com", models.TierStandard, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)

	_, err := env.meetingService.Cancel(meeting.ID, outsider.ID, models.RoleUser)
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeForbidden, errors.Code(err))

	// Staff may cancel without being a participant.
	_, err = env.meetingService.Cancel(meeting.ID, outsider.ID, models.RoleModerator)
	require.NoError(t, err)
}

func TestFinalize_Capture(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)
	_, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)

	finalized, err := env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeCompleted, models.FaultNone, models.ChargeDecisionCapture, "great date")
	require.NoError(t, err)

	require.Equal(t, models.MeetingStatusCompleted, finalized.Status)
	require.Equal(t, models.ChargeStatusCaptured, finalized.ChargeStatus)
	require.NotNil(t, finalized.FinalizedAt)
	require.Equal(t, host.ID, finalized.FinalizedBy)

	// Both participants are notified.
	require.Equal(t, 1, env.countNotifications(t, guest.ID, models.NotificationMeetingConcluded))
	require.Equal(t, 1, env.countNotifications(t, host.ID, models.NotificationMeetingConcluded))
}

func TestFinalize_RefundMovesMoneyImmediately(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)
	_, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)

	_, err = env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeNoShow, models.FaultAccepter, models.ChargeDecisionRefund, "")
	require.NoError(t, err)

	balance, err := env.wallets.GetBalance(guest.ID)
	require.NoError(t, err)
	require.EqualValues(t, 500, balance)

	credits, err := env.credits.GetCredits(guest.ID)
	require.NoError(t, err)
	require.Zero(t, credits.Used)
}

func TestFinalize_PendingReviewDefersMoney(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)
	_, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)

	finalized, err := env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeIncident, models.FaultRequester, models.ChargeDecisionPendingReview, "guest left after 2 minutes")
	require.NoError(t, err)
	require.Equal(t, models.ChargeStatusPendingReview, finalized.ChargeStatus)

	// No money moved yet.
	balance, err := env.wallets.GetBalance(guest.ID)
	require.NoError(t, err)
	require.Zero(t, balance)

	// The investigation notice carries the review timeline.
	var notif models.Notification
	require.NoError(t, env.db.Where("user_id = ? AND type = ?", guest.ID, models.NotificationInvestigationOpened).
		First(&notif).Error)
	require.Contains(t, notif.Message, "1-2 business days")
}

func TestFinalize_NonHostForbidden(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)
	_, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)

	_, err = env.meetingService.Finalize(meeting.ID, guest.ID, models.RoleUser,
		models.OutcomeCompleted, models.FaultNone, models.ChargeDecisionCapture, "")
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeForbidden, errors.Code(err))

	// A moderator may conclude on the host's behalf.
	_, err = env.meetingService.Finalize(meeting.ID, guest.ID, models.RoleModerator,
		models.OutcomeCompleted, models.FaultNone, models.ChargeDecisionCapture, "")
	require.NoError(t, err)
}

func TestFinalize_AtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)
	_, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)

	_, err = env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeCompleted, models.FaultNone, models.ChargeDecisionCapture, "")
	require.NoError(t, err)

	_, err = env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeNoShow, models.FaultAccepter, models.ChargeDecisionRefund, "")
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeInvalidState, errors.Code(err))

	// The first report stands untouched.
	stored, err := env.meetings.GetByID(meeting.ID)
	require.NoError(t, err)
	require.Equal(t, models.OutcomeCompleted, stored.Outcome)
	require.Equal(t, models.ChargeStatusCaptured, stored.ChargeStatus)
}

func TestFinalize_PendingMeetingNotConcludable(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)

	_, err := env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeCompleted, models.FaultNone, models.ChargeDecisionCapture, "")
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeInvalidState, errors.Code(err))
}

func (env *testEnv) completedMeeting(t *testing.T, guest, host *models.User) *models.Meeting {
	t.Helper()

	meeting := env.requestMeeting(t, guest, host, 500)
	_, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)
	_, err = env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeCompleted, models.FaultNone, models.ChargeDecisionCapture, "")
	require.NoError(t, err)
	return meeting
}

func TestRespondMatch_BothYesCreatesMeetingMatch(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.completedMeeting(t, guest, host)

	matched, err := env.meetingService.RespondMatch(meeting.ID, host.ID, true)
	require.NoError(t, err)
	require.False(t, matched)

	matched, err = env.meetingService.RespondMatch(meeting.ID, guest.ID, true)
	require.NoError(t, err)
	require.True(t, matched)

	paired, err := env.matches.ArePaired(guest.ID, host.ID)
	require.NoError(t, err)
	require.True(t, paired)

	require.Equal(t, 1, env.countNotifications(t, guest.ID, models.NotificationMutualMatch))
	require.Equal(t, 1, env.countNotifications(t, host.ID, models.NotificationMutualMatch))

	// Answering again does not repeat the notification pair.
	matched, err = env.meetingService.RespondMatch(meeting.ID, guest.ID, true)
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, 1, env.countNotifications(t, guest.ID, models.NotificationMutualMatch))
}

func TestRespondMatch_NoNeverMatches(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.completedMeeting(t, guest, host)

	_, err := env.meetingService.RespondMatch(meeting.ID, host.ID, true)
	require.NoError(t, err)

	matched, err := env.meetingService.RespondMatch(meeting.ID, guest.ID, false)
	require.NoError(t, err)
	require.False(t, matched)

	paired, err := env.matches.ArePaired(guest.ID, host.ID)
	require.NoError(t, err)
	require.False(t, paired)
}

func TestRespondMatch_RequiresCompletedMeeting(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)

	_, err := env.meetingService.RespondMatch(meeting.ID, guest.ID, true)
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeInvalidState, errors.Code(err))
}

func TestRespondMatch_OutsiderForbidden(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	outsider := env.createUser(t, "other@example.com", models.TierStandard, models.RoleUser)
	meeting := env.completedMeeting(t, guest, host)

	_, err := env.meetingService.RespondMatch(meeting.ID, outsider.ID, true)
	require.Error(t, err)
	require.Equal(t, errors.ErrCodeForbidden, errors.Code(err))
}

func TestFinalize_NotesAreSanitized(t *testing.T) {
	env := newTestEnv(t)
	guest := env.createUser(t, "guest@example.com", models.TierStandard, models.RoleUser)
	host := env.createUser(t, "host@example.com", models.TierPremium, models.RoleUser)
	meeting := env.requestMeeting(t, guest, host, 500)
	_, err := env.meetingService.Confirm(meeting.ID, host.ID)
	require.NoError(t, err)

	finalized, err := env.meetingService.Finalize(meeting.ID, host.ID, models.RoleUser,
		models.OutcomeCompleted, models.FaultNone, models.ChargeDecisionCapture,
		"<script>alert(1)</script>all fine")
	require.NoError(t, err)
	require.Equal(t, "all fine", finalized.HostNotes)
}
