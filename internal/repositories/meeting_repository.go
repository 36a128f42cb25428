package repositories

import (
	"time"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *MeetingRepository) WithTx(tx *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: tx}
}

// Create persists a meeting with its participant rows. The participant
// set must contain exactly one host and at least one guest.
func (r *MeetingRepository) Create(meeting *models.Meeting, participants []models.MeetingParticipant) error {
	hosts := 0
	guests := 0
	for _, p := range participants {
		switch p.Role {
		case models.ParticipantHost:
			hosts++
		case models.ParticipantGuest:
			guests++
		}
	}
	if hosts != 1 || guests < 1 {
		return errors.New(errors.ErrCodeValidation, "meeting requires exactly one host and at least one guest")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meeting).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create meeting")
		}
		for i := range participants {
			participants[i].MeetingID = meeting.ID
		}
		if err := tx.Create(&participants).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create participants")
		}
		meeting.Participants = participants
		return nil
	})
}

// GetByID retrieves a meeting with its participants.
func (r *MeetingRepository) GetByID(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	result := r.db.Preload("Participants").First(&meeting, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "meeting not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get meeting")
	}

	return &meeting, nil
}

// GetByIDLocked retrieves a meeting with its participants under a row
// lock, for use inside settlement transactions.
func (r *MeetingRepository) GetByIDLocked(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	result := forUpdate(r.db).First(&meeting, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "meeting not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to lock meeting")
	}

	if err := r.db.Where("meeting_id = ?", id).Find(&meeting.Participants).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load participants")
	}

	return &meeting, nil
}

// UpdateStatus transitions the scheduling status through the central
// transition validator.
func (r *MeetingRepository) UpdateStatus(meeting *models.Meeting, to string) error {
	if !models.CanTransitionStatus(meeting.Status, to) {
		return errors.New(errors.ErrCodeInvalidState, "illegal status transition "+meeting.Status+" -> "+to)
	}
	if err := r.db.Model(meeting).Update("status", to).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update status")
	}
	meeting.Status = to
	return nil
}

// Finalize records the host's conclusion report. The guard on
// finalized_at makes finalization at-most-once: a second conclusion, or
// two racing ones, see zero rows affected and fail with INVALID_STATE.
func (r *MeetingRepository) Finalize(meeting *models.Meeting, outcome, fault, notes, chargeStatus string, actorID uint) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":              models.MeetingStatusCompleted,
		"charge_status":       chargeStatus,
		"outcome":             outcome,
		"fault_determination": fault,
		"host_notes":          notes,
		"finalized_at":        now,
		"finalized_by":        actorID,
	}

	result := r.db.Model(&models.Meeting{}).
		Where("id = ? AND finalized_at IS NULL AND status IN ?",
			meeting.ID, []string{models.MeetingStatusConfirmed, models.MeetingStatusCompleted}).
		Updates(updates)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to finalize meeting")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidState, "meeting already finalized or not concludable")
	}

	meeting.Status = models.MeetingStatusCompleted
	meeting.ChargeStatus = chargeStatus
	meeting.Outcome = outcome
	meeting.FaultDetermination = fault
	meeting.HostNotes = notes
	meeting.FinalizedAt = &now
	meeting.FinalizedBy = actorID
	return nil
}

// Resolve applies an admin resolution. The charge_status predicate is a
// compare-and-swap: only one of two concurrent admin calls can move the
// meeting out of pending_review, so money moves at most once.
func (r *MeetingRepository) Resolve(meeting *models.Meeting, resolution, notes, newChargeStatus string, adminID uint) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"charge_status":          newChargeStatus,
		"admin_resolution":       resolution,
		"admin_resolution_notes": notes,
		"admin_resolved_at":      now,
		"admin_resolved_by":      adminID,
	}

	result := r.db.Model(&models.Meeting{}).
		Where("id = ? AND charge_status = ?", meeting.ID, models.ChargeStatusPendingReview).
		Updates(updates)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to resolve meeting")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidState, "meeting is not pending review")
	}

	meeting.ChargeStatus = newChargeStatus
	meeting.AdminResolution = resolution
	meeting.AdminResolutionNotes = notes
	meeting.AdminResolvedAt = &now
	meeting.AdminResolvedBy = adminID
	return nil
}

// UpdateChargeStatus transitions the settlement status outside of the
// finalize/resolve paths (request-time cancellation refunds).
func (r *MeetingRepository) UpdateChargeStatus(meeting *models.Meeting, to string) error {
	if !models.CanTransitionCharge(meeting.ChargeStatus, to) {
		return errors.New(errors.ErrCodeInvalidState, "illegal charge transition "+meeting.ChargeStatus+" -> "+to)
	}
	result := r.db.Model(&models.Meeting{}).
		Where("id = ? AND charge_status = ?", meeting.ID, meeting.ChargeStatus).
		Update("charge_status", to)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update charge status")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidState, "charge status changed concurrently")
	}
	meeting.ChargeStatus = to
	return nil
}

// SetMatchResponse records a participant's post-meeting interest
// answer.
func (r *MeetingRepository) SetMatchResponse(meetingID, userID uint, response string) error {
	result := r.db.Model(&models.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Update("match_response", response)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to record match response")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "participant not found")
	}
	return nil
}

// ListSettled returns meetings whose charge reached a terminal state,
// newest first. Used by the settlement export.
func (r *MeetingRepository) ListSettled(limit int) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := r.db.Preload("Participants").
		Where("charge_status IN ?", []string{models.ChargeStatusCaptured, models.ChargeStatusRefunded}).
		Order("updated_at DESC").
		Limit(limit).
		Find(&meetings).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list settled meetings")
	}
	return meetings, nil
}
