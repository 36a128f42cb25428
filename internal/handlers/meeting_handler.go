package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mshirazi/datebridge/internal/middleware"
)

type requestMeetingRequest struct {
	HostID      uint      `json:"host_id" binding:"required"`
	MeetingType string    `json:"meeting_type" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	FeeCents    int64     `json:"fee_cents"`
}

func (m *Manager) requestMeeting(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	var req requestMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := m.meetings.Request(userID, req.HostID, req.MeetingType, req.ScheduledAt, req.FeeCents)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, meeting)
}

func (m *Manager) confirmMeeting(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	meeting, err := m.meetings.Confirm(meetingID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting)
}

func (m *Manager) cancelMeeting(c *gin.Context) {
	userID, role := middleware.Principal(c)

	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	meeting, err := m.meetings.Cancel(meetingID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting)
}

type concludeMeetingRequest struct {
	Outcome        string `json:"outcome" binding:"required"`
	Fault          string `json:"fault" binding:"required"`
	ChargeDecision string `json:"charge_decision" binding:"required"`
	Notes          string `json:"notes"`
}

func (m *Manager) concludeMeeting(c *gin.Context) {
	userID, role := middleware.Principal(c)

	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	var req concludeMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := m.meetings.Finalize(meetingID, userID, role, req.Outcome, req.Fault, req.ChargeDecision, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting)
}

type respondMatchRequest struct {
	Interested *bool `json:"interested" binding:"required"`
}

func (m *Manager) respondMatch(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	var req respondMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matched, err := m.meetings.RespondMatch(meetingID, userID, *req.Interested)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matched": matched})
}

func meetingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return 0, false
	}
	return uint(id), true
}
