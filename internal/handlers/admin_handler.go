package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mshirazi/datebridge/internal/middleware"
	"github.com/mshirazi/datebridge/internal/models"
)

type resolveMeetingRequest struct {
	Resolution string `json:"resolution" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

func (m *Manager) resolveMeeting(c *gin.Context) {
	adminID, role := middleware.Principal(c)

	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	var req resolveMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := m.investigation.Resolve(meetingID, adminID, role, req.Resolution, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"charge_status": result.ChargeStatus,
		"refund_issued": result.RefundIssued,
	})
}

type setAccountStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (m *Manager) setAccountStatus(c *gin.Context) {
	adminID, role := middleware.Principal(c)

	targetID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req setAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := m.admin.SetAccountStatus(adminID, role, targetID, req.Status, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type adjustWalletRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Reason      string `json:"reason"`
}

func (m *Manager) adjustWallet(c *gin.Context) {
	adminID, role := middleware.Principal(c)

	targetID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req adjustWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := m.admin.AdjustWallet(adminID, role, targetID, req.AmountCents, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (m *Manager) updateTierLimits(c *gin.Context) {
	adminID, role := middleware.Principal(c)

	var limits models.TierLimits
	if err := c.ShouldBindJSON(&limits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limits.Tier = c.Param("tier")

	if err := m.admin.UpdateTierLimits(adminID, role, &limits); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// lookupUser resolves a user by email for moderation tooling.
func (m *Manager) lookupUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	user, err := m.users.GetUserByEmail(email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}
