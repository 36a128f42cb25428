package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mshirazi/datebridge/internal/middleware"
)

type createActivityRequest struct {
	TargetUserID uint   `json:"target_user_id" binding:"required"`
	ActivityType string `json:"activity_type" binding:"required"`
}

func (m *Manager) createActivity(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := m.activities.CheckAndRecord(userID, req.TargetUserID, req.ActivityType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"activity":     result.Activity,
		"mutual_match": result.MutualMatch,
	})
}

func (m *Manager) undoActivity(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	activityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}

	if err := m.activities.Undo(userID, uint(activityID)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (m *Manager) listMatches(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	matches, err := m.matches.ListForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
