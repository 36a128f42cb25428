package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mshirazi/datebridge/internal/middleware"
)

func (m *Manager) getWallet(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	balance, err := m.wallets.GetBalance(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance_cents": balance})
}

func (m *Manager) listWalletTransactions(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	transactions, err := m.wallets.GetTransactionHistory(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (m *Manager) listNotifications(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	notifications, err := m.notifications.ListForUser(userID, 50)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (m *Manager) markNotificationRead(c *gin.Context) {
	userID, _ := middleware.Principal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := m.notifications.MarkRead(userID, uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
