package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mshirazi/datebridge/internal/middleware"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/internal/services"
	"github.com/mshirazi/datebridge/pkg/errors"
	"github.com/mshirazi/datebridge/pkg/logger"
)

// Manager holds the handler dependencies: services for the write paths,
// repositories for the plain read paths.
type Manager struct {
	activities    *services.ActivityService
	meetings      *services.MeetingService
	investigation *services.InvestigationService
	admin         *services.AdminService
	users         *repositories.UserRepository
	matches       *repositories.MatchRepository
	wallets       *repositories.WalletRepository
	notifications *repositories.NotificationRepository
}

func NewManager(
	activities *services.ActivityService,
	meetings *services.MeetingService,
	investigation *services.InvestigationService,
	admin *services.AdminService,
	users *repositories.UserRepository,
	matches *repositories.MatchRepository,
	wallets *repositories.WalletRepository,
	notifications *repositories.NotificationRepository,
) *Manager {
	return &Manager{
		activities:    activities,
		meetings:      meetings,
		investigation: investigation,
		admin:         admin,
		users:         users,
		matches:       matches,
		wallets:       wallets,
		notifications: notifications,
	}
}

// RegisterRoutes wires the API surface. Everything sits behind the auth
// middleware; admin routes additionally require a staff role.
func (m *Manager) RegisterRoutes(r *gin.Engine, authSecret string, limiter *middleware.RateLimiter) {
	api := r.Group("/api/v1")
	api.Use(middleware.Auth(authSecret))
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	api.POST("/activities", m.createActivity)
	api.DELETE("/activities/:id", m.undoActivity)
	api.GET("/matches", m.listMatches)

	api.POST("/meetings", m.requestMeeting)
	api.POST("/meetings/:id/confirm", m.confirmMeeting)
	api.POST("/meetings/:id/cancel", m.cancelMeeting)
	api.POST("/meetings/:id/conclude", m.concludeMeeting)
	api.POST("/meetings/:id/respond", m.respondMatch)

	api.GET("/wallet", m.getWallet)
	api.GET("/wallet/transactions", m.listWalletTransactions)
	api.GET("/notifications", m.listNotifications)
	api.POST("/notifications/:id/read", m.markNotificationRead)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireStaff())
	admin.POST("/meetings/:id/resolve", m.resolveMeeting)
	admin.GET("/users", m.lookupUser)
	admin.PATCH("/users/:id/status", m.setAccountStatus)
	admin.POST("/users/:id/wallet", m.adjustWallet)
	admin.PUT("/tiers/:tier/limits", m.updateTierLimits)
}

// respondError translates the error taxonomy into HTTP statuses.
// Limit errors carry their structured detail so clients can render a
// precise message.
func respondError(c *gin.Context, err error) {
	var limitErr *errors.LimitExceededError
	if stderrors.As(err, &limitErr) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":  "activity limit exceeded",
			"period": limitErr.Period,
			"used":   limitErr.Used,
			"limit":  limitErr.Limit,
		})
		return
	}

	code := errors.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeValidation:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeAlreadyExists, errors.ErrCodeInvalidState:
		status = http.StatusConflict
	case errors.ErrCodeInsufficientFunds:
		status = http.StatusPaymentRequired
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
