package services

import (
	"encoding/json"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/pkg/errors"
	"github.com/mshirazi/datebridge/pkg/logger"
)

// Notifier is the trigger contract for user notifications. Dispatch is
// fire-and-forget: callers log failures and carry on, they never roll
// back the primary action over a lost notification.
type Notifier interface {
	Notify(userID uint, notifType, title, message string, data map[string]interface{}) error
}

// DBNotifier persists notifications as rows; downstream delivery (push,
// badge counts) reads from the table.
type DBNotifier struct {
	repo *repositories.NotificationRepository
}

func NewDBNotifier(repo *repositories.NotificationRepository) *DBNotifier {
	return &DBNotifier{repo: repo}
}

func (n *DBNotifier) Notify(userID uint, notifType, title, message string, data map[string]interface{}) error {
	encoded := ""
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode notification data")
		}
		encoded = string(raw)
	}

	return n.repo.Create(&models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    encoded,
	})
}

// notify dispatches best-effort and logs the failure.
func notify(n Notifier, userID uint, notifType, title, message string, data map[string]interface{}) {
	if err := n.Notify(userID, notifType, title, message, data); err != nil {
		logger.Warn("notification dispatch failed", "user_id", userID, "type", notifType, "error", err)
	}
}

// InvestigationEmailData is the template payload for the resolution
// email.
type InvestigationEmailData struct {
	MeetingRef string
	Resolution string
	Message    string
}

// EmailSender is the trigger contract for investigation-resolved emails.
// Best-effort: a failure is isolated from the resolution transaction.
type EmailSender interface {
	SendInvestigationResolvedEmail(address string, data InvestigationEmailData) error
}

// LogEmailSender records the trigger without delivering anything.
// Delivery mechanics belong to the external mail system.
type LogEmailSender struct{}

func (LogEmailSender) SendInvestigationResolvedEmail(address string, data InvestigationEmailData) error {
	logger.Info("investigation resolved email triggered",
		"address", address, "meeting_ref", data.MeetingRef, "resolution", data.Resolution)
	return nil
}
