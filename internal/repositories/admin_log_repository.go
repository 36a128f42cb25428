package repositories

import (
	"github.com/google/uuid"
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
)

type AdminLogRepository struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

// WithTx returns a repository bound to an open transaction. Privileged
// actions write their audit row in the same transaction as the state
// change: if the row cannot be written, the action is not recorded and
// must not commit.
func (r *AdminLogRepository) WithTx(tx *gorm.DB) *AdminLogRepository {
	return &AdminLogRepository{db: tx}
}

// Append writes one audit row with a typed meta payload.
func (r *AdminLogRepository) Append(adminID, targetUserID uint, meta models.AdminLogMeta) error {
	encoded, err := models.EncodeMeta(meta)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode audit meta")
	}

	row := &models.AdminLog{
		EventID:      uuid.NewString(),
		AdminID:      adminID,
		TargetUserID: targetUserID,
		Action:       meta.AdminAction(),
		Meta:         encoded,
	}
	if err := r.db.Create(row).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to append audit log")
	}
	return nil
}

// ListByAction returns recent audit rows for one action type.
func (r *AdminLogRepository) ListByAction(action string, limit int) ([]models.AdminLog, error) {
	var rows []models.AdminLog
	err := r.db.Where("action = ?", action).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list audit log")
	}
	return rows, nil
}
