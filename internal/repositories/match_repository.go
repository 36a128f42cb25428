package repositories

import (
	"time"

	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// UpsertPair materializes a match for an unordered pair. Returns true
// when a new row was created, false when the pair was already matched
// for that origin. Callers use the created flag to fire match
// notifications at most once per pair.
func (r *MatchRepository) UpsertPair(userA, userB uint, origin string) (bool, error) {
	u1, u2 := models.NormalizePair(userA, userB)
	match := models.UserMatch{
		User1ID:   u1,
		User2ID:   u2,
		Origin:    origin,
		MatchedAt: time.Now().UTC(),
	}

	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to upsert match")
	}

	return result.RowsAffected > 0, nil
}

// ArePaired reports whether two users share a match of any origin.
func (r *MatchRepository) ArePaired(userA, userB uint) (bool, error) {
	u1, u2 := models.NormalizePair(userA, userB)
	var count int64
	err := r.db.Model(&models.UserMatch{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check match")
	}
	return count > 0, nil
}

// ListForUser returns all matches involving a user, newest first. The
// row is symmetric: the caller resolves which side is "the other user".
func (r *MatchRepository) ListForUser(userID uint) ([]models.UserMatch, error) {
	var matches []models.UserMatch
	err := r.db.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("matched_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list matches")
	}
	return matches, nil
}
