package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/postline/postline/internal/models"
)

// FollowRepository provides follow-edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Follow creates the (user, author) edge if absent. The insert rides on
// the unique index with ON CONFLICT DO NOTHING, so re-following and
// concurrent follows are no-ops rather than errors.
func (r *FollowRepository) Follow(ctx context.Context, userID, authorID int64) error {
	follow := models.Follow{
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(&follow).Error
}

// Unfollow deletes the (user, author) edge. Deleting a missing edge is
// a no-op.
func (r *FollowRepository) Unfollow(ctx context.Context, userID, authorID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether the edge exists
func (r *FollowRepository) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowerCount returns how many users follow the author
func (r *FollowRepository) FollowerCount(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// FollowingCount returns how many authors the user follows
func (r *FollowRepository) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
