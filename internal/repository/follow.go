package repository

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followedID, visitorID uint) error
	Exists(ctx context.Context, followedID, visitorID uint) (bool, error)
	Followers(ctx context.Context, followedID uint) ([]models.User, error)
	Following(ctx context.Context, visitorID uint) ([]models.User, error)
	FollowedIDs(ctx context.Context, visitorID uint) ([]uint, error)
	CountFollowers(ctx context.Context, followedID uint) (int64, error)
	CountFollowing(ctx context.Context, visitorID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			// The pre-check lost a race; the composite unique index held the line.
			return models.NewConflictError("You are already following this user")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProfileCounts(ctx, follow.FollowedID)
	cache.InvalidateProfileCounts(ctx, follow.VisitorID)
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followedID, visitorID uint) error {
	res := r.db.WithContext(ctx).
		Where("followed_id = ? AND visitor_id = ?", followedID, visitorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Follow")
	}
	cache.InvalidateProfileCounts(ctx, followedID)
	cache.InvalidateProfileCounts(ctx, visitorID)
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followedID, visitorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followed_id = ? AND visitor_id = ?", followedID, visitorID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Followers returns the accounts following followedID, joined against users
// in edge insertion order.
func (r *followRepository) Followers(ctx context.Context, followedID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN follows ON follows.visitor_id = users.id").
		Where("follows.followed_id = ?", followedID).
		Order("follows.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Following returns the accounts visitorID follows, in edge insertion order.
func (r *followRepository) Following(ctx context.Context, visitorID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.visitor_id = ?", visitorID).
		Order("follows.id ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) FollowedIDs(ctx context.Context, visitorID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("visitor_id = ?", visitorID).
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, followedID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followed_id = ?", followedID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, visitorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("visitor_id = ?", visitorID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
