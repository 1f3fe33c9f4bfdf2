package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/sleep-social/internal/model"
)

type FollowRepository interface {
	// Create 返回是否真正插入了新边；已存在时为 false
	Create(ctx context.Context, followerID, followedID string) (bool, error)
	// Delete 返回是否删除了一条边
	Delete(ctx context.Context, followerID, followedID string) (bool, error)
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	ListFollowingIDs(ctx context.Context, followerID string) ([]string, error)
	// ListFollowing/ListFollowers: limit <= 0 表示不分页
	ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.User, error)
	ListFollowers(ctx context.Context, followedID string, offset, limit int) ([]*model.User, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followedID string) (bool, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowedID: followedID}
	// 幂等：重复关注不报错，唯一索引是最终防线
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		if isCheckViolation(res.Error) {
			return false, ErrSelfFollow
		}
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Order("created_at ASC").
		Pluck("followed_id", &ids).Error
	return ids, err
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.User, error) {
	return r.listUsers(ctx, "follows.followed_id = users.id", "follows.follower_id = ?", followerID, offset, limit)
}

func (r *followRepository) ListFollowers(ctx context.Context, followedID string, offset, limit int) ([]*model.User, error) {
	return r.listUsers(ctx, "follows.follower_id = users.id", "follows.followed_id = ?", followedID, offset, limit)
}

func (r *followRepository) listUsers(ctx context.Context, on, where, id string, offset, limit int) ([]*model.User, error) {
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("users.*").
		Joins("JOIN follows ON "+on).
		Where(where, id).
		Order("follows.created_at ASC, follows.id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	res := make([]*model.User, 0)
	err := q.Find(&res).Error
	return res, err
}
