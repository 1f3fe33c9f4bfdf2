package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null;check:chk_follows_not_self,follower_id <> followed_id"`
	FollowedID string `gorm:"type:varchar(36);index:idx_follow_followed;index:idx_follow_pair,unique;not null"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, followed_id)
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
