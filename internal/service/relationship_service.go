package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/repository"
	"github.com/d60-Lab/sleep-social/pkg/logger"
	"github.com/d60-Lab/sleep-social/pkg/metrics"
)

const (
	MsgFollowed         = "Successfully followed user"
	MsgAlreadyFollowing = "Already following this user"
	MsgUnfollowed       = "Successfully unfollowed user"
	MsgNotFollowing     = "Not following this user"
)

// FollowResult 关注/取关结果，Following 总是操作后的权威集合
type FollowResult struct {
	Message   string              `json:"message"`
	Following []model.UserSummary `json:"following"`
}

// UserPage is one page of a following/followers list with the paging actually applied.
type UserPage struct {
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	List     []model.UserSummary `json:"list"`
}

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, actor *model.User, targetID string) (*FollowResult, error)
	Unfollow(ctx context.Context, actor *model.User, targetID string) (*FollowResult, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) (*UserPage, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) (*UserPage, error)
}

type relationshipService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

func NewRelationshipService(users repository.UserRepository, follows repository.FollowRepository) RelationshipService {
	return &relationshipService{users: users, follows: follows}
}

func (s *relationshipService) Follow(ctx context.Context, actor *model.User, targetID string) (*FollowResult, error) {
	if actor.ID == targetID {
		return nil, ErrFollowSelf
	}
	if err := s.requireUser(ctx, targetID, errTargetNotFound); err != nil {
		return nil, err
	}

	msg := MsgAlreadyFollowing
	exists, err := s.follows.Exists(ctx, actor.ID, targetID)
	if err != nil {
		return nil, fmt.Errorf("check follow: %w", err)
	}
	if !exists {
		created, err := s.follows.Create(ctx, actor.ID, targetID)
		if err != nil {
			if errors.Is(err, repository.ErrSelfFollow) {
				return nil, ErrFollowSelf
			}
			return nil, fmt.Errorf("create follow: %w", err)
		}
		if created {
			msg = MsgFollowed
			metrics.FollowChanges.WithLabelValues("follow").Inc()
			logger.Info("user followed", zap.String("follower", actor.ID), zap.String("followed", targetID))
		}
	}
	return s.result(ctx, actor, msg)
}

func (s *relationshipService) Unfollow(ctx context.Context, actor *model.User, targetID string) (*FollowResult, error) {
	if err := s.requireUser(ctx, targetID, errTargetNotFound); err != nil {
		return nil, err
	}
	deleted, err := s.follows.Delete(ctx, actor.ID, targetID)
	if err != nil {
		return nil, fmt.Errorf("delete follow: %w", err)
	}
	msg := MsgNotFollowing
	if deleted {
		msg = MsgUnfollowed
		metrics.FollowChanges.WithLabelValues("unfollow").Inc()
		logger.Info("user unfollowed", zap.String("follower", actor.ID), zap.String("followed", targetID))
	}
	return s.result(ctx, actor, msg)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) (*UserPage, error) {
	if err := s.requireUser(ctx, userID, errUserNotFound); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)
	items, err := s.follows.ListFollowing(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return &UserPage{Page: page, PageSize: pageSize, List: summaries(items)}, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, page, pageSize int) (*UserPage, error) {
	if err := s.requireUser(ctx, userID, errUserNotFound); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)
	items, err := s.follows.ListFollowers(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return &UserPage{Page: page, PageSize: pageSize, List: summaries(items)}, nil
}

func (s *relationshipService) requireUser(ctx context.Context, id string, missing *NotFoundError) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return missing
		}
		return fmt.Errorf("load user: %w", err)
	}
	return nil
}

func (s *relationshipService) result(ctx context.Context, actor *model.User, msg string) (*FollowResult, error) {
	following, err := s.follows.ListFollowing(ctx, actor.ID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return &FollowResult{Message: msg, Following: summaries(following)}, nil
}

// normalizePage 页码从 1 开始，每页默认 10 条、最多 100 条
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func summaries(users []*model.User) []model.UserSummary {
	res := make([]model.UserSummary, len(users))
	for i, u := range users {
		res[i] = u.Summary()
	}
	return res
}
