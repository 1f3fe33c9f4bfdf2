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
	MsgClockedIn  = "Clocked in"
	MsgClockedOut = "Clocked out"
)

// ClockResult 打卡结果：新状态 + 按创建时间升序的完整历史
type ClockResult struct {
	Message string
	State   repository.SleepState
	Record  *model.SleepRecord
	History []*model.SleepRecord
}

// SleepService 睡眠打卡（Idle <-> Open 两态切换）
type SleepService interface {
	Clock(ctx context.Context, actor *model.User) (*ClockResult, error)
	History(ctx context.Context, actor *model.User) ([]*model.SleepRecord, error)
}

type sleepService struct {
	records repository.SleepRecordRepository
	opts    options
}

func NewSleepService(records repository.SleepRecordRepository, opts ...Option) SleepService {
	return &sleepService{records: records, opts: buildOptions(opts)}
}

func (s *sleepService) Clock(ctx context.Context, actor *model.User) (*ClockResult, error) {
	now := s.opts.now().UTC()
	rec, state, err := s.records.Toggle(ctx, actor.ID, now)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrClockOrder):
			return nil, NewValidationError("Clock out must be after clock in time")
		case errors.Is(err, repository.ErrOpenRecordExists):
			return nil, NewValidationError("Sleep record already in progress")
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("toggle sleep record: %w", err)
	}

	msg := MsgClockedIn
	if state == repository.StateIdle {
		msg = MsgClockedOut
	}
	metrics.SleepToggles.WithLabelValues(state.String()).Inc()
	logger.Debug("sleep clock toggled",
		zap.String("user_id", actor.ID),
		zap.String("record_id", rec.ID),
		zap.Stringer("state", state))

	history, err := s.History(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &ClockResult{Message: msg, State: state, Record: rec, History: history}, nil
}

func (s *sleepService) History(ctx context.Context, actor *model.User) ([]*model.SleepRecord, error) {
	history, err := s.records.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}
	return history, nil
}
