package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/sleep-social/internal/model"
)

// SleepState is the per-user clock state, derived from whether an open record exists.
type SleepState int

const (
	StateIdle SleepState = iota
	StateOpen
)

func (s SleepState) String() string {
	if s == StateOpen {
		return "open"
	}
	return "idle"
}

// FeedRow 关注人已完成的睡眠记录（带用户名）
type FeedRow struct {
	ID        string
	UserID    string
	UserName  string
	ClockIn   time.Time
	ClockOut  time.Time
	CreatedAt time.Time
}

type SleepRecordRepository interface {
	// Toggle 在单个事务内完成 "查找 open 记录 -> 关闭或新建"，返回变更后的记录与新状态
	Toggle(ctx context.Context, userID string, now time.Time) (*model.SleepRecord, SleepState, error)
	ListByUser(ctx context.Context, userID string) ([]*model.SleepRecord, error)
	CountOpen(ctx context.Context, userID string) (int64, error)
	// ListCompletedSince 查询 userIDs 在 [since, until] 内创建且已完成的记录，按创建顺序返回
	ListCompletedSince(ctx context.Context, userIDs []string, since, until time.Time) ([]FeedRow, error)
}

type sleepRecordRepository struct {
	db *gorm.DB
}

func NewSleepRecordRepository(db *gorm.DB) SleepRecordRepository {
	return &sleepRecordRepository{db: db}
}

func (r *sleepRecordRepository) Toggle(ctx context.Context, userID string, now time.Time) (*model.SleepRecord, SleepState, error) {
	var (
		rec   model.SleepRecord
		state SleepState
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住用户行，串行化同一用户的打卡；不同用户互不阻塞（sqlite 忽略 FOR UPDATE）
		var owner model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", userID).
			First(&owner).Error; err != nil {
			return notFound(err)
		}

		err := tx.Where("user_id = ? AND clock_out IS NULL", userID).
			Order("created_at DESC").
			First(&rec).Error
		switch {
		case err == nil:
			out := now
			rec.ClockOut = &out
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
			state = StateIdle
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = model.SleepRecord{ID: uuid.New().String(), UserID: userID, ClockIn: now, CreatedAt: now}
			if err := tx.Create(&rec).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrOpenRecordExists
				}
				return err
			}
			state = StateOpen
			return nil
		default:
			return err
		}
	})
	if err != nil {
		if isCheckViolation(err) {
			return nil, state, model.ErrClockOrder
		}
		return nil, state, err
	}
	return &rec, state, nil
}

func (r *sleepRecordRepository) ListByUser(ctx context.Context, userID string) ([]*model.SleepRecord, error) {
	res := make([]*model.SleepRecord, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&res).Error
	return res, err
}

func (r *sleepRecordRepository) CountOpen(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.SleepRecord{}).
		Where("user_id = ? AND clock_out IS NULL", userID).
		Count(&cnt).Error
	return cnt, err
}

func (r *sleepRecordRepository) ListCompletedSince(ctx context.Context, userIDs []string, since, until time.Time) ([]FeedRow, error) {
	rows := make([]FeedRow, 0)
	if len(userIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("sleep_records").
		Select("sleep_records.id, sleep_records.user_id, users.name AS user_name, sleep_records.clock_in, sleep_records.clock_out, sleep_records.created_at").
		Joins("JOIN users ON users.id = sleep_records.user_id").
		Where("sleep_records.user_id IN ?", userIDs).
		Where("sleep_records.created_at >= ? AND sleep_records.created_at <= ?", since, until).
		Where("sleep_records.clock_out IS NOT NULL").
		Order("sleep_records.created_at ASC, sleep_records.id ASC").
		Scan(&rows).Error
	return rows, err
}
