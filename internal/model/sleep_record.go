package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrClockOrder is returned when clock_out does not come strictly after clock_in.
var ErrClockOrder = errors.New("clock out must be after clock in time")

// SleepRecord 一次睡眠打卡；ClockOut 为空表示进行中
type SleepRecord struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `gorm:"type:varchar(36);index:idx_sleep_user_created;not null"`
	ClockIn   time.Time  `gorm:"index;not null"`
	ClockOut  *time.Time `gorm:"check:chk_sleep_records_clock_order,clock_out IS NULL OR clock_out > clock_in"`
	CreatedAt time.Time  `gorm:"index;index:idx_sleep_user_created"`
	UpdatedAt time.Time
}

func (SleepRecord) TableName() string { return "sleep_records" }

// DurationSeconds returns whole elapsed seconds, or false while the record is open.
func (r *SleepRecord) DurationSeconds() (int64, bool) {
	if r.ClockOut == nil {
		return 0, false
	}
	return int64(r.ClockOut.Sub(r.ClockIn) / time.Second), true
}

// DurationHours is DurationSeconds / 3600.
func (r *SleepRecord) DurationHours() (float64, bool) {
	secs, ok := r.DurationSeconds()
	if !ok {
		return 0, false
	}
	return float64(secs) / 3600.0, true
}

// Validate enforces clock_out > clock_in.
func (r *SleepRecord) Validate() error {
	if r.ClockOut != nil && !r.ClockOut.After(r.ClockIn) {
		return ErrClockOrder
	}
	return nil
}

// BeforeSave runs Validate on every create/save through gorm.
func (r *SleepRecord) BeforeSave(*gorm.DB) error { return r.Validate() }
