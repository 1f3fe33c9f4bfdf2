package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken 邮箱唯一索引冲突
	ErrEmailTaken = errors.New("email has already been taken")
	// ErrOpenRecordExists open 记录部分唯一索引冲突（并发打卡竞争失败方）
	ErrOpenRecordExists = errors.New("sleep record already in progress")
	// ErrSelfFollow 触发 follows 表的 CHECK 约束
	ErrSelfFollow = errors.New("cannot follow self")
)

// isUniqueViolation 识别唯一约束冲突；TranslateError 未覆盖的驱动回落到错误文本
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
