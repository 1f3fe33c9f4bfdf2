package service

import (
	"errors"
	"strings"
)

var (
	// ErrFollowSelf 不能关注自己（领域规则错误，区别于普通校验错误）
	ErrFollowSelf = errors.New("cannot follow yourself")
	// ErrUnauthorized 统一的认证失败，不区分缺失/过期/伪造/用户不存在
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials 登录失败
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries field-level messages for unprocessable input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Messages, "; ") }

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

// NotFoundError names the missing entity, e.g. "Target user not found".
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

var (
	errUserNotFound   = &NotFoundError{Message: "User not found"}
	errTargetNotFound = &NotFoundError{Message: "Target user not found"}
)
