// Package response writes the JSON bodies used by every HTTP handler.
package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/sleep-social/pkg/logger"
)

// ErrorBody is the single-message error envelope.
type ErrorBody struct {
	Error string `json:"error" example:"Unauthorized"`
}

// ErrorsBody lists validation messages.
type ErrorsBody struct {
	Errors []string `json:"errors" example:"Email can't be blank"`
}

// MessageBody is used by endpoints that only report status.
type MessageBody struct {
	Status string `json:"status" example:"ok"`
}

func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Success 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes {"error": msg} and aborts the chain.
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// Errors writes {"errors": [...]} and aborts the chain.
func Errors(c *gin.Context, status int, msgs []string) {
	if msgs == nil {
		msgs = []string{}
	}
	c.AbortWithStatusJSON(status, ErrorsBody{Errors: msgs})
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}

func Unprocessable(c *gin.Context, msgs ...string) {
	Errors(c, http.StatusUnprocessableEntity, msgs)
}

func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "Too many requests")
}

// InternalError logs err, reports it to Sentry and hides the detail from the client.
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err))
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	Error(c, http.StatusInternalServerError, "Internal server error")
}
