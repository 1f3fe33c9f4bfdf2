package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/sleep-social/pkg/logger"
	"github.com/d60-Lab/sleep-social/pkg/response"
)

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.MessageBody
// @Failure 503 {object} response.MessageBody
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Warn("health check failed", zap.Error(err))
		response.JSON(c, http.StatusServiceUnavailable, response.MessageBody{Status: "unavailable"})
		return
	}
	response.Success(c, response.MessageBody{Status: "ok"})
}
