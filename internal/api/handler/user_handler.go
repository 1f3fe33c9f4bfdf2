package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sleep-social/pkg/response"
)

// Me 当前用户
// @Summary 当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserSummary
// @Failure 401 {object} response.ErrorBody
// @Router /api/v1/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	response.Success(c, u.Summary())
}

// DeleteMe 注销账号，同时删除其关系和睡眠记录
// @Summary 注销当前账号
// @Tags 用户
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.ErrorBody
// @Router /api/v1/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	if err := h.authService.DeleteAccount(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	response.NoContent(c)
}
