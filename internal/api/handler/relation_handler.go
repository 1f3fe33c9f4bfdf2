package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sleep-social/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户（幂等）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 200 {object} service.FollowResult
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /api/v1/users/{id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	res, err := h.relService.Follow(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// Unfollow 取消关注
// @Summary 取消关注（幂等）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "目标用户ID"
// @Success 200 {object} service.FollowResult
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/users/{id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	res, err := h.relService.Unfollow(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} service.UserPage
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	userID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	res, err := h.relService.ListFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} service.UserPage
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	userID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	res, err := h.relService.ListFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}
