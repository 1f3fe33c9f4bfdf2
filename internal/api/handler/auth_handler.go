package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sleep-social/internal/service"
	"github.com/d60-Lab/sleep-social/pkg/response"
)

type signupRequest struct {
	User service.SignupInput `json:"user"`
}

// Signup 注册
// @Summary 注册并返回令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body signupRequest true "用户信息"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorsBody
// @Router /api/v1/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	res, err := h.authService.Signup(c.Request.Context(), req.User)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, res)
}

// Login 登录
// @Summary 邮箱密码登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录信息"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} response.ErrorBody
// @Router /api/v1/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}
