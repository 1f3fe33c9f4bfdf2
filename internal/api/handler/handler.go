package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/sleep-social/internal/api/middleware"
	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/service"
	"github.com/d60-Lab/sleep-social/pkg/response"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	authService  service.AuthService
	sleepService service.SleepService
	relService   service.RelationshipService
	feedService  service.FeedService
	db           *gorm.DB
}

func New(
	authService service.AuthService,
	sleepService service.SleepService,
	relService service.RelationshipService,
	feedService service.FeedService,
	db *gorm.DB,
) *Handler {
	return &Handler{
		authService:  authService,
		sleepService: sleepService,
		relService:   relService,
		feedService:  feedService,
		db:           db,
	}
}

// actor 取当前登录用户；路由上缺少 Auth 中间件时按未认证处理
func actor(c *gin.Context) (*model.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
	}
	return u, ok
}

// fail maps service errors onto status codes.
func fail(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		nf   *service.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		response.Unprocessable(c, verr.Messages...)
	case errors.As(err, &nf):
		response.NotFound(c, nf.Message)
	case errors.Is(err, service.ErrFollowSelf):
		response.Error(c, http.StatusUnprocessableEntity, "Cannot follow yourself")
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
	default:
		response.InternalError(c, err)
	}
}
