package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/service"
	"github.com/d60-Lab/sleep-social/pkg/response"
)

const currentUserKey = "currentUser"

// Auth resolves "Authorization: Bearer <token>" to a live user. Every failure,
// including a token whose user was deleted, is a uniform 401.
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c)
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				response.Unauthorized(c)
				return
			}
			response.InternalError(c, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// CurrentUser returns the user set by Auth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok && u != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
