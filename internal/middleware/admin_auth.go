package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/constants"
	"helpboard/internal/service"
)

// AdminAuthorizer 校验管理员凭证
type AdminAuthorizer interface {
	Authorize(ctx context.Context, clientIP, credential string) error
}

// AdminAuth 管理员认证中间件，凭证取自X-Admin-Token或admin_code参数
func AdminAuth(authorizer AdminAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := c.GetHeader("X-Admin-Token")
		if credential == "" {
			credential = c.Query("admin_code")
		}

		if err := authorizer.Authorize(c.Request.Context(), c.ClientIP(), credential); err != nil {
			status := http.StatusInternalServerError
			msg := err.Error()
			switch {
			case errors.Is(err, service.ErrForbidden):
				status = http.StatusForbidden
				msg = constants.ErrInvalidAdminCode
			case errors.Is(err, service.ErrRateLimited):
				status = http.StatusTooManyRequests
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		c.Next()
	}
}
