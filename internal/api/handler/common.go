package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"helpboard/internal/constants"
	"helpboard/internal/service"
	"helpboard/internal/types"
	"helpboard/pkg/logger"
)

// RespondError 输出统一的错误结构
func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// HandleServiceError 将服务层错误映射为HTTP状态码
func HandleServiceError(c *gin.Context, log *logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, err.Error())
	default:
		log.Error(op, "error", err)
		RespondError(c, http.StatusInternalServerError, err.Error())
	}
}

// MethodNotAllowed 不支持的HTTP方法
func MethodNotAllowed(c *gin.Context) {
	RespondError(c, http.StatusMethodNotAllowed, constants.ErrMethodNotSupported)
}

// NotFound 未注册的路径
func NotFound(c *gin.Context) {
	RespondError(c, http.StatusNotFound, constants.ErrInvalidRequest)
}

func unknownAction(c *gin.Context) {
	RespondError(c, http.StatusMethodNotAllowed, constants.ErrUnknownAction)
}

// bindAction 解析请求体中的action，请求体会被缓存供后续绑定
func bindAction(c *gin.Context) (types.ActionRequest, bool) {
	var req types.ActionRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		RespondError(c, http.StatusBadRequest, constants.ErrInvalidJSON)
		return req, false
	}
	if req.Action == "" {
		RespondError(c, http.StatusBadRequest, constants.ErrMissingAction)
		return req, false
	}
	return req, true
}

// bindBody 把已缓存的请求体绑定到具体结构
func bindBody(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		RespondError(c, http.StatusBadRequest, constants.ErrInvalidJSON)
		return false
	}
	return true
}

// parseID 解析查询参数中的编号
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// authorize 管理员校验，失败时已写入响应
func authorize(c *gin.Context, admin *service.AdminService, log *logger.Logger, credential string) bool {
	if err := admin.Authorize(c.Request.Context(), c.ClientIP(), credential); err != nil {
		HandleServiceError(c, log, "管理员校验失败", err)
		return false
	}
	return true
}

// adminView 查询参数带有效管理码时返回true，无效时退回公开视图，限流时写入429并返回ok=false
func adminView(c *gin.Context, admin *service.AdminService, log *logger.Logger) (isAdmin, ok bool) {
	code := c.Query("admin_code")
	if code == "" {
		return false, true
	}
	err := admin.Authorize(c.Request.Context(), c.ClientIP(), code)
	if err == nil {
		return true, true
	}
	if errors.Is(err, service.ErrForbidden) {
		return false, true
	}
	HandleServiceError(c, log, "管理员校验失败", err)
	return false, false
}

func success(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
