package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/constants"
	"helpboard/internal/service"
	"helpboard/internal/types"
	"helpboard/pkg/logger"
)

// AdminHandler 管理员会话处理器
type AdminHandler struct {
	adminService *service.AdminService
	logger       *logger.Logger
}

// NewAdminHandler 创建管理员会话处理器
func NewAdminHandler(adminService *service.AdminService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// PostAdmin 登录与注销
// @Router /admin [post]
func (h *AdminHandler) PostAdmin(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "login":
		session, err := h.adminService.Login(ctx, c.ClientIP(), req.AdminCode)
		if err != nil {
			HandleServiceError(c, h.logger, "管理员登录失败", err)
			return
		}
		success(c, gin.H{"token": session.Token, "expires_at": session.ExpiresAt})
	case "logout":
		var body types.AdminSessionRequest
		if !bindBody(c, &body) {
			return
		}
		token := body.Token
		if token == "" {
			token = req.AdminCode
		}
		if token == "" {
			RespondError(c, http.StatusBadRequest, constants.ErrRequiredFieldsMissing)
			return
		}
		if err := h.adminService.Logout(ctx, token); err != nil {
			HandleServiceError(c, h.logger, "管理员注销失败", err)
			return
		}
		success(c, gin.H{"message": constants.SuccessLogout})
	default:
		unknownAction(c)
	}
}
