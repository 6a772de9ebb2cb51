package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/api/handler"
	"helpboard/internal/service"
	"helpboard/pkg/logger"
)

// AnnouncementAdminHandler 公告管理处理器
type AnnouncementAdminHandler struct {
	announcementService *service.AnnouncementService
	logger              *logger.Logger
}

// NewAnnouncementAdminHandler 创建公告管理处理器实例
func NewAnnouncementAdminHandler(announcementService *service.AnnouncementService, logger *logger.Logger) *AnnouncementAdminHandler {
	return &AnnouncementAdminHandler{
		announcementService: announcementService,
		logger:              logger,
	}
}

// GetAdminAnnouncements 获取全部公告，不受公开可见性限制
// @Summary 获取全部公告
// @Tags 公告管理
// @Produce json
// @Param X-Admin-Token header string false "管理员会话或口令"
// @Param admin_code query string false "管理员会话或口令"
// @Success 200 {array} model.AnnouncementView
// @Router /admin/announcements [get]
func (h *AnnouncementAdminHandler) GetAdminAnnouncements(c *gin.Context) {
	views, err := h.announcementService.GetAnnouncementsAdmin(c.Request.Context())
	if err != nil {
		handler.HandleServiceError(c, h.logger, "获取全部公告失败", err)
		return
	}
	c.JSON(http.StatusOK, views)
}
