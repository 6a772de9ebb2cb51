package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/constants"
	"helpboard/internal/model"
	"helpboard/internal/service"
	"helpboard/internal/types"
	"helpboard/pkg/logger"
)

// AnnouncementHandler 公告处理器
type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	systemService       *service.SystemService
	adminService        *service.AdminService
	logger              *logger.Logger
}

// NewAnnouncementHandler 创建公告处理器实例
func NewAnnouncementHandler(
	announcementService *service.AnnouncementService,
	systemService *service.SystemService,
	adminService *service.AdminService,
	logger *logger.Logger,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		systemService:       systemService,
		adminService:        adminService,
		logger:              logger,
	}
}

// GetAnnouncements 获取公告列表，带id参数时返回单条
// @Router /announcements [get]
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("id"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			RespondError(c, http.StatusBadRequest, constants.ErrInvalidRequest)
			return
		}
		view, err := h.announcementService.GetAnnouncementByID(ctx, id)
		if err != nil {
			HandleServiceError(c, h.logger, "获取公告详情失败", err)
			return
		}
		c.JSON(http.StatusOK, view)
		return
	}

	filter := model.AnnouncementFilter{
		Type:   c.Query("type"),
		Author: c.Query("author"),
	}
	views, err := h.announcementService.GetAnnouncements(ctx, filter)
	if err != nil {
		HandleServiceError(c, h.logger, "获取公告列表失败", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// PostAnnouncement 公告操作入口
// @Router /announcements [post]
func (h *AnnouncementHandler) PostAnnouncement(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}

	switch req.Action {
	case "close":
		h.close(c)
	case "record_view":
		h.recordView(c)
	case "delete":
		h.delete(c, req.AdminCode)
	case "delete_all":
		h.deleteAll(c, req.AdminCode)
	case "get_stats":
		h.getStats(c, req.AdminCode)
	case "track_visit":
		trackVisit(c, h.systemService, h.logger)
	default:
		unknownAction(c)
	}
}

func (h *AnnouncementHandler) targetID(c *gin.Context) (int64, bool) {
	var body types.AnnouncementActionRequest
	if !bindBody(c, &body) {
		return 0, false
	}
	id := body.TargetID()
	if id <= 0 {
		RespondError(c, http.StatusBadRequest, constants.ErrMissingAnnouncementID)
		return 0, false
	}
	return id, true
}

func (h *AnnouncementHandler) close(c *gin.Context) {
	id, ok := h.targetID(c)
	if !ok {
		return
	}
	if err := h.announcementService.CloseAnnouncement(c.Request.Context(), id); err != nil {
		HandleServiceError(c, h.logger, "关闭公告失败", err)
		return
	}
	success(c, nil)
}

func (h *AnnouncementHandler) recordView(c *gin.Context) {
	id, ok := h.targetID(c)
	if !ok {
		return
	}
	if err := h.announcementService.RecordView(c.Request.Context(), id); err != nil {
		HandleServiceError(c, h.logger, "记录浏览失败", err)
		return
	}
	success(c, nil)
}

func (h *AnnouncementHandler) delete(c *gin.Context, adminCode string) {
	if !authorize(c, h.adminService, h.logger, adminCode) {
		return
	}
	id, ok := h.targetID(c)
	if !ok {
		return
	}
	deleted, err := h.announcementService.DeleteAnnouncement(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.logger, "删除公告失败", err)
		return
	}
	if !deleted {
		RespondError(c, http.StatusNotFound, constants.ErrAnnouncementNotFound)
		return
	}
	success(c, nil)
}

func (h *AnnouncementHandler) deleteAll(c *gin.Context, adminCode string) {
	if !authorize(c, h.adminService, h.logger, adminCode) {
		return
	}
	n, err := h.announcementService.DeleteAllAnnouncements(c.Request.Context())
	if err != nil {
		HandleServiceError(c, h.logger, "删除全部公告失败", err)
		return
	}
	success(c, gin.H{"deleted": n})
}

func (h *AnnouncementHandler) getStats(c *gin.Context, adminCode string) {
	if !authorize(c, h.adminService, h.logger, adminCode) {
		return
	}
	stats, err := h.systemService.GetStats(c.Request.Context())
	if err != nil {
		HandleServiceError(c, h.logger, "获取统计失败", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
