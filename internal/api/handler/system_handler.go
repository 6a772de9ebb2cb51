package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/service"
	"helpboard/pkg/logger"
)

// SystemHandler 访问统计处理器
type SystemHandler struct {
	systemService *service.SystemService
	logger        *logger.Logger
}

// NewSystemHandler 创建访问统计处理器实例
func NewSystemHandler(systemService *service.SystemService, logger *logger.Logger) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		logger:        logger,
	}
}

// PostVisit 记录访问
// @Router /visits [post]
func (h *SystemHandler) PostVisit(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}
	if req.Action != "track_visit" {
		unknownAction(c)
		return
	}
	trackVisit(c, h.systemService, h.logger)
}

// Health 健康检查
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func trackVisit(c *gin.Context, systemService *service.SystemService, log *logger.Logger) {
	if err := systemService.TrackVisit(c.Request.Context(), c.ClientIP(), c.Request.UserAgent()); err != nil {
		HandleServiceError(c, log, "记录访问失败", err)
		return
	}
	success(c, nil)
}
