package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/constants"
	"helpboard/internal/service"
	"helpboard/internal/types"
	"helpboard/pkg/logger"
)

// CelebrityHandler 名人请求处理器
type CelebrityHandler struct {
	celebrityService *service.CelebrityService
	adminService     *service.AdminService
	logger           *logger.Logger
}

// NewCelebrityHandler 创建名人请求处理器
func NewCelebrityHandler(celebrityService *service.CelebrityService, adminService *service.AdminService, logger *logger.Logger) *CelebrityHandler {
	return &CelebrityHandler{
		celebrityService: celebrityService,
		adminService:     adminService,
		logger:           logger,
	}
}

// GetRequests 公开列表隐藏联系方式和备注
// @Router /celebrities [get]
func (h *CelebrityHandler) GetRequests(c *gin.Context) {
	ctx := c.Request.Context()

	isAdmin, ok := adminView(c, h.adminService, h.logger)
	if !ok {
		return
	}
	if isAdmin {
		requests, err := h.celebrityService.GetAllRequests(ctx)
		if err != nil {
			HandleServiceError(c, h.logger, "获取全部请求失败", err)
			return
		}
		c.JSON(http.StatusOK, requests)
		return
	}

	requests, err := h.celebrityService.GetPublicRequests(ctx)
	if err != nil {
		HandleServiceError(c, h.logger, "获取请求列表失败", err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// PostRequest 名人请求操作入口
// @Router /celebrities [post]
func (h *CelebrityHandler) PostRequest(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "create_request":
		var body types.CreateCelebrityRequest
		if !bindBody(c, &body) {
			return
		}
		result, err := h.celebrityService.CreateRequest(ctx, service.CreateRequestInput{
			RequesterName:    body.RequesterName,
			RequesterContact: body.RequesterContact,
			CelebrityName:    body.CelebrityName,
			RequestText:      body.RequestText,
		})
		if err != nil {
			HandleServiceError(c, h.logger, "创建名人请求失败", err)
			return
		}
		success(c, gin.H{
			"request_id": result.RequestID,
			"amount":     result.Amount,
			"ozon_card":  result.OzonCard,
			"message":    result.Message,
		})
	case "update_status":
		if !authorize(c, h.adminService, h.logger, req.AdminCode) {
			return
		}
		var body types.UpdateStatusRequest
		if !bindBody(c, &body) {
			return
		}
		if body.RequestID <= 0 {
			RespondError(c, http.StatusBadRequest, constants.ErrMissingRequestID)
			return
		}
		if err := h.celebrityService.UpdateStatus(ctx, body.RequestID.Int64(), body.Status, body.AdminNotes); err != nil {
			HandleServiceError(c, h.logger, "更新请求状态失败", err)
			return
		}
		success(c, nil)
	default:
		unknownAction(c)
	}
}
