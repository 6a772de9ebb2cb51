package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/constants"
	"helpboard/internal/service"
	"helpboard/internal/types"
	"helpboard/pkg/logger"
)

// ResponseHandler 回复与消息处理器
type ResponseHandler struct {
	responseService *service.ResponseService
	logger          *logger.Logger
}

// NewResponseHandler 创建回复处理器
func NewResponseHandler(responseService *service.ResponseService, logger *logger.Logger) *ResponseHandler {
	return &ResponseHandler{
		responseService: responseService,
		logger:          logger,
	}
}

// GetResponses response_id返回消息列表，announcement_id返回回复列表
// @Router /responses [get]
func (h *ResponseHandler) GetResponses(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("response_id"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			RespondError(c, http.StatusBadRequest, constants.ErrInvalidRequest)
			return
		}
		messages, err := h.responseService.GetMessages(ctx, id)
		if err != nil {
			HandleServiceError(c, h.logger, "获取消息失败", err)
			return
		}
		c.JSON(http.StatusOK, messages)
		return
	}

	if raw := c.Query("announcement_id"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			RespondError(c, http.StatusBadRequest, constants.ErrInvalidRequest)
			return
		}
		responses, err := h.responseService.GetResponses(ctx, id)
		if err != nil {
			HandleServiceError(c, h.logger, "获取回复失败", err)
			return
		}
		c.JSON(http.StatusOK, responses)
		return
	}

	RespondError(c, http.StatusBadRequest, constants.ErrInvalidRequest)
}

// PostResponse 回复操作入口
// @Router /responses [post]
func (h *ResponseHandler) PostResponse(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "create_response":
		var body types.CreateResponseRequest
		if !bindBody(c, &body) {
			return
		}
		id, err := h.responseService.CreateResponse(ctx, service.CreateResponseInput{
			AnnouncementID:   body.AnnouncementID.Int64(),
			ResponderName:    body.ResponderName,
			ResponderContact: body.ResponderContact,
			Message:          body.Message,
		})
		if err != nil {
			HandleServiceError(c, h.logger, "创建回复失败", err)
			return
		}
		success(c, gin.H{"response_id": id})
	case "send_message":
		var body types.SendMessageRequest
		if !bindBody(c, &body) {
			return
		}
		id, err := h.responseService.SendMessage(ctx, service.SendMessageInput{
			ResponseID: body.ResponseID.Int64(),
			SenderName: body.SenderName,
			Message:    body.Message,
		})
		if err != nil {
			HandleServiceError(c, h.logger, "发送消息失败", err)
			return
		}
		success(c, gin.H{"message_id": id})
	default:
		unknownAction(c)
	}
}
