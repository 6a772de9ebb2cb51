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

// PaymentHandler 公告付款处理器
type PaymentHandler struct {
	paymentService *service.PaymentService
	adminService   *service.AdminService
	logger         *logger.Logger
}

// NewPaymentHandler 创建付款处理器
func NewPaymentHandler(paymentService *service.PaymentService, adminService *service.AdminService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		adminService:   adminService,
		logger:         logger,
	}
}

type paymentResponse struct {
	Success bool `json:"success"`
	*model.PaymentResult
}

// PostPayment 付款操作入口
// @Router /payments [post]
func (h *PaymentHandler) PostPayment(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}

	switch req.Action {
	case "create_payment":
		h.createPayment(c)
	case "check_payment":
		h.checkPayment(c)
	case "confirm_payment":
		h.confirmPayment(c, req.AdminCode)
	default:
		unknownAction(c)
	}
}

func (h *PaymentHandler) createPayment(c *gin.Context) {
	var body types.CreatePaymentRequest
	if !bindBody(c, &body) {
		return
	}

	result, err := h.paymentService.CreatePayment(c.Request.Context(), service.CreatePaymentInput{
		Title:         body.Title,
		Description:   body.Description,
		Category:      body.Category,
		AuthorName:    body.AuthorName,
		AuthorContact: body.AuthorContact,
		Type:          body.Type,
	})
	if err != nil {
		HandleServiceError(c, h.logger, "创建付费公告失败", err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse{Success: true, PaymentResult: result})
}

func (h *PaymentHandler) announcementID(c *gin.Context) (int64, bool) {
	var body types.PaymentActionRequest
	if !bindBody(c, &body) {
		return 0, false
	}
	if body.AnnouncementID <= 0 {
		RespondError(c, http.StatusBadRequest, constants.ErrMissingAnnouncementID)
		return 0, false
	}
	return body.AnnouncementID.Int64(), true
}

func (h *PaymentHandler) checkPayment(c *gin.Context) {
	id, ok := h.announcementID(c)
	if !ok {
		return
	}
	result, err := h.paymentService.CheckPayment(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.logger, "查询支付状态失败", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) confirmPayment(c *gin.Context, adminCode string) {
	if !authorize(c, h.adminService, h.logger, adminCode) {
		return
	}
	id, ok := h.announcementID(c)
	if !ok {
		return
	}
	result, err := h.paymentService.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, h.logger, "确认支付失败", err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse{Success: true, PaymentResult: result})
}
