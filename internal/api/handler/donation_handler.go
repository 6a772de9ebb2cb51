package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpboard/internal/constants"
	"helpboard/internal/service"
	"helpboard/internal/types"
	"helpboard/pkg/logger"
)

// DonationHandler 捐赠处理器
type DonationHandler struct {
	donationService *service.DonationService
	adminService    *service.AdminService
	logger          *logger.Logger
}

// NewDonationHandler 创建捐赠处理器
func NewDonationHandler(donationService *service.DonationService, adminService *service.AdminService, logger *logger.Logger) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		adminService:    adminService,
		logger:          logger,
	}
}

// GetDonations 无有效管理员凭证时只返回公开列表
// @Router /donations [get]
func (h *DonationHandler) GetDonations(c *gin.Context) {
	ctx := c.Request.Context()

	isAdmin, ok := adminView(c, h.adminService, h.logger)
	if !ok {
		return
	}
	if isAdmin {
		donations, err := h.donationService.GetAllDonations(ctx)
		if err != nil {
			HandleServiceError(c, h.logger, "获取全部捐赠失败", err)
			return
		}
		c.JSON(http.StatusOK, donations)
		return
	}

	donations, err := h.donationService.GetPublicDonations(ctx)
	if err != nil {
		HandleServiceError(c, h.logger, "获取捐赠列表失败", err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// PostDonation 捐赠操作入口
// @Router /donations [post]
func (h *DonationHandler) PostDonation(c *gin.Context) {
	req, ok := bindAction(c)
	if !ok {
		return
	}

	switch req.Action {
	case "create_donation":
		h.createDonation(c)
	case "assign_donation":
		h.assignDonation(c, req.AdminCode)
	case "confirm_donation":
		h.confirmDonation(c, req.AdminCode)
	default:
		unknownAction(c)
	}
}

func (h *DonationHandler) createDonation(c *gin.Context) {
	var body types.CreateDonationRequest
	if !bindBody(c, &body) {
		return
	}
	result, err := h.donationService.CreateDonation(c.Request.Context(), service.CreateDonationInput{
		DonorName:    body.DonorName,
		DonorContact: body.DonorContact,
		Amount:       body.Amount,
		Message:      body.Message,
	})
	if err != nil {
		HandleServiceError(c, h.logger, "创建捐赠失败", err)
		return
	}
	success(c, gin.H{
		"donation_id": result.DonationID,
		"payment_url": result.PaymentURL,
		"ozon_card":   result.OzonCard,
		"message":     result.Message,
	})
}

func (h *DonationHandler) assignDonation(c *gin.Context, adminCode string) {
	if !authorize(c, h.adminService, h.logger, adminCode) {
		return
	}
	var body types.AssignDonationRequest
	if !bindBody(c, &body) {
		return
	}
	if body.DonationID <= 0 {
		RespondError(c, http.StatusBadRequest, constants.ErrMissingDonationID)
		return
	}
	if err := h.donationService.AssignDonation(c.Request.Context(), body.DonationID.Int64(), body.AssignedTo, body.AdminNotes); err != nil {
		HandleServiceError(c, h.logger, "分配捐赠失败", err)
		return
	}
	success(c, nil)
}

func (h *DonationHandler) confirmDonation(c *gin.Context, adminCode string) {
	if !authorize(c, h.adminService, h.logger, adminCode) {
		return
	}
	var body types.AssignDonationRequest
	if !bindBody(c, &body) {
		return
	}
	if body.DonationID <= 0 {
		RespondError(c, http.StatusBadRequest, constants.ErrMissingDonationID)
		return
	}
	if err := h.donationService.ConfirmDonation(c.Request.Context(), body.DonationID.Int64()); err != nil {
		HandleServiceError(c, h.logger, "确认捐赠失败", err)
		return
	}
	success(c, nil)
}
