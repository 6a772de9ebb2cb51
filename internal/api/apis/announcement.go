package apis

import (
	"github.com/gin-gonic/gin"

	"helpboard/internal/api/handler"
)

// RegisterAnnouncementRoutes 注册公告与付款路由
func RegisterAnnouncementRoutes(router gin.IRouter, announcementHandler *handler.AnnouncementHandler, paymentHandler *handler.PaymentHandler) {
	router.GET("/announcements", announcementHandler.GetAnnouncements)
	router.POST("/announcements", announcementHandler.PostAnnouncement)
	router.POST("/payments", paymentHandler.PostPayment)
}

// RegisterResponseRoutes 注册回复与消息路由
func RegisterResponseRoutes(router gin.IRouter, responseHandler *handler.ResponseHandler) {
	router.GET("/responses", responseHandler.GetResponses)
	router.POST("/responses", responseHandler.PostResponse)
}

// RegisterCharityRoutes 注册捐赠和名人请求路由
func RegisterCharityRoutes(router gin.IRouter, donationHandler *handler.DonationHandler, celebrityHandler *handler.CelebrityHandler) {
	router.GET("/donations", donationHandler.GetDonations)
	router.POST("/donations", donationHandler.PostDonation)
	router.GET("/celebrities", celebrityHandler.GetRequests)
	router.POST("/celebrities", celebrityHandler.PostRequest)
}
