package apis

import (
	"github.com/gin-gonic/gin"

	"helpboard/internal/api/handler"
)

// Handlers 公开接口用到的处理器
type Handlers struct {
	Announcement *handler.AnnouncementHandler
	Payment      *handler.PaymentHandler
	Response     *handler.ResponseHandler
	Donation     *handler.DonationHandler
	Celebrity    *handler.CelebrityHandler
	System       *handler.SystemHandler
	Admin        *handler.AdminHandler
}

// RegisterPublicRoutes 注册所有公开路由
func RegisterPublicRoutes(router gin.IRouter, h Handlers) {
	router.GET("/health", h.System.Health)
	router.POST("/visits", h.System.PostVisit)
	router.POST("/admin", h.Admin.PostAdmin)

	RegisterAnnouncementRoutes(router, h.Announcement, h.Payment)
	RegisterResponseRoutes(router, h.Response)
	RegisterCharityRoutes(router, h.Donation, h.Celebrity)
}
