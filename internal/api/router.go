package api

import (
	"github.com/gin-gonic/gin"

	"helpboard/config"
	"helpboard/internal/api/admin"
	"helpboard/internal/api/apis"
	"helpboard/internal/api/handler"
	"helpboard/internal/middleware"
	"helpboard/pkg/logger"
)

// SetupRouter 设置API路由
func SetupRouter(cfg *config.Config, logger *logger.Logger, services *Services) *gin.Engine {
	// 创建Gin引擎
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("代理配置无效", "error", err)
	}

	// 使用中间件
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	router.NoMethod(handler.MethodNotAllowed)
	router.NoRoute(handler.NotFound)

	// 初始化处理器
	handlers := apis.Handlers{
		Announcement: handler.NewAnnouncementHandler(services.Announcement, services.System, services.Admin, logger),
		Payment:      handler.NewPaymentHandler(services.Payment, services.Admin, logger),
		Response:     handler.NewResponseHandler(services.Response, logger),
		Donation:     handler.NewDonationHandler(services.Donation, services.Admin, logger),
		Celebrity:    handler.NewCelebrityHandler(services.Celebrity, services.Admin, logger),
		System:       handler.NewSystemHandler(services.System, logger),
		Admin:        handler.NewAdminHandler(services.Admin, logger),
	}
	apis.RegisterPublicRoutes(router, handlers)

	// 注册管理员API路由
	adminRouter := router.Group("/admin")
	adminRouter.Use(middleware.AdminAuth(services.Admin))
	admin.RegisterAdminRoutes(adminRouter, admin.NewAnnouncementAdminHandler(services.Announcement, logger))

	return router
}
