package admin

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员API路由，认证中间件由调用方挂载
func RegisterAdminRoutes(router gin.IRouter, announcementAdminHandler *AnnouncementAdminHandler) {
	router.GET("/announcements", announcementAdminHandler.GetAdminAnnouncements)
}
