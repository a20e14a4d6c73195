package dashboard

import (
	"github.com/gin-gonic/gin"

	"crop-tracking-system/internal/global/middleware"
)

func (m *ModuleDashboard) InitRouter(r *gin.RouterGroup) {
	dashboardGroup := r.Group("/dashboard")

	authGroup := dashboardGroup.Use(middleware.Auth())
	{
		// 仪表盘统计
		authGroup.GET("", GetDashboard)
	}
}
