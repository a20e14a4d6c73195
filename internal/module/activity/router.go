package activity

import (
	"github.com/gin-gonic/gin"

	"crop-tracking-system/internal/global/middleware"
)

func (m *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	// 定义农事记录模块的路由组，所有端点以 /activity 为前缀
	activityGroup := r.Group("/activity")

	authGroup := activityGroup.Use(middleware.Auth())
	{
		// 为指定作物新增农事记录
		authGroup.POST("/create/:crop_id", CreateActivity)
		// 获取某作物的农事记录列表
		authGroup.GET("/list/:crop_id", ListActivities)
		// 获取农事记录详情
		authGroup.GET("/:id", GetActivity)
		// 删除农事记录（农事记录不支持修改，只能删除后重录）
		authGroup.DELETE("/delete/:id", DeleteActivity)
	}
}
