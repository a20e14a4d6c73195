package crop

import (
	"github.com/gin-gonic/gin"

	"crop-tracking-system/internal/global/middleware"
)

func (m *ModuleCrop) InitRouter(r *gin.RouterGroup) {
	// 定义作物模块的路由组，所有作物相关端点以 /crop 为前缀
	cropGroup := r.Group("/crop")

	authGroup := cropGroup.Use(middleware.Auth())
	{
		// 获取作物列表（按角色限定范围，固定每页 10 条）
		authGroup.GET("/list", ListCrops)
		// 导出作物列表
		authGroup.GET("/export", ExportCrops)
		// 获取作物详情（含所有者与农事记录）
		authGroup.GET("/:id", GetCrop)
		// 创建作物
		authGroup.POST("/create", CreateCrop)
		// 更新作物
		authGroup.PUT("/update/:id", UpdateCrop)
		// 删除作物（级联删除农事记录）
		authGroup.DELETE("/delete/:id", DeleteCrop)
	}
}
