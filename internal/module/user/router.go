package user

import (
	"github.com/gin-gonic/gin"

	"crop-tracking-system/internal/global/middleware"
)

// InitRouter 初始化用户模块的路由
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	// 定义用户模块的路由组，所有用户相关端点以 /user 为前缀
	userGroup := r.Group("/user")

	// 注册与登录无需认证
	userGroup.POST("/register", Register)
	userGroup.POST("/login", Login)

	authGroup := userGroup.Use(middleware.Auth())
	{
		// 获取当前登录用户信息
		authGroup.GET("/me", Me)
	}
}
