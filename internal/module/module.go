package module

import (
	"github.com/gin-gonic/gin"

	"crop-tracking-system/internal/module/activity"
	"crop-tracking-system/internal/module/crop"
	"crop-tracking-system/internal/module/dashboard"
	"crop-tracking-system/internal/module/ping"
	"crop-tracking-system/internal/module/user"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&crop.ModuleCrop{},
		&activity.ModuleActivity{},
		&dashboard.ModuleDashboard{},
	})
}
