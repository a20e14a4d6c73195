package ping

import (
	"time"

	"github.com/gin-gonic/gin"

	"crop-tracking-system/internal/global/response"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		result := map[string]interface{}{
			"message":   "pong",
			"version":   "1.0.0",
			"timestamp": time.Now().Format(time.RFC3339),
		}
		response.Success(c, result)
	})
}
