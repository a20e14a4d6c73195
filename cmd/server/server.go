package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"crop-tracking-system/config"
	"crop-tracking-system/internal/global/cache"
	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/httpclient"
	"crop-tracking-system/internal/global/logger"
	"crop-tracking-system/internal/global/middleware"
	internalOtel "crop-tracking-system/internal/global/otel"
	internalSentry "crop-tracking-system/internal/global/sentry"
	"crop-tracking-system/internal/module"
	"crop-tracking-system/tools"
)

var log *slog.Logger

func Init() {
	config.Init()

	if config.Get().Sentry.Dsn != "" {
		tools.PanicOnErr(internalSentry.Init())
	}

	log = logger.New("Server")

	database.Init()

	// Redis 不可用时仅告警，仪表盘缓存自动降级为直查数据库
	if err := cache.Init(); err != nil {
		log.Warn("Redis 连接失败，缓存已禁用", "error", err)
	}

	httpclient.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		internalOtel.Init()
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	if config.Get().Sentry.Dsn != "" {
		r.Use(internalSentry.Middleware())
		r.Use(middleware.SentryEnrichIP())
	}

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
		defer func() {
			if err := internalOtel.Shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown TracerProvider", "error", err)
			}
		}()
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}

	defer internalSentry.Flush(2 * time.Second)

	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
