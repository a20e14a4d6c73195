package database

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"crop-tracking-system/config"
	"crop-tracking-system/internal/global/sentry/tracing"
	"crop-tracking-system/internal/model"
	"crop-tracking-system/tools"
)

var DB *gorm.DB

// autoMigrateModels 定义需要自动迁移的模型列表
var autoMigrateModels = []any{
	&model.User{},
	&model.Crop{},
	&model.CropActivity{},
	// 在这里添加其他模型
}

func Init() {
	dsnConfig := mysql.NewConfig()
	dsnConfig.User = config.Get().Mysql.Username
	dsnConfig.Passwd = config.Get().Mysql.Password
	dsnConfig.Net = "tcp"
	dsnConfig.Addr = fmt.Sprintf("%s:%s", config.Get().Mysql.Host, config.Get().Mysql.Port)
	dsnConfig.DBName = config.Get().Mysql.DBName
	dsnConfig.ParseTime = true
	dsnConfig.Loc = time.Local
	dsnConfig.Params = map[string]string{"charset": "utf8mb4"}
	dsn := dsnConfig.FormatDSN()
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 表名由模型的 TableName 显式指定
	}

	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(gormmysql.Open(dsn), gormConfig)
	tools.PanicOnErr(err)

	// Sentry 慢 SQL 追踪
	if config.Get().Sentry.Dsn != "" {
		tools.PanicOnErr(db.Use(tracing.NewGormTracingPlugin()))
	}

	DB = db

	// 使用模型列表进行自动迁移
	tools.PanicOnErr(DB.AutoMigrate(autoMigrateModels...))
}

// Migrate 对外暴露迁移入口，测试环境用 sqlite 建表时复用同一份模型列表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(autoMigrateModels...)
}
