package test

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"crop-tracking-system/config"
	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/model"
	"crop-tracking-system/tools"
)

// SetupDB 为单个测试准备独立的内存数据库并注入测试配置
// 库名带上测试名，避免并行测试间互相污染
func SetupDB(t *testing.T) {
	config.SetForTest(&config.Config{
		Mode: config.ModeDebug,
		JWT: config.JWT{
			AccessSecret: "test-secret",
			AccessExpire: 3600,
		},
		// 测试里不启用 Redis 缓存，仪表盘直查数据库
		Redis: config.Redis{DashboardTTL: 0},
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	// 内存库必须限制为单连接，否则连接池会各开一个空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	t.Cleanup(func() {
		_ = sqlDB.Close()
		database.DB = nil
	})
}

// CreateUser 插入一个用户并返回其 JWT 载荷
func CreateUser(t *testing.T, email, role string) (*model.User, *jwt.Claims) {
	hash, err := tools.PasswordHash("password123")
	require.NoError(t, err)

	user := &model.User{
		Email:    email,
		Password: hash,
		Name:     "测试用户",
		Role:     role,
	}
	require.NoError(t, database.DB.Create(user).Error)

	return user, &jwt.Claims{
		Payload: jwt.Payload{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		},
	}
}

// CreateCrop 插入一条作物记录
func CreateCrop(t *testing.T, ownerID uint, status string) *model.Crop {
	crop := &model.Crop{
		Name:                "North Field Corn",
		Type:                "corn",
		PlantingDate:        model.NewDate(2024, 4, 15),
		ExpectedHarvestDate: model.NewDate(2024, 9, 15),
		FieldLocation:       "North Field, Plot A",
		Status:              status,
		UserID:              ownerID,
	}
	require.NoError(t, database.DB.Create(crop).Error)
	return crop
}

// CreateActivity 插入一条农事记录
func CreateActivity(t *testing.T, cropID uint) *model.CropActivity {
	quantity := 100.0
	unit := "liters"
	activity := &model.CropActivity{
		CropID:       cropID,
		ActivityDate: model.NewDate(2024, 1, 20),
		ActivityType: model.ActivityIrrigation,
		Description:  "Watered",
		Quantity:     &quantity,
		Unit:         &unit,
	}
	require.NoError(t, database.DB.Create(activity).Error)
	return activity
}
