package dashboard

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crop-tracking-system/config"
	"crop-tracking-system/internal/global/cache"
	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/global/policy"
	"crop-tracking-system/internal/global/response"
	"crop-tracking-system/internal/model"
)

// recentLimit 最近记录的条数
const recentLimit = 5

// Stats 仪表盘统计数字
type Stats struct {
	TotalCrops      int64 `json:"totalCrops"`      // 范围内作物总数
	ActiveCrops     int64 `json:"activeCrops"`     // 未收获的作物数
	ReadyForHarvest int64 `json:"readyForHarvest"` // 待收获的作物数
	TotalActivities int64 `json:"totalActivities"` // 范围内农事记录总数
}

// Overview 仪表盘完整数据
type Overview struct {
	Stats            Stats                `json:"stats"`
	RecentCrops      []model.Crop         `json:"recentCrops"`
	RecentActivities []model.CropActivity `json:"recentActivities"`
}

// cacheKey 管理员共用一个键，farmer 按用户隔离
func cacheKey(payload *jwt.Claims) string {
	if policy.IsAdmin(payload) {
		return "dashboard:admin"
	}
	return fmt.Sprintf("dashboard:user:%d", payload.UserID)
}

// InvalidateCache 作物/农事记录发生任何写操作后调用
// 管理员视图覆盖全部数据，所以同时失效
func InvalidateCache(ownerID uint) {
	err := cache.Delete("dashboard:admin", fmt.Sprintf("dashboard:user:%d", ownerID))
	if err != nil {
		log.Warn("仪表盘缓存失效失败", "error", err, "owner_id", ownerID)
	}
}

// GetDashboard 返回当前用户可见范围内的统计数据
// 所有统计在同一事务内用同一份范围条件计算，保证各数字出自一致的快照
func GetDashboard(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	key := cacheKey(payload)
	ttl := time.Duration(config.Get().Redis.DashboardTTL) * time.Second

	if ttl > 0 {
		var cached Overview
		if err := cache.Get(key, &cached); err == nil {
			response.Success(c, cached)
			return
		}
	}

	var result Overview
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		cropScope := policy.CropScope(payload)
		activityScope := policy.ActivityScope(payload)

		if err := tx.Model(&model.Crop{}).Scopes(cropScope).
			Count(&result.Stats.TotalCrops).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Crop{}).Scopes(cropScope).
			Where("status <> ?", model.CropStatusHarvested).
			Count(&result.Stats.ActiveCrops).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Crop{}).Scopes(cropScope).
			Where("status = ?", model.CropStatusHarvestReady).
			Count(&result.Stats.ReadyForHarvest).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CropActivity{}).Scopes(activityScope).
			Count(&result.Stats.TotalActivities).Error; err != nil {
			return err
		}

		if err := tx.Scopes(cropScope).
			Preload("User").
			Order("created_at DESC, id DESC").
			Limit(recentLimit).
			Find(&result.RecentCrops).Error; err != nil {
			return err
		}
		return tx.Scopes(activityScope).
			Preload("Crop").
			Preload("Crop.User").
			Order("created_at DESC, id DESC").
			Limit(recentLimit).
			Find(&result.RecentActivities).Error
	})
	if err != nil {
		log.Error("统计仪表盘数据失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if ttl > 0 {
		if err := cache.Set(key, result, ttl); err != nil {
			log.Warn("写入仪表盘缓存失败", "error", err, "key", key)
		}
	}

	log.Info("仪表盘统计成功",
		"user_id", payload.UserID,
		"total_crops", result.Stats.TotalCrops,
		"total_activities", result.Stats.TotalActivities,
	)

	response.Success(c, result)
}
