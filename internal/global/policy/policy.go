// Package policy 集中处理作物与农事记录的所有权判定
// 所有读写作物/农事记录的接口都必须经过这里，不允许各 handler 自行比对角色
package policy

import (
	"gorm.io/gorm"

	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/model"
)

// IsAdmin 管理员对任意记录都有权限
func IsAdmin(principal *jwt.Claims) bool {
	return principal != nil && principal.Role == model.RoleAdmin
}

// CanManageCrop 判定 principal 能否读写指定作物
// 管理员恒许可，其余用户仅限自己名下的作物
func CanManageCrop(principal *jwt.Claims, crop *model.Crop) bool {
	if principal == nil || crop == nil {
		return false
	}
	if IsAdmin(principal) {
		return true
	}
	return crop.UserID == principal.UserID
}

// CanManageActivity 农事记录没有自己的所有者，权限沿父级作物判定
func CanManageActivity(principal *jwt.Claims, parent *model.Crop) bool {
	return CanManageCrop(principal, parent)
}

// CropScope 返回限定作物可见范围的查询条件
// 作为显式参数传入每个列表/统计查询（db.Scopes(...)），不走任何隐式全局状态
func CropScope(principal *jwt.Claims) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if IsAdmin(principal) {
			return db
		}
		return db.Where("user_id = ?", principal.UserID)
	}
}

// ActivityScope 限定农事记录可见范围：父级作物必须在 principal 的作物范围内
func ActivityScope(principal *jwt.Claims) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if IsAdmin(principal) {
			return db
		}
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.Crop{}).
			Select("id").
			Where("user_id = ?", principal.UserID)
		return db.Where("crop_id IN (?)", sub)
	}
}
