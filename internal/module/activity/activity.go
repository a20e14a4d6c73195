package activity

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/global/policy"
	"crop-tracking-system/internal/global/response"
	"crop-tracking-system/internal/global/validate"
	"crop-tracking-system/internal/model"
	"crop-tracking-system/internal/module/dashboard"
)

// ActivityCreateReq 定义创建农事记录请求的结构体
type ActivityCreateReq struct {
	ActivityDate string   `json:"activity_date" binding:"required,datetime=2006-01-02"`                                             // 执行日期
	ActivityType string   `json:"activity_type" binding:"required,oneof=irrigation fertilization pest_control scouting weeding harvesting other"` // 农事类型
	Description  string   `json:"description" binding:"required"`                                                                   // 操作说明
	Quantity     *float64 `json:"quantity" binding:"omitempty,gte=0"`                                                               // 用量，可选，非负
	Unit         *string  `json:"unit" binding:"omitempty,max=50"`                                                                  // 计量单位，可选
}

var activityMessages = map[string]string{
	"ActivityDate.required": "执行日期不能为空",
	"ActivityDate.datetime": "执行日期格式不正确",
	"ActivityType.required": "农事类型不能为空",
	"ActivityType.oneof":    "农事类型不合法",
	"Description.required":  "操作说明不能为空",
	"Quantity.gte":          "用量不能为负数",
	"Unit.max":              "计量单位长度不能超过50个字符",
}

// getIDParam 解析路径中的记录 ID
func getIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("记录ID不合法"))
		return 0, false
	}
	return uint(id), true
}

// loadParentCrop 加载父级作物并完成权限检查
// 作物不存在返回 NotFound，无权限返回 Forbidden，两者不可混淆
func loadParentCrop(c *gin.Context, payload *jwt.Claims, cropID uint) (*model.Crop, bool) {
	var crop model.Crop
	if err := database.DB.First(&crop, "id = ?", cropID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("作物不存在", "crop_id", cropID)
			response.Fail(c, response.ErrNotFound.WithTips("作物不存在"))
			return nil, false
		}
		log.Error("查询作物失败", "error", err, "crop_id", cropID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}

	if !policy.CanManageActivity(payload, &crop) {
		log.Warn("无权限操作该作物的农事记录",
			"crop_id", cropID,
			"owner_id", crop.UserID,
			"user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限操作该作物的农事记录"))
		return nil, false
	}
	return &crop, true
}

// CreateActivity 为指定作物新增农事记录
func CreateActivity(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	cropID, ok := getIDParam(c, "crop_id")
	if !ok {
		return
	}

	// 权限与存在性检查先于校验和写入
	crop, ok := loadParentCrop(c, payload, cropID)
	if !ok {
		return
	}

	var req ActivityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建农事记录请求失败", "error", err, "crop_id", cropID)
		response.Fail(c, validate.Translate(err, activityMessages))
		return
	}

	activityDate, err := model.ParseDate(req.ActivityDate)
	if err != nil {
		response.Fail(c, response.ErrValidation.WithFields(map[string]string{
			"activity_date": "执行日期格式不正确",
		}))
		return
	}

	activity := model.CropActivity{
		CropID:       crop.ID, // 归属只能是路径中的作物
		ActivityDate: activityDate,
		ActivityType: req.ActivityType,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		log.Error("创建农事记录失败", "error", err, "crop_id", cropID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	dashboard.InvalidateCache(crop.UserID)

	log.Info("农事记录创建成功",
		"activity_id", activity.ID,
		"crop_id", crop.ID,
		"type", activity.ActivityType,
	)

	response.Success(c, activity)
}

// ListActivities 获取某作物的农事记录，按执行日期倒序
func ListActivities(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	cropID, ok := getIDParam(c, "crop_id")
	if !ok {
		return
	}

	crop, ok := loadParentCrop(c, payload, cropID)
	if !ok {
		return
	}

	var activities []model.CropActivity
	if err := database.DB.
		Where("crop_id = ?", crop.ID).
		Order("activity_date DESC, id DESC").
		Find(&activities).Error; err != nil {
		log.Error("获取农事记录列表失败", "error", err, "crop_id", crop.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"activities": activities,
		"total":      len(activities),
	})
}

// GetActivity 获取农事记录详情，权限沿父级作物判定
func GetActivity(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var activity model.CropActivity
	if err := database.DB.
		Preload("Crop").
		Preload("Crop.User").
		First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("农事记录不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("农事记录不存在"))
			return
		}
		log.Error("查询农事记录失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !policy.CanManageActivity(payload, &activity.Crop) {
		log.Warn("无权限查看农事记录", "id", id, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限查看该农事记录"))
		return
	}

	response.Success(c, activity)
}

// DeleteActivity 删除农事记录
func DeleteActivity(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var activity model.CropActivity
	if err := database.DB.
		Preload("Crop").
		First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("农事记录不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("农事记录不存在"))
			return
		}
		log.Error("查询农事记录失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !policy.CanManageActivity(payload, &activity.Crop) {
		log.Warn("无权限删除农事记录", "id", id, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限删除该农事记录"))
		return
	}

	if err := database.DB.Delete(&activity).Error; err != nil {
		log.Error("删除农事记录失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	dashboard.InvalidateCache(activity.Crop.UserID)

	log.Info("农事记录删除成功", "activity_id", activity.ID, "crop_id", activity.CropID)

	response.Success(c)
}
