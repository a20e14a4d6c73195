package crop

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

// pageSize 作物列表固定每页条数
const pageSize = 10

// CropCreateReq 定义创建作物请求的结构体
type CropCreateReq struct {
	Name                string `json:"name" binding:"required,max=255"`                                                   // 作物批次名称
	Type                string `json:"type" binding:"required,max=255"`                                                   // 作物品种
	PlantingDate        string `json:"planting_date" binding:"required,datetime=2006-01-02"`                              // 播种日期
	ExpectedHarvestDate string `json:"expected_harvest_date" binding:"required,datetime=2006-01-02"`                      // 预计收获日期
	FieldLocation       string `json:"field_location" binding:"required,max=255"`                                         // 田块位置
	Status              string `json:"status" binding:"omitempty,oneof=planted seedling growing harvest_ready harvested"` // 生长状态，缺省为 planted
	Notes               string `json:"notes"`                                                                             // 备注，可选
}

// CropUpdateReq 更新请求与创建规则一致，status 缺省保持不变，notes 用指针区分"未提交"
type CropUpdateReq struct {
	Name                string  `json:"name" binding:"required,max=255"`
	Type                string  `json:"type" binding:"required,max=255"`
	PlantingDate        string  `json:"planting_date" binding:"required,datetime=2006-01-02"`
	ExpectedHarvestDate string  `json:"expected_harvest_date" binding:"required,datetime=2006-01-02"`
	FieldLocation       string  `json:"field_location" binding:"required,max=255"`
	Status              string  `json:"status" binding:"omitempty,oneof=planted seedling growing harvest_ready harvested"`
	Notes               *string `json:"notes"`
}

var cropMessages = map[string]string{
	"Name.required":                 "作物名称不能为空",
	"Name.max":                      "作物名称长度不能超过255个字符",
	"Type.required":                 "作物品种不能为空",
	"Type.max":                      "作物品种长度不能超过255个字符",
	"PlantingDate.required":         "播种日期不能为空",
	"PlantingDate.datetime":         "播种日期格式不正确",
	"ExpectedHarvestDate.required":  "预计收获日期不能为空",
	"ExpectedHarvestDate.datetime":  "预计收获日期格式不正确",
	"FieldLocation.required":        "田块位置不能为空",
	"FieldLocation.max":             "田块位置长度不能超过255个字符",
	"Status.oneof":                  "作物状态不合法",
}

// parseDates 解析并比较播种/收获日期
// 收获日期必须严格晚于播种日期，创建与更新同样适用
func parseDates(plantingDate, harvestDate string) (model.Date, model.Date, *response.Error) {
	planting, err := model.ParseDate(plantingDate)
	if err != nil {
		return model.Date{}, model.Date{}, response.ErrValidation.WithFields(map[string]string{
			"planting_date": "播种日期格式不正确",
		})
	}
	harvest, err := model.ParseDate(harvestDate)
	if err != nil {
		return model.Date{}, model.Date{}, response.ErrValidation.WithFields(map[string]string{
			"expected_harvest_date": "预计收获日期格式不正确",
		})
	}
	if !harvest.After(planting) {
		return model.Date{}, model.Date{}, response.ErrValidation.WithFields(map[string]string{
			"expected_harvest_date": "预计收获日期必须晚于播种日期",
		})
	}
	return planting, harvest, nil
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

// CreateCrop 处理创建作物请求，所有者固定为当前登录用户
func CreateCrop(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req CropCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建作物请求失败", "error", err)
		response.Fail(c, validate.Translate(err, cropMessages))
		return
	}

	planting, harvest, verr := parseDates(req.PlantingDate, req.ExpectedHarvestDate)
	if verr != nil {
		response.Fail(c, verr)
		return
	}

	status := req.Status
	if status == "" {
		status = model.CropStatusPlanted
	}

	crop := model.Crop{
		Name:                req.Name,
		Type:                req.Type,
		PlantingDate:        planting,
		ExpectedHarvestDate: harvest,
		FieldLocation:       req.FieldLocation,
		Status:              status,
		Notes:               req.Notes,
		UserID:              payload.UserID, // 所有者只能是创建人
	}

	if err := database.DB.Create(&crop).Error; err != nil {
		log.Error("创建作物失败", "error", err, "name", req.Name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	dashboard.InvalidateCache(crop.UserID)

	log.Info("作物创建成功",
		"crop_id", crop.ID,
		"name", crop.Name,
		"user_id", crop.UserID,
	)

	response.Success(c, crop)
}

// ListCrops 获取作物列表
// 管理员可见全部，farmer 仅可见自己的；按创建时间倒序，固定每页 10 条
func ListCrops(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	scope := policy.CropScope(payload)
	query := database.DB.Model(&model.Crop{}).Scopes(scope)

	// 计算总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取作物总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var crops []model.Crop
	offset := (page - 1) * pageSize
	if err := database.DB.Scopes(scope).
		Preload("User").
		Preload("Activities").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&crops).Error; err != nil {
		log.Error("获取作物列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	result := gin.H{
		"crops":       crops,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + pageSize - 1) / pageSize,
	}

	log.Info("获取作物列表成功",
		"count", len(crops),
		"total", total,
		"page", page)

	response.Success(c, result)
}

// GetCrop 获取作物详情，含所有者与按日期倒序的农事记录
func GetCrop(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var crop model.Crop
	if err := database.DB.First(&crop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("作物不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("作物不存在"))
			return
		}
		log.Error("查询作物失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 权限检查：读取也需要所有权或管理员
	if !policy.CanManageCrop(payload, &crop) {
		log.Warn("无权限查看作物", "id", id, "owner_id", crop.UserID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限查看该作物"))
		return
	}

	if err := database.DB.
		Preload("User").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("activity_date DESC, id DESC")
		}).
		First(&crop, "id = ?", id).Error; err != nil {
		log.Error("加载作物详情失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, crop)
}

// UpdateCrop 处理更新作物请求
func UpdateCrop(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var req CropUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新作物请求失败", "error", err, "id", id)
		response.Fail(c, validate.Translate(err, cropMessages))
		return
	}

	// 查询作物是否存在
	var crop model.Crop
	if err := database.DB.First(&crop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("作物不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("作物不存在"))
			return
		}
		log.Error("查询作物失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 权限检查必须在任何写入之前完成
	if !policy.CanManageCrop(payload, &crop) {
		log.Warn("无权限更新作物", "id", id, "owner_id", crop.UserID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限更新该作物"))
		return
	}

	planting, harvest, verr := parseDates(req.PlantingDate, req.ExpectedHarvestDate)
	if verr != nil {
		response.Fail(c, verr)
		return
	}

	crop.Name = req.Name
	crop.Type = req.Type
	crop.PlantingDate = planting
	crop.ExpectedHarvestDate = harvest
	crop.FieldLocation = req.FieldLocation
	if req.Status != "" {
		crop.Status = req.Status
	}
	if req.Notes != nil {
		crop.Notes = *req.Notes
	}

	if err := database.DB.Save(&crop).Error; err != nil {
		log.Error("更新作物失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	dashboard.InvalidateCache(crop.UserID)

	log.Info("作物更新成功",
		"crop_id", crop.ID,
		"name", crop.Name,
	)

	response.Success(c, crop)
}

// DeleteCrop 处理删除作物请求
// 农事记录与作物在同一事务内删除，保证不产生孤儿记录
func DeleteCrop(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var crop model.Crop
	if err := database.DB.First(&crop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("作物不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("作物不存在"))
			return
		}
		log.Error("查询作物失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !policy.CanManageCrop(payload, &crop) {
		log.Warn("无权限删除作物", "id", id, "owner_id", crop.UserID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限删除该作物"))
		return
	}

	// 级联删除：先删农事记录再删作物，同一事务
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("crop_id = ?", crop.ID).Delete(&model.CropActivity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&crop).Error
	})
	if err != nil {
		log.Error("删除作物失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	dashboard.InvalidateCache(crop.UserID)

	log.Info("作物删除成功", "crop_id", crop.ID)

	response.Success(c)
}
