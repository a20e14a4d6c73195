package crop

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/global/policy"
	"crop-tracking-system/internal/global/response"
	"crop-tracking-system/internal/model"
	"crop-tracking-system/tools"
)

// cropExportRow 导出表格的一行
type cropExportRow struct {
	ID                  uint   `excel:"ID"`
	Name                string `excel:"名称"`
	Type                string `excel:"品种"`
	PlantingDate        string `excel:"播种日期"`
	ExpectedHarvestDate string `excel:"预计收获日期"`
	FieldLocation       string `excel:"田块位置"`
	Status              string `excel:"状态"`
	Owner               string `excel:"所有者"`
	ActivityCount       int    `excel:"农事记录数"`
}

// ExportCrops 导出当前用户可见的作物列表为 xlsx
func ExportCrops(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var crops []model.Crop
	if err := database.DB.Scopes(policy.CropScope(payload)).
		Preload("User").
		Preload("Activities").
		Order("created_at DESC, id DESC").
		Find(&crops).Error; err != nil {
		log.Error("查询导出作物失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]cropExportRow, 0, len(crops))
	for _, crop := range crops {
		rows = append(rows, cropExportRow{
			ID:                  crop.ID,
			Name:                crop.Name,
			Type:                crop.Type,
			PlantingDate:        crop.PlantingDate.String(),
			ExpectedHarvestDate: crop.ExpectedHarvestDate.String(),
			FieldLocation:       crop.FieldLocation,
			Status:              crop.Status,
			Owner:               crop.User.Name,
			ActivityCount:       len(crop.Activities),
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := tools.ExportToExcel(f, "作物", rows); err != nil {
		log.Error("生成导出表格失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	// excelize 默认创建的 Sheet1 多余，删掉
	if len(rows) > 0 {
		_ = f.DeleteSheet("Sheet1")
	}

	name := fmt.Sprintf("crops-%s.xlsx", time.Now().Format("20060102"))
	if err := tools.SendExcel(c, f, name); err != nil {
		log.Error("写出导出表格失败", "error", err)
	}

	log.Info("作物导出成功", "count", len(rows), "user_id", payload.UserID)
}
