package model

// 作物生长状态，按生长阶段推进
const (
	CropStatusPlanted      = "planted"
	CropStatusSeedling     = "seedling"
	CropStatusGrowing      = "growing"
	CropStatusHarvestReady = "harvest_ready"
	CropStatusHarvested    = "harvested"
)

// Crop 一块田里种下的一批作物
type Crop struct {
	Model
	Name                string `gorm:"type:varchar(255);not null;index" json:"name"`                        // 作物批次名称
	Type                string `gorm:"type:varchar(255);not null" json:"type"`                              // 作物品种
	PlantingDate        Date   `gorm:"not null;index" json:"planting_date"`                                 // 播种日期
	ExpectedHarvestDate Date   `gorm:"not null" json:"expected_harvest_date"`                               // 预计收获日期，必须晚于播种日期
	FieldLocation       string `gorm:"type:varchar(255);not null" json:"field_location"`                    // 田块位置
	Status              string `gorm:"type:varchar(20);default:planted;not null;index;index:idx_crop_user_status,priority:2" json:"status"` // 生长状态
	Notes               string `gorm:"type:text" json:"notes"`                                              // 备注，可为空
	UserID              uint   `gorm:"not null;index;index:idx_crop_user_status,priority:1" json:"user_id"` // 所有者，外键指向用户表

	User       User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Activities []CropActivity `gorm:"foreignKey:CropID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}

func (Crop) TableName() string {
	return "crops"
}

// ValidCropStatus 校验状态是否在枚举集合内
func ValidCropStatus(status string) bool {
	switch status {
	case CropStatusPlanted, CropStatusSeedling, CropStatusGrowing,
		CropStatusHarvestReady, CropStatusHarvested:
		return true
	}
	return false
}
