package model

// 农事类型枚举
const (
	ActivityIrrigation    = "irrigation"
	ActivityFertilization = "fertilization"
	ActivityPestControl   = "pest_control"
	ActivityScouting      = "scouting"
	ActivityWeeding       = "weeding"
	ActivityHarvesting    = "harvesting"
	ActivityOther         = "other"
)

// CropActivity 对某批作物执行的一次农事操作
// 农事记录只归属作物，本身没有所有者，权限通过父级作物判定
type CropActivity struct {
	Model
	CropID       uint     `gorm:"not null;index;index:idx_activity_crop_date,priority:1" json:"crop_id"`
	ActivityDate Date     `gorm:"not null;index;index:idx_activity_crop_date,priority:2" json:"activity_date"` // 执行日期
	ActivityType string   `gorm:"type:varchar(20);not null;index" json:"activity_type"`
	Description  string   `gorm:"type:text;not null" json:"description"`
	Quantity     *float64 `gorm:"type:decimal(8,2)" json:"quantity"`   // 用量，可为空，非负
	Unit         *string  `gorm:"type:varchar(50)" json:"unit"`        // 计量单位，可为空

	Crop Crop `gorm:"foreignKey:CropID;constraint:OnDelete:CASCADE" json:"crop,omitempty"`
}

func (CropActivity) TableName() string {
	return "crop_activities"
}

// ValidActivityType 校验农事类型是否在枚举集合内
func ValidActivityType(t string) bool {
	switch t {
	case ActivityIrrigation, ActivityFertilization, ActivityPestControl,
		ActivityScouting, ActivityWeeding, ActivityHarvesting, ActivityOther:
		return true
	}
	return false
}
