package model

import (
	"time"
)

// Model 公共字段，作物与农事记录均为物理删除，不使用软删除
// （删除作物时必须级联清掉全部农事记录，不能留下软删除的孤儿数据）
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Model) CreateTime() int64 {
	return m.CreatedAt.UnixMilli()
}

func (m *Model) UpdateTime() int64 {
	return m.UpdatedAt.UnixMilli()
}
