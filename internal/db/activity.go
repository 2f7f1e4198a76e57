package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity 定义了活动（习惯）模型
// UID 为业务层唯一标识，创建时生成且不可变
// CategoryID 指向所属分类，可为空表示未分类
// SortOrder 用于列表手动排序，仅由显式 Reorder 操作修改
// 「今日是否完成」不落库，统一由 Completion 记录在读取时推导
type Activity struct {
	gorm.Model
	UID              uuid.UUID    `gorm:"type:uuid;uniqueIndex"`
	Name             string       `gorm:"not null"`
	CategoryID       *uint        `gorm:"index"`
	BelongToCategory *Category    `gorm:"foreignKey:CategoryID"`
	IconName         string
	OptionalDetails  string
	CreatedDate      time.Time    `gorm:"index"`
	SortOrder        int
	Completions      []Completion `gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeCreate 分配 UID 并补齐创建时间
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.UID == uuid.Nil {
		a.UID = uuid.New()
	}
	if a.CreatedDate.IsZero() {
		a.CreatedDate = time.Now()
	}
	return nil
}
