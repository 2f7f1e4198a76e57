package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Completion 记录活动的一次完成
// CompletedDate 允许回填过去日期，写入层不限制同一天多条记录，
// 按天去重是读取侧的职责（UniqueByDay）
// Source 标记来源（app/widget），仅用于展示
type Completion struct {
	gorm.Model
	UID           uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	ActivityID    uint      `gorm:"index;not null"`
	Activity      Activity  `gorm:"constraint:OnDelete:CASCADE"`
	CompletedDate time.Time `gorm:"index"`
	Source        string
}

// BeforeCreate 分配 UID
func (c *Completion) BeforeCreate(tx *gorm.DB) error {
	if c.UID == uuid.Nil {
		c.UID = uuid.New()
	}
	return nil
}
