package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservedCategoryName 是内置的兜底分类，始终存在，不可重命名或删除
const ReservedCategoryName = "Uncategorized"

// Category 定义了活动分类
// Name 去除首尾空格后需唯一（大小写不敏感，由服务层校验）
// 删除分类不会删除其下活动，只会清空活动的分类关联
type Category struct {
	gorm.Model
	UID        uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	Name       string     `gorm:"unique;not null"`
	Activities []Activity `gorm:"foreignKey:CategoryID"`
}

// BeforeCreate 分配 UID
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.UID == uuid.Nil {
		c.UID = uuid.New()
	}
	return nil
}
