package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/activitylog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrCategoryNotFound 在指定分类不存在时返回
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists 在分类名称重复（忽略大小写与首尾空格）时返回
	ErrCategoryExists = errors.New("category name already exists")
	// ErrCategoryNameRequired 在分类名称为空白时返回
	ErrCategoryNameRequired = errors.New("category name is required")
	// ErrCategoryReserved 在试图重命名或删除内置兜底分类时返回
	ErrCategoryReserved = errors.New("category is reserved")
)

// DefaultCategoryNames 是启动时确保存在的内置分类集合
var DefaultCategoryNames = []string{
	db.ReservedCategoryName,
	"Health",
	"Pet",
	"Home",
	"Education",
}

// CategoryService 负责分类的增删改查
// 名称唯一性在这里（存储边界）强制，重复与空白返回可区分的类型化错误，
// 调用方据此展示精确提示
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 构造 CategoryService
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// Create 新建分类，名称去空格后需全局唯一（忽略大小写）
func (s *CategoryService) Create(name string) (*db.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrCategoryNameRequired
	}

	if taken, err := s.nameTaken(trimmed, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: trimmed}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// List 返回全部分类，按名称升序；读失败降级为空列表
func (s *CategoryService) List() []db.Category {
	var categories []db.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		log.Printf("fetch categories failed: %v", err)
		return []db.Category{}
	}
	return categories
}

// Get 根据 ID 获取分类
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// Rename 重命名分类，保持唯一性；内置分类不可重命名
func (s *CategoryService) Rename(id uint, name string) (*db.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrCategoryNameRequired
	}

	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if category.Name == db.ReservedCategoryName {
		return nil, ErrCategoryReserved
	}

	if taken, err := s.nameTaken(trimmed, category.ID); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrCategoryExists
	}

	category.Name = trimmed
	if err := s.db.Save(category).Error; err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return category, nil
}

// Delete 删除分类
// 其下活动不随之删除，只清空外键，变为未分类；内置分类不可删除
func (s *CategoryService) Delete(id uint) error {
	category, err := s.Get(id)
	if err != nil {
		return err
	}
	if category.Name == db.ReservedCategoryName {
		return ErrCategoryReserved
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Activity{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach activities: %w", err)
		}
		if err := tx.Unscoped().Delete(category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

// EnsureDefaults 确保给定名称的分类存在，缺失的才创建
// 幂等，可在每次进程启动时调用
func (s *CategoryService) EnsureDefaults(names []string) error {
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}

		taken, err := s.nameTaken(trimmed, 0)
		if err != nil {
			return err
		}
		if taken {
			continue
		}

		if err := s.db.Create(&db.Category{Name: trimmed}).Error; err != nil {
			return fmt.Errorf("ensure category %s: %w", trimmed, err)
		}
	}
	return nil
}

func (s *CategoryService) nameTaken(name string, excludeID uint) (bool, error) {
	var existing db.Category
	query := s.db.Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	err := query.First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check category name: %w", err)
}
