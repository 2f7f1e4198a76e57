package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/activitylog/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrActivityNotFound 在指定活动不存在时返回
	ErrActivityNotFound = errors.New("activity not found")
	// ErrActivityNameRequired 在活动名称为空时返回
	ErrActivityNameRequired = errors.New("activity name is required")
	// ErrActivityOrder 在手动排序的 ID 序列不合法时返回
	ErrActivityOrder = errors.New("invalid activity order")
)

// ActivitySort 指定活动列表的排序方式
type ActivitySort string

const (
	// SortByCreatedDate 按创建时间倒序，最新的在前（默认）
	SortByCreatedDate ActivitySort = "created_date"
	// SortByManualOrder 按用户手动排序升序
	SortByManualOrder ActivitySort = "manual"
)

// ActivityService 是活动记录的唯一持久化入口
// 读取失败统一降级为空列表并记录日志，不向调用方抛错；
// 这是沿用移动端的既有约定：调用方需接受「空」与「读失败」不可区分
type ActivityService struct {
	db *gorm.DB
}

// ActivityInput 定义创建活动时可配置的字段
type ActivityInput struct {
	Name            string
	CategoryID      *uint
	IconName        string
	OptionalDetails string
	CreatedDate     time.Time // 零值时取当前时间
}

// ActivityUpdate 定义编辑活动时可修改的字段
// CreatedDate 与 UID 创建后不可变，不在此列
type ActivityUpdate struct {
	Name            string
	CategoryID      *uint
	IconName        string
	OptionalDetails string
}

// NewActivityService 构造 ActivityService
func NewActivityService(gdb *gorm.DB) *ActivityService {
	return &ActivityService{db: gdb}
}

// Create 新建活动并立即持久化
// 名称在存储边界强制非空，上层不再各自校验
func (s *ActivityService) Create(input ActivityInput) (*db.Activity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrActivityNameRequired
	}

	if input.CategoryID != nil {
		if err := s.checkCategory(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	sortOrder, err := s.nextSortOrder()
	if err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	activity := db.Activity{
		Name:            name,
		CategoryID:      input.CategoryID,
		IconName:        strings.TrimSpace(input.IconName),
		OptionalDetails: input.OptionalDetails,
		CreatedDate:     input.CreatedDate,
		SortOrder:       sortOrder,
	}

	if err := s.db.Create(&activity).Error; err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return &activity, nil
}

// List 返回全部活动
// sort 为空时按创建时间倒序；读失败降级为空列表
func (s *ActivityService) List(sort ActivitySort) []db.Activity {
	order := "created_date DESC"
	if sort == SortByManualOrder {
		order = "sort_order ASC"
	}

	var activities []db.Activity
	if err := s.db.
		Preload("BelongToCategory").
		Preload("Completions").
		Order(order).
		Find(&activities).Error; err != nil {
		log.Printf("fetch activities failed: %v", err)
		return []db.Activity{}
	}
	return activities
}

// ListByCategory 返回指定分类下的活动，按创建时间倒序
func (s *ActivityService) ListByCategory(categoryID uint) []db.Activity {
	var activities []db.Activity
	if err := s.db.
		Preload("BelongToCategory").
		Preload("Completions").
		Where("category_id = ?", categoryID).
		Order("created_date DESC").
		Find(&activities).Error; err != nil {
		log.Printf("fetch activities for category %d failed: %v", categoryID, err)
		return []db.Activity{}
	}
	return activities
}

// ListUncategorized 返回未关联任何分类的活动
func (s *ActivityService) ListUncategorized() []db.Activity {
	var activities []db.Activity
	if err := s.db.
		Preload("BelongToCategory").
		Preload("Completions").
		Where("category_id IS NULL").
		Order("created_date DESC").
		Find(&activities).Error; err != nil {
		log.Printf("fetch uncategorized activities failed: %v", err)
		return []db.Activity{}
	}
	return activities
}

// Get 根据 ID 获取活动，附带完成记录与分类
func (s *ActivityService) Get(id uint) (*db.Activity, error) {
	var activity db.Activity
	if err := s.db.
		Preload("BelongToCategory").
		Preload("Completions").
		First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return &activity, nil
}

// GetByUID 根据业务 UID 获取活动，供小组件等外部标识使用
func (s *ActivityService) GetByUID(uid uuid.UUID) (*db.Activity, error) {
	var activity db.Activity
	if err := s.db.
		Preload("BelongToCategory").
		Preload("Completions").
		Where("uid = ?", uid).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity by uid: %w", err)
	}
	return &activity, nil
}

// Update 编辑活动的可变字段
func (s *ActivityService) Update(id uint, input ActivityUpdate) (*db.Activity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrActivityNameRequired
	}

	var existing db.Activity
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}

	if input.CategoryID != nil {
		if err := s.checkCategory(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	existing.Name = name
	existing.CategoryID = input.CategoryID
	existing.IconName = strings.TrimSpace(input.IconName)
	existing.OptionalDetails = input.OptionalDetails

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return &existing, nil
}

// Reorder 按给定 ID 序列重写 sort_order
func (s *ActivityService) Reorder(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrActivityOrder
		}
		if _, ok := seen[id]; ok {
			return ErrActivityOrder
		}
		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&db.Activity{}).Where("id = ?", id).Update("sort_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrActivityNotFound
			}
		}
		return nil
	})
}

// Delete 删除活动并级联删除其全部完成记录
// 记录已不存在时为空操作，不视为错误
func (s *ActivityService) Delete(id uint) error {
	var activity db.Activity
	if err := s.db.First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find activity: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("activity_id = ?", activity.ID).
			Delete(&db.Completion{}).Error; err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := tx.Unscoped().Delete(&activity).Error; err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		return nil
	})
}

func (s *ActivityService) checkCategory(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}

func (s *ActivityService) nextSortOrder() (int, error) {
	var maxSort int
	if err := s.db.Model(&db.Activity{}).Select("COALESCE(MAX(sort_order), -1)").Scan(&maxSort).Error; err != nil {
		return 0, err
	}
	return maxSort + 1, nil
}
