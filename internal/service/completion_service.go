package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/activitylog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrCompletionNotFound 在指定完成记录不存在时返回
	ErrCompletionNotFound = errors.New("completion not found")
	// ErrCompletionInFuture 在完成日期晚于今天时返回
	// 允许回填过去日期，但所有写入路径统一禁止记到未来
	ErrCompletionInFuture = errors.New("completion date is in the future")
)

// CompletionService 负责完成记录的增删与区间查询
// 同一天允许多条记录，按天去重由读取侧的 UniqueByDay 统一处理
type CompletionService struct {
	db *gorm.DB
}

// CompletionInput 定义打卡时的输入
type CompletionInput struct {
	ActivityID    uint
	CompletedDate time.Time // 零值时取当前时间
	Source        string    // app/widget 等来源标记
}

// NewCompletionService 构造 CompletionService
func NewCompletionService(gdb *gorm.DB) *CompletionService {
	return &CompletionService{db: gdb}
}

// Add 为活动追加一条完成记录并立即持久化
func (s *CompletionService) Add(input CompletionInput) (*db.Completion, error) {
	var activity db.Activity
	if err := s.db.First(&activity, input.ActivityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}

	completedDate := input.CompletedDate
	if completedDate.IsZero() {
		completedDate = time.Now()
	}
	if DayStart(completedDate).After(DayStart(time.Now())) {
		return nil, ErrCompletionInFuture
	}

	completion := db.Completion{
		ActivityID:    activity.ID,
		CompletedDate: completedDate,
		Source:        strings.TrimSpace(input.Source),
	}

	if err := s.db.Create(&completion).Error; err != nil {
		return nil, fmt.Errorf("add completion: %w", err)
	}
	return &completion, nil
}

// ListForActivity 返回活动的全部完成记录，最新的在前
// 读失败降级为空列表
func (s *CompletionService) ListForActivity(activityID uint) []db.Completion {
	var completions []db.Completion
	if err := s.db.
		Where("activity_id = ?", activityID).
		Order("completed_date DESC").
		Find(&completions).Error; err != nil {
		log.Printf("fetch completions for activity %d failed: %v", activityID, err)
		return []db.Completion{}
	}
	return completions
}

// ListBetween 返回 [start, end) 区间内的完成记录，按完成时间升序
// activityID 为 0 时跨全部活动
func (s *CompletionService) ListBetween(activityID uint, start, end time.Time) []db.Completion {
	query := s.db.Where("completed_date >= ? AND completed_date < ?", start, end)
	if activityID != 0 {
		query = query.Where("activity_id = ?", activityID)
	}

	var completions []db.Completion
	if err := query.Order("completed_date ASC").Find(&completions).Error; err != nil {
		log.Printf("fetch completions between %s and %s failed: %v",
			start.Format("2006-01-02"), end.Format("2006-01-02"), err)
		return []db.Completion{}
	}
	return completions
}

// MonthlyCount 统计 month 所在自然月 [月初, 下月初) 内的完成次数
// activityID 为 0 时跨全部活动；读失败降级为 0
func (s *CompletionService) MonthlyCount(activityID uint, month time.Time) int {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	query := s.db.Model(&db.Completion{}).
		Where("completed_date >= ? AND completed_date < ?", monthStart, nextMonthStart)
	if activityID != 0 {
		query = query.Where("activity_id = ?", activityID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		log.Printf("count monthly completions failed: %v", err)
		return 0
	}
	return int(count)
}

// Delete 删除单条完成记录
func (s *CompletionService) Delete(id uint) error {
	var completion db.Completion
	if err := s.db.First(&completion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompletionNotFound
		}
		return fmt.Errorf("find completion: %w", err)
	}

	if err := s.db.Unscoped().Delete(&completion).Error; err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}
