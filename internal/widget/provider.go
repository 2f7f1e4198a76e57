package widget

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/service"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLimit 是快照默认返回的活动数量
const DefaultLimit = 5

// ErrActivityNotFound 在按 UID 找不到活动时返回
var ErrActivityNotFound = errors.New("activity not found")

// ActivityModel 是小组件展示用的精简活动快照
type ActivityModel struct {
	UID                 uuid.UUID `json:"uid"`
	Name                string    `json:"name"`
	IconName            string    `json:"icon_name"`
	DaysSinceCompletion int       `json:"days_since_completion"`
	IsCompletedToday    bool      `json:"is_completed_today"`
}

// SnapshotProvider 是小组件进程自己的数据通道
// 它持有一条独立打开的共享库连接，只做两件事：读取最近创建的前 N 个活动、
// 写入一条来源为 widget 的完成记录。与主应用之间的一致性是「下次读取可见」，
// 没有推送通知
type SnapshotProvider struct {
	db *gorm.DB
}

// NewSnapshotProvider 构造 SnapshotProvider
func NewSnapshotProvider(gdb *gorm.DB) *SnapshotProvider {
	return &SnapshotProvider{db: gdb}
}

// TopActivities 返回按创建时间倒序的前 limit 个活动快照
// 读失败降级为空列表并记录日志
func (p *SnapshotProvider) TopActivities(limit int, now time.Time) []ActivityModel {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var activities []db.Activity
	if err := p.db.
		Preload("Completions").
		Order("created_date DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		log.Printf("[widget] fetch top activities failed: %v", err)
		return []ActivityModel{}
	}

	models := make([]ActivityModel, 0, len(activities))
	for _, activity := range activities {
		models = append(models, ActivityModel{
			UID:                 activity.UID,
			Name:                activity.Name,
			IconName:            activity.IconName,
			DaysSinceCompletion: service.DaysSinceLastCompletion(activity.Completions, now),
			IsCompletedToday:    service.IsCompletedToday(activity.Completions, now),
		})
	}
	return models
}

// MarkComplete 为指定活动写入一条当前时间、来源为 widget 的完成记录
func (p *SnapshotProvider) MarkComplete(uid uuid.UUID, now time.Time) error {
	var activity db.Activity
	if err := p.db.Where("uid = ?", uid).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("find activity: %w", err)
	}

	completion := db.Completion{
		ActivityID:    activity.ID,
		CompletedDate: now,
		Source:        "widget",
	}
	if err := p.db.Create(&completion).Error; err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	return nil
}
