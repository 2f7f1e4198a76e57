package service

import (
	"errors"
	"testing"
	"time"

	"github.com/activitylog/internal/db"
	"github.com/google/uuid"
)

func TestActivityServiceCreateAndList(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewActivityService(gdb)

	first, err := svc.Create(ActivityInput{
		Name:        "冥想",
		IconName:    "🧘‍♀️",
		CreatedDate: time.Now().AddDate(0, 0, -2),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if first.UID == uuid.Nil {
		t.Fatal("expected activity to have UID")
	}
	if first.SortOrder != 0 {
		t.Fatalf("unexpected sort order: %d", first.SortOrder)
	}

	second, err := svc.Create(ActivityInput{Name: "跑步"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if second.SortOrder != 1 {
		t.Fatalf("expected appended sort order 1, got %d", second.SortOrder)
	}

	// 默认按创建时间倒序，最新的在前
	activities := svc.List(SortByCreatedDate)
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].Name != "跑步" {
		t.Fatalf("expected newest first, got %s", activities[0].Name)
	}

	// 手动排序按 sort_order 升序
	manual := svc.List(SortByManualOrder)
	if manual[0].Name != "冥想" {
		t.Fatalf("expected manual order to lead with 冥想, got %s", manual[0].Name)
	}
}

func TestActivityServiceCreateRejectsBlankName(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewActivityService(gdb)

	if _, err := svc.Create(ActivityInput{Name: "   "}); !errors.Is(err, ErrActivityNameRequired) {
		t.Fatalf("expected ErrActivityNameRequired, got %v", err)
	}
}

func TestActivityServiceReorder(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewActivityService(gdb)

	a, _ := svc.Create(ActivityInput{Name: "A"})
	b, _ := svc.Create(ActivityInput{Name: "B"})
	c, _ := svc.Create(ActivityInput{Name: "C"})

	if err := svc.Reorder([]uint{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder returned error: %v", err)
	}

	ordered := svc.List(SortByManualOrder)
	names := []string{ordered[0].Name, ordered[1].Name, ordered[2].Name}
	if names[0] != "C" || names[1] != "A" || names[2] != "B" {
		t.Fatalf("unexpected order: %v", names)
	}

	if err := svc.Reorder([]uint{a.ID, a.ID}); !errors.Is(err, ErrActivityOrder) {
		t.Fatalf("expected ErrActivityOrder for duplicate ids, got %v", err)
	}
}

func TestActivityServiceDeleteCascadesCompletions(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	activities := NewActivityService(gdb)
	completions := NewCompletionService(gdb)

	activity, err := activities.Create(ActivityInput{Name: "读书"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := completions.Add(CompletionInput{
			ActivityID:    activity.ID,
			CompletedDate: time.Now().AddDate(0, 0, -i),
			Source:        "app",
		}); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	if err := activities.Delete(activity.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := activities.Get(activity.ID); !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("expected activity to be gone, got %v", err)
	}

	var orphanCount int64
	if err := gdb.Model(&db.Completion{}).Where("activity_id = ?", activity.ID).Count(&orphanCount).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if orphanCount != 0 {
		t.Fatalf("expected no orphan completions, got %d", orphanCount)
	}

	// 已删除的记录再次删除是空操作，不报错
	if err := activities.Delete(activity.ID); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
}

func TestActivityServiceUpdate(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	activities := NewActivityService(gdb)
	categories := NewCategoryService(gdb)

	health, err := categories.Create("Health")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	activity, err := activities.Create(ActivityInput{Name: "散步"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := activities.Update(activity.ID, ActivityUpdate{
		Name:            "快走",
		CategoryID:      &health.ID,
		IconName:        "🚶",
		OptionalDetails: "每天至少 20 分钟",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "快走" {
		t.Fatalf("unexpected name: %s", updated.Name)
	}
	if updated.CategoryID == nil || *updated.CategoryID != health.ID {
		t.Fatal("expected category to be attached")
	}

	missing := uint(9999)
	if _, err := activities.Update(activity.ID, ActivityUpdate{Name: "x", CategoryID: &missing}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
