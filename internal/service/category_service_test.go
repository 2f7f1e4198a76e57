package service

import (
	"errors"
	"testing"

	"github.com/activitylog/internal/db"
)

func TestCategoryServiceDuplicateNameRejected(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)

	if _, err := svc.Create("Health"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 重复创建：大小写与首尾空格都不能绕过
	if _, err := svc.Create("Health"); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := svc.Create("  health  "); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists for case variant, got %v", err)
	}

	if _, err := svc.Create("   "); !errors.Is(err, ErrCategoryNameRequired) {
		t.Fatalf("expected ErrCategoryNameRequired, got %v", err)
	}

	categories := svc.List()
	if len(categories) != 1 {
		t.Fatalf("expected exactly 1 category, got %d", len(categories))
	}
}

func TestCategoryServiceRenameKeepsUniqueness(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)

	health, _ := svc.Create("Health")
	pet, _ := svc.Create("Pet")

	if _, err := svc.Rename(pet.ID, "Health"); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists on rename, got %v", err)
	}

	renamed, err := svc.Rename(health.ID, "Wellness")
	if err != nil {
		t.Fatalf("Rename returned error: %v", err)
	}
	if renamed.Name != "Wellness" {
		t.Fatalf("unexpected name: %s", renamed.Name)
	}
}

func TestCategoryServiceDeleteDetachesActivities(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	categories := NewCategoryService(gdb)
	activities := NewActivityService(gdb)

	category, err := categories.Create("Home")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	for _, name := range []string{"打扫", "浇花", "做饭"} {
		if _, err := activities.Create(ActivityInput{Name: name, CategoryID: &category.ID}); err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}

	before := activities.List(SortByCreatedDate)

	if err := categories.Delete(category.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	// 活动不随分类删除，只是失去分类关联
	after := activities.List(SortByCreatedDate)
	if len(after) != len(before) {
		t.Fatalf("activity count changed: before %d, after %d", len(before), len(after))
	}
	for _, activity := range after {
		if activity.CategoryID != nil {
			t.Fatalf("expected activity %s to be detached", activity.Name)
		}
	}
}

func TestCategoryServiceReservedProtected(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	if err := svc.EnsureDefaults(DefaultCategoryNames); err != nil {
		t.Fatalf("EnsureDefaults returned error: %v", err)
	}

	var reserved db.Category
	if err := gdb.Where("name = ?", db.ReservedCategoryName).First(&reserved).Error; err != nil {
		t.Fatalf("reserved category missing: %v", err)
	}

	if _, err := svc.Rename(reserved.ID, "Other"); !errors.Is(err, ErrCategoryReserved) {
		t.Fatalf("expected ErrCategoryReserved on rename, got %v", err)
	}
	if err := svc.Delete(reserved.ID); !errors.Is(err, ErrCategoryReserved) {
		t.Fatalf("expected ErrCategoryReserved on delete, got %v", err)
	}
}

func TestCategoryServiceEnsureDefaultsIdempotent(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	names := []string{"Hobby", "Health", "Pet", "Home", "Education"}

	if err := svc.EnsureDefaults(names); err != nil {
		t.Fatalf("first EnsureDefaults returned error: %v", err)
	}
	if err := svc.EnsureDefaults(names); err != nil {
		t.Fatalf("second EnsureDefaults returned error: %v", err)
	}

	categories := svc.List()
	if len(categories) != 5 {
		t.Fatalf("expected 5 categories after double bootstrap, got %d", len(categories))
	}
}
