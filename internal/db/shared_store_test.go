package db

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

// 模拟主应用与小组件两个进程：各自独立打开同一个存储文件，
// 验证任意一侧的写入对另一侧立即可见。
func TestSharedStoreCrossConnectionVisibility(t *testing.T) {
	path := StorePath(t.TempDir(), "ActivityTracker.sqlite")

	appConn := openSharedConn(t, path)
	if err := Init(appConn); err != nil {
		t.Fatalf("init store: %v", err)
	}

	// 小组件侧不做迁移，直接挂上既有表结构
	widgetConn := openSharedConn(t, path)
	if !widgetConn.Migrator().HasTable(&Activity{}) {
		t.Fatal("expected widget connection to see migrated schema")
	}

	// 主应用写入活动，小组件读到
	activity := Activity{Name: "跑步", IconName: "🏃‍♂️"}
	if err := appConn.Create(&activity).Error; err != nil {
		t.Fatalf("create activity: %v", err)
	}

	var seen Activity
	if err := widgetConn.Where("uid = ?", activity.UID).First(&seen).Error; err != nil {
		t.Fatalf("widget read activity: %v", err)
	}
	if seen.Name != "跑步" {
		t.Fatalf("unexpected activity name: %s", seen.Name)
	}

	// 小组件打卡，主应用读到
	completion := Completion{
		ActivityID:    seen.ID,
		CompletedDate: time.Now(),
		Source:        "widget",
	}
	if err := widgetConn.Create(&completion).Error; err != nil {
		t.Fatalf("widget create completion: %v", err)
	}

	var completions []Completion
	if err := appConn.Where("activity_id = ?", activity.ID).Find(&completions).Error; err != nil {
		t.Fatalf("app read completions: %v", err)
	}
	if len(completions) != 1 || completions[0].Source != "widget" {
		t.Fatalf("expected widget completion visible to app, got %+v", completions)
	}
}

func TestSharedStorePathMismatchLooksEmpty(t *testing.T) {
	dir := t.TempDir()

	appConn := openSharedConn(t, StorePath(dir, "ActivityTracker.sqlite"))
	if err := Init(appConn); err != nil {
		t.Fatalf("init store: %v", err)
	}
	if err := appConn.Create(&Activity{Name: "冥想"}).Error; err != nil {
		t.Fatalf("create activity: %v", err)
	}

	// 文件名约定对不上时不会报错，只会看到一个全新的空库
	otherConn := openSharedConn(t, StorePath(filepath.Join(dir, "elsewhere"), "ActivityTracker.sqlite"))
	if otherConn.Migrator().HasTable(&Activity{}) {
		t.Fatal("expected mismatched path to open a fresh store")
	}
}

func openSharedConn(t *testing.T, path string) *gorm.DB {
	t.Helper()

	gdb, err := Open(path)
	if err != nil {
		t.Fatalf("open store at %s: %v", path, err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}
