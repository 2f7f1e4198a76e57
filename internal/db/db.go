package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// defaultStoreFilename 为主应用与小组件约定的存储文件名
const defaultStoreFilename = "ActivityTracker.sqlite"

// StorePath 根据共享容器目录与固定文件名拼出数据库路径。
// 主应用与小组件是两个独立进程，必须解析出同一路径才能看到彼此的写入；
// 目录、文件名任一不一致都会表现为「空库」而不是显式报错。
func StorePath(sharedDir, filename string) string {
	dir := strings.TrimSpace(sharedDir)
	name := strings.TrimSpace(filename)
	if name == "" {
		name = defaultStoreFilename
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// Open 打开（必要时创建）指定路径的 SQLite 存储并返回连接句柄。
// 附带 busy_timeout，两个进程并发写入时等待重试而不是直接失败。
// 调用方自行持有返回的句柄，包内不保留全局连接。
func Open(path string) (*gorm.DB, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultStoreFilename
	}

	if err := ensureParentDir(trimmed); err != nil {
		return nil, err
	}

	dsn := trimmed
	if !strings.Contains(trimmed, "?") {
		dsn = trimmed + "?_busy_timeout=5000"
	}

	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// Init 执行自动迁移，为核心模型创建表，
// 并把旧版自由文本分类列迁移为关系型 Category 外键。
func Init(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database handle is nil")
	}

	if err := gdb.AutoMigrate(
		&Category{},
		&Activity{},
		&Completion{},
	); err != nil {
		return err
	}

	if err := migrateLegacyCategories(gdb); err != nil {
		return err
	}

	// 旧版本在活动上落了 is_completed 布尔列，与当日完成记录并存且会失去同步；
	// 现在「今日完成」只从 Completion 推导，该列直接清理。
	// 迁移器的 DropColumn 对模型之外的列不生效，直接用 ALTER TABLE
	if gdb.Migrator().HasColumn(&Activity{}, "is_completed") {
		if dropErr := gdb.Exec("ALTER TABLE activities DROP COLUMN is_completed").Error; dropErr != nil {
			return dropErr
		}
	}

	return nil
}

// migrateLegacyCategories 将旧版活动上的自由文本分类列迁移为 Category 记录：
// 按名称查找或创建分类、回填外键，最后删除旧列。幂等，旧列不存在时为空操作。
func migrateLegacyCategories(gdb *gorm.DB) error {
	migrator := gdb.Migrator()
	if !migrator.HasColumn(&Activity{}, "category") {
		return nil
	}

	type legacyRow struct {
		ID       uint
		Category string
	}

	var rows []legacyRow
	if err := gdb.Raw(
		"SELECT id, category FROM activities WHERE category IS NOT NULL AND TRIM(category) <> '' AND category_id IS NULL",
	).Scan(&rows).Error; err != nil {
		return err
	}

	if err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			name := strings.TrimSpace(row.Category)

			var cat Category
			err := tx.Where("LOWER(name) = LOWER(?)", name).First(&cat).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cat = Category{Name: name}
				if err := tx.Create(&cat).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			if err := tx.Model(&Activity{}).Where("id = ?", row.ID).
				Update("category_id", cat.ID).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	// 旧列不在模型里，迁移器的 DropColumn 不会真正删它
	return gdb.Exec("ALTER TABLE activities DROP COLUMN category").Error
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
