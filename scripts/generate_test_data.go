package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/service"
	"gorm.io/gorm"
)

// 测试数据生成器（仅开发用）
func main() {
	clear := flag.Bool("clear", false, "清空全部活动与完成记录")
	flag.Parse()

	cfg := config.Load()
	gdb, err := db.Open(cfg.StorePath())
	if err != nil {
		log.Fatal("打开存储失败:", err)
	}
	if err := db.Init(gdb); err != nil {
		log.Fatal("存储初始化失败:", err)
	}

	if *clear {
		clearAllData(gdb)
		return
	}

	fmt.Println("开始生成测试数据...")
	generateSampleData(gdb)
	fmt.Println("测试数据生成完成！")
}

// generateSampleData 写入示例活动与过去 30 天内的随机完成记录
func generateSampleData(gdb *gorm.DB) {
	// 已有活动时跳过，避免重复灌入
	var count int64
	gdb.Model(&db.Activity{}).Count(&count)
	if count > 0 {
		fmt.Println("活动已存在，跳过创建")
		return
	}

	categories := service.NewCategoryService(gdb)
	// 示例数据里有 Hobby，默认集合之外补一个
	if err := categories.EnsureDefaults(append(service.DefaultCategoryNames, "Hobby")); err != nil {
		log.Fatal("创建默认分类失败:", err)
	}

	activities := service.NewActivityService(gdb)
	completions := service.NewCompletionService(gdb)

	samples := []struct {
		name     string
		category string
		icon     string
	}{
		{"冥想", "Health", "🧘‍♀️"},
		{"跑步", "Health", "🏃‍♂️"},
		{"读书", "Education", "📚"},
		{"写代码", "Hobby", "💻"},
		{"遛狗", "Pet", "🐕"},
	}

	sources := []string{"app", "widget"}
	today := time.Now()

	for _, sample := range samples {
		categoryID := lookupCategoryID(gdb, sample.category)

		activity, err := activities.Create(service.ActivityInput{
			Name:       sample.name,
			CategoryID: categoryID,
			IconName:   sample.icon,
		})
		if err != nil {
			log.Fatal("创建示例活动失败:", err)
		}

		// 每个活动随机 3~8 条打卡，落在过去 30 天内
		for i := 0; i < 3+rand.Intn(6); i++ {
			daysAgo := rand.Intn(31)
			if _, err := completions.Add(service.CompletionInput{
				ActivityID:    activity.ID,
				CompletedDate: today.AddDate(0, 0, -daysAgo),
				Source:        sources[rand.Intn(len(sources))],
			}); err != nil {
				log.Fatal("创建示例打卡失败:", err)
			}
		}

		fmt.Printf("✅ %s（%s）\n", sample.name, sample.category)
	}
}

// clearAllData 清空活动与完成记录，保留分类
func clearAllData(gdb *gorm.DB) {
	if err := gdb.Unscoped().Where("1 = 1").Delete(&db.Completion{}).Error; err != nil {
		log.Fatal("清除完成记录失败:", err)
	}
	if err := gdb.Unscoped().Where("1 = 1").Delete(&db.Activity{}).Error; err != nil {
		log.Fatal("清除活动失败:", err)
	}
	fmt.Println("所有数据已清除")
}

func lookupCategoryID(gdb *gorm.DB, name string) *uint {
	var category db.Category
	if err := gdb.Where("name = ?", name).First(&category).Error; err != nil {
		return nil
	}
	return &category.ID
}
