package main

import (
	"log"

	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/handler"
	"github.com/activitylog/internal/router"
	"github.com/activitylog/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 打开共享存储并迁移；存储打不开时拒绝继续运行
	gdb, err := db.Open(cfg.StorePath())
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	if err := db.Init(gdb); err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}

	// 内置分类的幂等引导，每次启动都执行
	categories := service.NewCategoryService(gdb)
	if err := categories.EnsureDefaults(service.DefaultCategoryNames); err != nil {
		log.Printf("ensure default categories failed: %v", err)
	}

	api := handler.NewAPI(gdb)
	r := router.SetupRouter(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
