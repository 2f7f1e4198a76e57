package main

import (
	"log"

	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/handler"
	"github.com/activitylog/internal/router"
	"github.com/activitylog/internal/widget"
	"github.com/gin-gonic/gin"
)

// 小组件进程：对同一份共享存储文件独立开一条连接，
// 与主应用之间没有锁或通知通道，靠下一次读取看到对方的写入。
func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	gdb, err := db.Open(cfg.StorePath())
	if err != nil {
		log.Fatalf("[widget] failed to open shared store: %v", err)
	}

	// 不在这里做迁移：表结构归主应用管
	// 路径或结构对不上时查询只会返回空，这里把缺表升级为显式失败
	if !gdb.Migrator().HasTable(&db.Activity{}) {
		log.Fatalf("[widget] shared store has no activity table; run the main app first")
	}

	api := handler.NewWidgetAPI(widget.NewSnapshotProvider(gdb))
	r := router.SetupWidgetRouter(api)
	if err := r.Run(cfg.WidgetListenAddr); err != nil {
		log.Fatalf("[widget] failed to run server: %v", err)
	}
}
