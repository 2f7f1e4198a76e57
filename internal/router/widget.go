package router

import (
	"github.com/activitylog/internal/handler"
	"github.com/gin-gonic/gin"
)

// SetupWidgetRouter 配置小组件进程的路由
// 只暴露快照读取与单条打卡写入，别无其他写路径
func SetupWidgetRouter(api *handler.WidgetAPI) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	widgetGroup := r.Group("/widget")
	{
		widgetGroup.GET("/snapshot", api.GetSnapshot)
		widgetGroup.POST("/activities/:uid/complete", api.CompleteActivity)
	}

	return r
}
