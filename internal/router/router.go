package router

import (
	"github.com/activitylog/internal/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置主应用的 Gin 引擎和路由
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/activities", api.ListActivities)
		apiGroup.POST("/activities", api.CreateActivity)
		apiGroup.POST("/activities/reorder", api.ReorderActivities)
		apiGroup.GET("/activities/:id", api.GetActivity)
		apiGroup.PUT("/activities/:id", api.UpdateActivity)
		apiGroup.DELETE("/activities/:id", api.DeleteActivity)
		apiGroup.POST("/activities/:id/complete", api.CompleteActivity)
		apiGroup.GET("/activities/:id/completions", api.ListActivityCompletions)
		apiGroup.DELETE("/completions/:id", api.DeleteCompletion)

		apiGroup.GET("/categories", api.ListCategories)
		apiGroup.POST("/categories", api.CreateCategory)
		apiGroup.GET("/categories/:id", api.GetCategory)
		apiGroup.PUT("/categories/:id", api.RenameCategory)
		apiGroup.DELETE("/categories/:id", api.DeleteCategory)

		apiGroup.GET("/calendar", api.GetCalendar)
		apiGroup.GET("/icons", api.GetIcons)
	}

	return r
}
