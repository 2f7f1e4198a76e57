package handler

import (
	"net/http"

	"github.com/activitylog/internal/icon"
	"github.com/gin-gonic/gin"
)

// GetIcons 返回内置图标目录，供图标选择器一次性加载
func (a *API) GetIcons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"icons":      icon.Catalog(),
		"categories": icon.Categories(),
	})
}
