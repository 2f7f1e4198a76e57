package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/activitylog/internal/widget"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WidgetAPI 是小组件进程的 HTTP 入口
// 只有两条路径：读取快照、写入一条来源为 widget 的完成记录
type WidgetAPI struct {
	provider *widget.SnapshotProvider
}

// NewWidgetAPI 构造 WidgetAPI
func NewWidgetAPI(provider *widget.SnapshotProvider) *WidgetAPI {
	return &WidgetAPI{provider: provider}
}

// GetSnapshot 返回最近创建的前 N 个活动快照
func (w *WidgetAPI) GetSnapshot(c *gin.Context) {
	limit := widget.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "无效的数量限制")
			return
		}
		limit = parsed
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"generated_at": now.Format(time.RFC3339),
		"activities":   w.provider.TopActivities(limit, now),
	})
}

// CompleteActivity 为指定活动写入一条小组件打卡
func (w *WidgetAPI) CompleteActivity(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的活动UID")
		return
	}

	if err := w.provider.MarkComplete(uid, time.Now()); err != nil {
		if errors.Is(err, widget.ErrActivityNotFound) {
			respondError(c, http.StatusNotFound, "活动不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "打卡失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": true})
}
