package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const dateFormat = "2006-01-02"

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type activityPayload struct {
	Name            string `json:"name"`
	CategoryID      *uint  `json:"category_id"`
	IconName        string `json:"icon_name"`
	OptionalDetails string `json:"optional_details"`
	CreatedDate     string `json:"created_date"` // 2006-01-02，仅创建时可指定
}

type completionPayload struct {
	CompletedDate string `json:"completed_date"` // 2006-01-02，空则取今天
	Source        string `json:"source"`
}

// ListActivities 返回活动列表
// sort=manual 按手动排序，默认按创建时间倒序；
// 可按 category_id 过滤，uncategorized=1 时只看未分类
func (a *API) ListActivities(c *gin.Context) {
	now := time.Now()

	var activities []db.Activity
	switch {
	case c.Query("uncategorized") == "1":
		activities = a.activities.ListUncategorized()
	case c.Query("category_id") != "":
		id, err := parseUintQuery(c, "category_id")
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的分类ID")
			return
		}
		activities = a.activities.ListByCategory(id)
	case c.Query("sort") == string(service.SortByManualOrder):
		activities = a.activities.List(service.SortByManualOrder)
	default:
		activities = a.activities.List(service.SortByCreatedDate)
	}

	items := make([]gin.H, 0, len(activities))
	for _, activity := range activities {
		items = append(items, activityToPayload(activity, now))
	}

	c.JSON(http.StatusOK, gin.H{"activities": items})
}

// GetActivity 返回单个活动详情，附完成记录与派生统计
// 路径参数接受数据库 ID 或业务 UID 两种寻址方式
func (a *API) GetActivity(c *gin.Context) {
	activity, err := a.lookupActivity(c)
	if err != nil {
		handleActivityError(c, err)
		return
	}

	now := time.Now()
	completions := a.completions.ListForActivity(activity.ID)

	payload := activityToPayload(*activity, now)
	payload["optional_details"] = activity.OptionalDetails
	payload["details_html"] = renderDetails(activity.OptionalDetails)
	payload["current_streak"] = service.CurrentStreak(service.CompletionDates(completions), now)
	payload["completions"] = serializeCompletions(completions)

	c.JSON(http.StatusOK, gin.H{"activity": payload})
}

// CreateActivity 创建活动
func (a *API) CreateActivity(c *gin.Context) {
	var payload activityPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	var createdDate time.Time
	if strings.TrimSpace(payload.CreatedDate) != "" {
		parsed, err := time.ParseInLocation(dateFormat, payload.CreatedDate, time.Local)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的创建日期")
			return
		}
		createdDate = parsed
	}

	activity, err := a.activities.Create(service.ActivityInput{
		Name:            payload.Name,
		CategoryID:      payload.CategoryID,
		IconName:        payload.IconName,
		OptionalDetails: payload.OptionalDetails,
		CreatedDate:     createdDate,
	})
	if err != nil {
		handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activityToPayload(*activity, time.Now())})
}

// UpdateActivity 编辑活动
func (a *API) UpdateActivity(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var payload activityPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	activity, err := a.activities.Update(id, service.ActivityUpdate{
		Name:            payload.Name,
		CategoryID:      payload.CategoryID,
		IconName:        payload.IconName,
		OptionalDetails: payload.OptionalDetails,
	})
	if err != nil {
		handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activityToPayload(*activity, time.Now())})
}

// DeleteActivity 删除活动及其全部完成记录
func (a *API) DeleteActivity(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	if err := a.activities.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除活动失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ReorderActivities 按给定 ID 序列重排活动
func (a *API) ReorderActivities(c *gin.Context) {
	var payload struct {
		IDs []uint `json:"ids"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if err := a.activities.Reorder(payload.IDs); err != nil {
		handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reordered": true})
}

// CompleteActivity 为活动打卡
// 日期可回填过去，不允许晚于今天；来源默认为 app
func (a *API) CompleteActivity(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var payload completionPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	var completedDate time.Time
	if strings.TrimSpace(payload.CompletedDate) != "" {
		parsed, err := time.ParseInLocation(dateFormat, payload.CompletedDate, time.Local)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的完成日期")
			return
		}
		completedDate = parsed
	}

	source := strings.TrimSpace(payload.Source)
	if source == "" {
		source = "app"
	}

	completion, err := a.completions.Add(service.CompletionInput{
		ActivityID:    id,
		CompletedDate: completedDate,
		Source:        source,
	})
	if err != nil {
		handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completion": serializeCompletion(*completion)})
}

// ListActivityCompletions 返回活动的完成记录，最新的在前
// unique_by_day=1 时按自然日折叠同日的重复记录
func (a *API) ListActivityCompletions(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	if _, err := a.activities.Get(id); err != nil {
		handleActivityError(c, err)
		return
	}

	completions := a.completions.ListForActivity(id)
	if c.Query("unique_by_day") == "1" {
		completions = service.UniqueByDay(completions)
	}

	c.JSON(http.StatusOK, gin.H{"completions": serializeCompletions(completions)})
}

// DeleteCompletion 删除单条完成记录（例如日历编辑时取消某天的打卡）
func (a *API) DeleteCompletion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的完成记录ID")
		return
	}

	if err := a.completions.Delete(id); err != nil {
		if errors.Is(err, service.ErrCompletionNotFound) {
			respondError(c, http.StatusNotFound, "完成记录不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除完成记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (a *API) lookupActivity(c *gin.Context) (*db.Activity, error) {
	if id, err := parseUintParam(c, "id"); err == nil {
		return a.activities.Get(id)
	}
	if uid, err := uuid.Parse(c.Param("id")); err == nil {
		return a.activities.GetByUID(uid)
	}
	return nil, service.ErrActivityNotFound
}

func activityToPayload(activity db.Activity, now time.Time) gin.H {
	item := gin.H{
		"id":                    activity.ID,
		"uid":                   activity.UID,
		"name":                  activity.Name,
		"icon_name":             activity.IconName,
		"created_date":          activity.CreatedDate.Format(dateFormat),
		"sort_order":            activity.SortOrder,
		"days_since_completion": service.DaysSinceLastCompletion(activity.Completions, now),
		"is_completed_today":    service.IsCompletedToday(activity.Completions, now),
	}

	if activity.BelongToCategory != nil {
		item["category"] = gin.H{
			"id":   activity.BelongToCategory.ID,
			"name": activity.BelongToCategory.Name,
		}
	} else if activity.CategoryID != nil {
		item["category"] = gin.H{"id": *activity.CategoryID}
	}

	return item
}

func serializeCompletions(completions []db.Completion) []gin.H {
	items := make([]gin.H, 0, len(completions))
	for _, completion := range completions {
		items = append(items, serializeCompletion(completion))
	}
	return items
}

func serializeCompletion(completion db.Completion) gin.H {
	return gin.H{
		"id":             completion.ID,
		"uid":            completion.UID,
		"activity_id":    completion.ActivityID,
		"completed_date": completion.CompletedDate.Format(time.RFC3339),
		"source":         completion.Source,
	}
}

// renderDetails 将活动备注的 Markdown 渲染为净化后的 HTML
func renderDetails(details string) string {
	trimmed := strings.TrimSpace(details)
	if trimmed == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(trimmed), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}

func handleActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		respondError(c, http.StatusNotFound, "活动不存在")
	case errors.Is(err, service.ErrActivityNameRequired):
		respondError(c, http.StatusBadRequest, "活动名称不能为空")
	case errors.Is(err, service.ErrActivityOrder):
		respondError(c, http.StatusBadRequest, "排序序列不合法")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "指定的分类不存在")
	case errors.Is(err, service.ErrCompletionInFuture):
		respondError(c, http.StatusBadRequest, "完成日期不能晚于今天")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
