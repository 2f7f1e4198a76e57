package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/service"
	"github.com/gin-gonic/gin"
)

type categoryPayload struct {
	Name string `json:"name"`
}

// ListCategories 返回全部分类，按名称升序
func (a *API) ListCategories(c *gin.Context) {
	categories := a.categories.List()

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		items = append(items, categoryToPayload(category))
	}

	c.JSON(http.StatusOK, gin.H{"categories": items})
}

// GetCategory 返回单个分类及其下活动
func (a *API) GetCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类ID")
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		handleCategoryError(c, err)
		return
	}

	now := time.Now()
	activities := a.activities.ListByCategory(category.ID)
	items := make([]gin.H, 0, len(activities))
	for _, activity := range activities {
		items = append(items, activityToPayload(activity, now))
	}

	payload := categoryToPayload(*category)
	payload["activities"] = items

	c.JSON(http.StatusOK, gin.H{"category": payload})
}

// CreateCategory 创建分类，名称重复或为空会被拒绝
func (a *API) CreateCategory(c *gin.Context) {
	var payload categoryPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	category, err := a.categories.Create(payload.Name)
	if err != nil {
		handleCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": categoryToPayload(*category)})
}

// RenameCategory 重命名分类
func (a *API) RenameCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类ID")
		return
	}

	var payload categoryPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	category, err := a.categories.Rename(id, payload.Name)
	if err != nil {
		handleCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": categoryToPayload(*category)})
}

// DeleteCategory 删除分类，其下活动变为未分类而不是被删除
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类ID")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		handleCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func categoryToPayload(category db.Category) gin.H {
	return gin.H{
		"id":       category.ID,
		"uid":      category.UID,
		"name":     category.Name,
		"reserved": category.Name == db.ReservedCategoryName,
	}
}

func handleCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "分类不存在")
	case errors.Is(err, service.ErrCategoryExists):
		respondError(c, http.StatusBadRequest, "分类名称已存在")
	case errors.Is(err, service.ErrCategoryNameRequired):
		respondError(c, http.StatusBadRequest, "分类名称不能为空")
	case errors.Is(err, service.ErrCategoryReserved):
		respondError(c, http.StatusBadRequest, "内置分类不可修改或删除")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
