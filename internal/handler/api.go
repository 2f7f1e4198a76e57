package handler

import (
	"github.com/activitylog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	activities  *service.ActivityService
	completions *service.CompletionService
	categories  *service.CategoryService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{
		db:          gdb,
		activities:  service.NewActivityService(gdb),
		completions: service.NewCompletionService(gdb),
		categories:  service.NewCategoryService(gdb),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
