package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/activitylog/internal/service"
	"github.com/gin-gonic/gin"
)

const monthFormat = "2006-01"

// GetCalendar 返回日历视图所需的数据：
// 指定自然月内有打卡的日期（同日多条记录折叠为一天）、当月完成次数、
// 以及以今天结尾的连续打卡天数。activity_id 为空时跨全部活动。
func (a *API) GetCalendar(c *gin.Context) {
	now := time.Now()

	month := now
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := time.ParseInLocation(monthFormat, raw, time.Local)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的月份")
			return
		}
		month = parsed
	}

	var activityID uint
	if c.Query("activity_id") != "" {
		id, err := parseUintQuery(c, "activity_id")
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的活动ID")
			return
		}
		if _, err := a.activities.Get(id); err != nil {
			handleActivityError(c, err)
			return
		}
		activityID = id
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	completions := a.completions.ListBetween(activityID, monthStart, nextMonthStart)
	days := make([]string, 0, len(completions))
	for _, completion := range service.UniqueByDay(completions) {
		days = append(days, service.DayStart(completion.CompletedDate).Format(dateFormat))
	}

	// 连续天数不受月份窗口限制，需要完整历史
	var streakSource []time.Time
	if activityID != 0 {
		streakSource = service.CompletionDates(a.completions.ListForActivity(activityID))
	} else {
		streakSource = service.CompletionDates(a.completions.ListBetween(0, time.Time{}, now.AddDate(0, 0, 1)))
	}

	c.JSON(http.StatusOK, gin.H{
		"month":          monthStart.Format(monthFormat),
		"days":           days,
		"monthly_count":  a.completions.MonthlyCount(activityID, monthStart),
		"current_streak": service.CurrentStreak(streakSource, now),
	})
}
