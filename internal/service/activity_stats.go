package service

import (
	"time"

	"github.com/activitylog/internal/db"
)

// 派生查询辅助函数：全部是对已取出数据的纯计算，不触碰存储。
// 需要「今天」概念的函数都显式接收参考时间，便于测试注入日期。
// 从 SQLite 读回的时间戳带驱动自己的时区（通常是 UTC），
// 所有按天分桶都先折算到参考时区，再用与时区无关的日期串作键。

const dayFormat = "2006-01-02"

// DayStart 返回时间所在本地日历日的零点
func DayStart(t time.Time) time.Time {
	return dayIn(t, time.Local)
}

// dayIn 返回 t 在 loc 日历下所在日的零点
func dayIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysSinceLastCompletion 计算距最近一次完成经过的完整日历天数
// 没有任何完成记录时返回 -1；按日边界逐日推进计数，
// 夏令时造成的 23/25 小时天不会让结果错位
func DaysSinceLastCompletion(completions []db.Completion, now time.Time) int {
	var last time.Time
	found := false
	for _, completion := range completions {
		if !found || completion.CompletedDate.After(last) {
			last = completion.CompletedDate
			found = true
		}
	}
	if !found {
		return -1
	}

	loc := now.Location()
	end := dayIn(now, loc)
	days := 0
	for day := dayIn(last, loc); day.Before(end); day = day.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// IsCompletedToday 判断是否存在落在 now 所在日历日内的完成记录
func IsCompletedToday(completions []db.Completion, now time.Time) bool {
	loc := now.Location()
	today := now.In(loc).Format(dayFormat)
	for _, completion := range completions {
		if completion.CompletedDate.In(loc).Format(dayFormat) == today {
			return true
		}
	}
	return false
}

// CurrentStreak 计算以 now 所在日结尾的连续打卡天数
// 从今天向前逐日回看，遇到第一个没有完成记录的日子即停止
func CurrentStreak(completionDates []time.Time, now time.Time) int {
	loc := now.Location()
	days := make(map[string]struct{}, len(completionDates))
	for _, date := range completionDates {
		days[date.In(loc).Format(dayFormat)] = struct{}{}
	}

	streak := 0
	current := dayIn(now, loc)
	for {
		if _, ok := days[current.Format(dayFormat)]; !ok {
			break
		}
		streak++
		current = current.AddDate(0, 0, -1)
	}
	return streak
}

// UniqueByDay 按本地日历日去重，每天只保留首次遇到的一条记录，保持原有顺序
// 用于同一天存在多条完成记录、展示侧需要折叠为一条的场合
func UniqueByDay(completions []db.Completion) []db.Completion {
	seen := make(map[string]struct{}, len(completions))
	result := make([]db.Completion, 0, len(completions))

	for _, completion := range completions {
		day := completion.CompletedDate.In(time.Local).Format(dayFormat)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		result = append(result, completion)
	}
	return result
}

// CompletionDates 抽取完成记录中的时间戳序列，便于喂给 CurrentStreak
func CompletionDates(completions []db.Completion) []time.Time {
	dates := make([]time.Time, 0, len(completions))
	for _, completion := range completions {
		dates = append(dates, completion.CompletedDate)
	}
	return dates
}
