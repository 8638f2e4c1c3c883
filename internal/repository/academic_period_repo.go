package repository

import (
	"context"

	"gorm.io/gorm"

	"supercourse/backend/internal/model"
	pkgerrors "supercourse/backend/pkg/errors"
)

// AcademicPeriodRepository 学期数据访问接口
type AcademicPeriodRepository interface {
	Create(ctx context.Context, period *model.AcademicPeriod) error
	GetByID(ctx context.Context, id string) (*model.AcademicPeriod, error)
	ListByYear(ctx context.Context, yearID string) ([]model.AcademicPeriod, error)
	List(ctx context.Context) ([]model.AcademicPeriod, error)
	Update(ctx context.Context, period *model.AcademicPeriod) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ClearManualActive(ctx context.Context) error
	CountByYear(ctx context.Context, yearID string) (int64, error)
}

type academicPeriodRepo struct {
	db *gorm.DB
}

// NewAcademicPeriodRepo 创建 AcademicPeriodRepository 实例
func NewAcademicPeriodRepo(db *gorm.DB) AcademicPeriodRepository {
	return &academicPeriodRepo{db: db}
}

func (r *academicPeriodRepo) Create(ctx context.Context, period *model.AcademicPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *academicPeriodRepo) GetByID(ctx context.Context, id string) (*model.AcademicPeriod, error) {
	var period model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Where("academic_period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *academicPeriodRepo) ListByYear(ctx context.Context, yearID string) ([]model.AcademicPeriod, error) {
	var periods []model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Where("academic_year_id = ?", yearID).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

func (r *academicPeriodRepo) List(ctx context.Context) ([]model.AcademicPeriod, error) {
	var periods []model.AcademicPeriod
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

func (r *academicPeriodRepo) Update(ctx context.Context, period *model.AcademicPeriod) error {
	oldVersion := period.Version
	result := r.db.WithContext(ctx).
		Model(period).
		Where("academic_period_id = ? AND version = ?", period.AcademicPeriodID, oldVersion).
		Updates(map[string]interface{}{
			"name":             period.Name,
			"start_date":       period.StartDate,
			"end_date":         period.EndDate,
			"is_manual_active": period.IsManualActive,
			"updated_by":       period.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	period.Version = oldVersion + 1
	return nil
}

func (r *academicPeriodRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicPeriod{}).
		Where("academic_period_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// ClearManualActive 将所有学期的 is_manual_active 设为 false
func (r *academicPeriodRepo) ClearManualActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicPeriod{}).
		Where("is_manual_active = ?", true).
		Update("is_manual_active", false).Error
}

func (r *academicPeriodRepo) CountByYear(ctx context.Context, yearID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AcademicPeriod{}).
		Where("academic_year_id = ?", yearID).
		Count(&count).Error
	return count, err
}
