package repository

import (
	"context"

	"gorm.io/gorm"

	"supercourse/backend/internal/model"
	pkgerrors "supercourse/backend/pkg/errors"
)

// AcademicYearRepository 学年数据访问接口
type AcademicYearRepository interface {
	Create(ctx context.Context, year *model.AcademicYear) error
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	List(ctx context.Context) ([]model.AcademicYear, error)
	Update(ctx context.Context, year *model.AcademicYear) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ClearManualActive(ctx context.Context) error
}

type academicYearRepo struct {
	db *gorm.DB
}

// NewAcademicYearRepo 创建 AcademicYearRepository 实例
func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) Create(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *academicYearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("academic_year_id = ?", id).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) List(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Find(&years).Error
	return years, err
}

func (r *academicYearRepo) Update(ctx context.Context, year *model.AcademicYear) error {
	oldVersion := year.Version
	result := r.db.WithContext(ctx).
		Model(year).
		Where("academic_year_id = ? AND version = ?", year.AcademicYearID, oldVersion).
		Updates(map[string]interface{}{
			"name":             year.Name,
			"start_date":       year.StartDate,
			"end_date":         year.EndDate,
			"is_manual_active": year.IsManualActive,
			"updated_by":       year.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	year.Version = oldVersion + 1
	return nil
}

func (r *academicYearRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("academic_year_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// ClearManualActive 将所有学年的 is_manual_active 设为 false
func (r *academicYearRepo) ClearManualActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("is_manual_active = ?", true).
		Update("is_manual_active", false).Error
}
