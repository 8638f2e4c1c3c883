package repository

import (
	"context"

	"gorm.io/gorm"

	"supercourse/backend/internal/model"
	pkgerrors "supercourse/backend/pkg/errors"
)

// AcademicSubperiodRepository 子学期数据访问接口
type AcademicSubperiodRepository interface {
	Create(ctx context.Context, sub *model.AcademicSubperiod) error
	GetByID(ctx context.Context, id string) (*model.AcademicSubperiod, error)
	ListByPeriod(ctx context.Context, periodID string) ([]model.AcademicSubperiod, error)
	Update(ctx context.Context, sub *model.AcademicSubperiod) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountByPeriod(ctx context.Context, periodID string) (int64, error)
}

type academicSubperiodRepo struct {
	db *gorm.DB
}

// NewAcademicSubperiodRepo 创建 AcademicSubperiodRepository 实例
func NewAcademicSubperiodRepo(db *gorm.DB) AcademicSubperiodRepository {
	return &academicSubperiodRepo{db: db}
}

func (r *academicSubperiodRepo) Create(ctx context.Context, sub *model.AcademicSubperiod) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *academicSubperiodRepo) GetByID(ctx context.Context, id string) (*model.AcademicSubperiod, error) {
	var sub model.AcademicSubperiod
	err := r.db.WithContext(ctx).
		Where("academic_subperiod_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *academicSubperiodRepo) ListByPeriod(ctx context.Context, periodID string) ([]model.AcademicSubperiod, error) {
	var subs []model.AcademicSubperiod
	err := r.db.WithContext(ctx).
		Where("academic_period_id = ?", periodID).
		Order("start_date ASC").
		Find(&subs).Error
	return subs, err
}

func (r *academicSubperiodRepo) Update(ctx context.Context, sub *model.AcademicSubperiod) error {
	oldVersion := sub.Version
	result := r.db.WithContext(ctx).
		Model(sub).
		Where("academic_subperiod_id = ? AND version = ?", sub.AcademicSubperiodID, oldVersion).
		Updates(map[string]interface{}{
			"name":       sub.Name,
			"start_date": sub.StartDate,
			"end_date":   sub.EndDate,
			"updated_by": sub.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	sub.Version = oldVersion + 1
	return nil
}

func (r *academicSubperiodRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicSubperiod{}).
		Where("academic_subperiod_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *academicSubperiodRepo) CountByPeriod(ctx context.Context, periodID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AcademicSubperiod{}).
		Where("academic_period_id = ?", periodID).
		Count(&count).Error
	return count, err
}
