package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"supercourse/backend/internal/model"
	pkgerrors "supercourse/backend/pkg/errors"
)

// ClassSessionRepository 课次数据访问接口
type ClassSessionRepository interface {
	Create(ctx context.Context, session *model.ClassSession) error
	GetByID(ctx context.Context, id string) (*model.ClassSession, error)
	ListByClass(ctx context.Context, classID string) ([]model.ClassSession, error)
	// ListTopLevelByClass 仅返回顶层课次（parent_session_id 为空），
	// 批量替换只删除顶层记录，避免对展开出的子实例二次删除
	ListTopLevelByClass(ctx context.Context, classID string) ([]model.ClassSession, error)
	ListByClassroomWindow(ctx context.Context, classroomID string, start, end time.Time, excludeID *string) ([]model.ClassSession, error)
	Update(ctx context.Context, session *model.ClassSession) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountByPeriod(ctx context.Context, periodID string) (int64, error)
	CountByPeriodWindow(ctx context.Context, periodID string, start, end time.Time) (int64, error)
}

type classSessionRepo struct {
	db *gorm.DB
}

// NewClassSessionRepo 创建 ClassSessionRepository 实例
func NewClassSessionRepo(db *gorm.DB) ClassSessionRepository {
	return &classSessionRepo{db: db}
}

func (r *classSessionRepo) Create(ctx context.Context, session *model.ClassSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *classSessionRepo) GetByID(ctx context.Context, id string) (*model.ClassSession, error) {
	var session model.ClassSession
	err := r.db.WithContext(ctx).
		Where("class_session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *classSessionRepo) ListByClass(ctx context.Context, classID string) ([]model.ClassSession, error) {
	var sessions []model.ClassSession
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("start_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *classSessionRepo) ListTopLevelByClass(ctx context.Context, classID string) ([]model.ClassSession, error) {
	var sessions []model.ClassSession
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND parent_session_id IS NULL", classID).
		Order("start_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// ListByClassroomWindow 返回与 [start, end] 闭区间相交的教室占用课次
// 边界相接计为相交，与日历区间策略一致
func (r *classSessionRepo) ListByClassroomWindow(ctx context.Context, classroomID string, start, end time.Time, excludeID *string) ([]model.ClassSession, error) {
	q := r.db.WithContext(ctx).
		Where("classroom_id = ? AND is_cancelled = ?", classroomID, false).
		Where("start_at <= ? AND end_at >= ?", end, start)
	if excludeID != nil {
		q = q.Where("class_session_id != ?", *excludeID)
	}

	var sessions []model.ClassSession
	err := q.Order("start_at ASC").Find(&sessions).Error
	return sessions, err
}

func (r *classSessionRepo) Update(ctx context.Context, session *model.ClassSession) error {
	oldVersion := session.Version
	result := r.db.WithContext(ctx).
		Model(session).
		Where("class_session_id = ? AND version = ?", session.ClassSessionID, oldVersion).
		Updates(map[string]interface{}{
			"start_at":         session.StartAt,
			"end_at":           session.EndAt,
			"start_time":       session.StartTime,
			"duration_minutes": session.DurationMinutes,
			"mode":             session.Mode,
			"classroom_id":     session.ClassroomID,
			"teacher_ids":      session.TeacherIDs,
			"student_ids":      session.StudentIDs,
			"is_cancelled":     session.IsCancelled,
			"updated_by":       session.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	session.Version = oldVersion + 1
	return nil
}

func (r *classSessionRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ClassSession{}).
		Where("class_session_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *classSessionRepo) CountByPeriod(ctx context.Context, periodID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ClassSession{}).
		Where("academic_period_id = ?", periodID).
		Count(&count).Error
	return count, err
}

// CountByPeriodWindow 统计指定学期下开始时间落在 [start, end) 窗口内的课次数
// 用于子学期删除前的依赖检查
func (r *classSessionRepo) CountByPeriodWindow(ctx context.Context, periodID string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ClassSession{}).
		Where("academic_period_id = ?", periodID).
		Where("start_at >= ? AND start_at < ?", start, end).
		Count(&count).Error
	return count, err
}
