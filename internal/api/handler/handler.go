package handler

import "supercourse/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Calendar *CalendarHandler
	Session  *SessionHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Calendar: NewCalendarHandler(svc.Calendar),
		Session:  NewSessionHandler(svc.Session),
		Export:   NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
