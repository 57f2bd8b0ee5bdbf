package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	"github.com/augustinebeh/worklink-v2-sub013/internal/service"
	pkgerrors "github.com/augustinebeh/worklink-v2-sub013/pkg/errors"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/response"
)

// InterviewHandler 面试台账模块 HTTP 处理器
type InterviewHandler struct {
	bookingSvc service.BookingService
}

// NewInterviewHandler 创建 InterviewHandler
func NewInterviewHandler(bookingSvc service.BookingService) *InterviewHandler {
	return &InterviewHandler{bookingSvc: bookingSvc}
}

// Create 人工预订面试
// POST /api/v1/interviews
func (h *InterviewHandler) Create(c *gin.Context) {
	var req dto.ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	iv, err := h.bookingSvc.Create(c.Request.Context(), &req, operatorID, model.InterviewSourceManual)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.Created(c, iv)
}

// Get 查询单条面试记录
// GET /api/v1/interviews/:id
func (h *InterviewHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "面试ID不能为空")
		return
	}

	iv, err := h.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, iv)
}

// List 按日期范围查询面试记录
// GET /api/v1/interviews?recruiter_id=xxx&start=2026-09-01&end=2026-09-30
func (h *InterviewHandler) List(c *gin.Context) {
	var req dto.InterviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	list, err := h.bookingSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Move 改期（建新记录并链接旧记录）
// POST /api/v1/interviews/:id/move
func (h *InterviewHandler) Move(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "面试ID不能为空")
		return
	}

	var req dto.MoveInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	iv, err := h.bookingSvc.Move(c.Request.Context(), id, &req, operatorID)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, iv)
}

// Cancel 取消面试（置状态，不删行）
// POST /api/v1/interviews/:id/cancel
func (h *InterviewHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "面试ID不能为空")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.bookingSvc.Cancel(c.Request.Context(), id, operatorID); err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateStatus 状态流转（confirmed / completed / no_show）
// PUT /api/v1/interviews/:id/status
func (h *InterviewHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "面试ID不能为空")
		return
	}

	var req dto.UpdateInterviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	iv, err := h.bookingSvc.UpdateStatus(c.Request.Context(), id, &req, operatorID)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, iv)
}

func (h *InterviewHandler) handleInterviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrSlotConflict):
		response.Conflict(c, 14101, "目标时间段已被占用")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14102, "记录已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrInterviewNotFound):
		response.NotFound(c, 14103, "面试记录不存在")
	case errors.Is(err, service.ErrInterviewNotActive):
		response.Conflict(c, 14104, "面试已处于终态，禁止操作")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 14105, "非法的状态流转")
	case errors.Is(err, service.ErrInvalidStartTime):
		response.BadRequest(c, 14106, "start_at 必须为 RFC3339 时间")
	case errors.Is(err, service.ErrSlotTooShort):
		response.BadRequest(c, 14107, "槽位长度必须大于缓冲时间")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 14108, "日期格式非法")
	case errors.Is(err, service.ErrInvalidRange):
		response.BadRequest(c, 14109, "时间范围非法")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/interview_handler.go
