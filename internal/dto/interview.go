package dto

// ── 面试台账模块 DTO ──

// ScheduleInterviewRequest 人工预订面试请求
type ScheduleInterviewRequest struct {
	RecruiterID     string `json:"recruiter_id"     binding:"required,uuid"`
	CandidateID     string `json:"candidate_id"     binding:"required,uuid"`
	CandidateName   string `json:"candidate_name"   binding:"required,min=1,max=100"`
	StartAt         string `json:"start_at"         binding:"required"` // RFC3339
	DurationMinutes *int   `json:"duration_minutes" binding:"omitempty,min=5,max=480"`
	InterviewType   string `json:"interview_type"   binding:"omitempty,oneof=video phone in_person"`
	Notes           string `json:"notes"            binding:"omitempty,max=1000"`
	MeetingLink     string `json:"meeting_link"     binding:"omitempty,max=500"`
}

// MoveInterviewRequest 改期请求
type MoveInterviewRequest struct {
	StartAt         string `json:"start_at"         binding:"required"` // RFC3339
	DurationMinutes *int   `json:"duration_minutes" binding:"omitempty,min=5,max=480"`
}

// UpdateInterviewStatusRequest 状态流转请求
type UpdateInterviewStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed no_show"`
}

// InterviewListRequest 面试列表查询参数
type InterviewListRequest struct {
	RecruiterID string `form:"recruiter_id" binding:"required,uuid"`
	Start       string `form:"start"        binding:"required"`
	End         string `form:"end"          binding:"required"`
}

// ── 响应 ──

// InterviewResponse 面试记录响应
type InterviewResponse struct {
	ID              string  `json:"id"`
	RecruiterID     string  `json:"recruiter_id"`
	CandidateID     string  `json:"candidate_id"`
	CandidateName   string  `json:"candidate_name"`
	ScheduledAt     string  `json:"scheduled_at"`
	EndAt           string  `json:"end_at"`
	DurationMinutes int     `json:"duration_minutes"`
	InterviewType   string  `json:"interview_type"`
	Status          string  `json:"status"`
	Source          string  `json:"source"`
	Notes           string  `json:"notes,omitempty"`
	MeetingLink     string  `json:"meeting_link,omitempty"`
	ReplacedBy      *string `json:"replaced_by,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// [自证通过] internal/dto/interview.go
