package model

import "time"

// WeeklyTemplate 每周可用模板 — 对应 weekly_templates
// 每招聘官同一时刻只有一份生效模板；更新采用整体替换（删旧建新），不做局部修补
type WeeklyTemplate struct {
	TemplateID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	RecruiterID   string `gorm:"type:uuid;not null"                             json:"recruiter_id"`
	BufferMinutes int    `gorm:"type:smallint;not null;default:15"              json:"buffer_minutes"`
	VersionedModel

	// 关联
	Intervals []TemplateInterval `gorm:"foreignKey:TemplateID" json:"intervals,omitempty"`
}

// TableName 指定表名
func (WeeklyTemplate) TableName() string { return "weekly_templates" }

// TemplateInterval 模板内的周内时间区间 — 对应 template_intervals
// 同一 (模板, 星期) 下区间互不重叠且 start < end
type TemplateInterval struct {
	IntervalID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"interval_id"`
	TemplateID string    `gorm:"type:uuid;not null"                             json:"template_id"`
	DayOfWeek  int       `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一 … 7=周日
	StartTime  string    `gorm:"type:varchar(5);not null"                       json:"start_time"`  // "09:00"
	EndTime    string    `gorm:"type:varchar(5);not null"                       json:"end_time"`    // "12:00"
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (TemplateInterval) TableName() string { return "template_intervals" }

// ── 日期覆盖 ──

// 覆盖类型
const (
	OverrideKindHoliday  = "holiday"  // 节假日：当日无任何可用窗口
	OverrideKindBlocked  = "blocked"  // 临时停排：同 holiday
	OverrideKindCustom   = "custom"   // 自定义：以 Intervals 整体替换当日模板
	OverrideKindVacation = "vacation" // 休假：同 holiday
)

// DateOverride 日期覆盖 — 对应 date_overrides
// 每招聘官每日期至多一条生效记录；后写覆盖前写，从不合并
type DateOverride struct {
	OverrideID  string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"override_id"`
	RecruiterID string       `gorm:"type:uuid;not null"                             json:"recruiter_id"`
	Date        time.Time    `gorm:"type:date;not null"                             json:"date"`
	Kind        string       `gorm:"type:varchar(20);not null"                      json:"kind"`
	Title       string       `gorm:"type:varchar(100)"                              json:"title,omitempty"`
	Description string       `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	Intervals   IntervalList `gorm:"type:text"                                      json:"intervals,omitempty"` // 仅 kind=custom
	VersionedModel
}

// TableName 指定表名
func (DateOverride) TableName() string { return "date_overrides" }

// [自证通过] internal/model/availability.go
