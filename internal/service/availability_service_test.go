package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/augustinebeh/worklink-v2-sub013/internal/dto"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
)

// ── 测试辅助 ──

func setupTestAvailabilityService(repos *testRepos) AvailabilityService {
	return NewAvailabilityService(repos.toRepository(), mustLoc(), zap.NewNop())
}

// ════════════════════════════════════════════════════════════
// ResolveWindows 测试
// ════════════════════════════════════════════════════════════

func TestAvailabilityService_ResolveWindows_TemplateOnly(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	svc := setupTestAvailabilityService(repos)

	// 周一到周日：仅周一有窗口
	weekEnd := testMonday.AddDate(0, 0, 6)
	days, err := svc.ResolveWindows(context.Background(), "rec-1", testMonday, weekEnd)
	if err != nil {
		t.Fatalf("ResolveWindows 应成功: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("期望 7 天，实际 %d", len(days))
	}
	if len(days[0].Intervals) != 1 || days[0].Intervals[0].Start != "09:00" {
		t.Errorf("周一应有 09:00-12:00 窗口，实际 %v", days[0].Intervals)
	}
	for i := 1; i < 7; i++ {
		if len(days[i].Intervals) != 0 {
			t.Errorf("第 %d 天应无窗口，实际 %v", i+1, days[i].Intervals)
		}
	}
}

func TestAvailabilityService_ResolveWindows_HolidayOverride(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	repos.override.overrides["ov-1"] = &model.DateOverride{
		OverrideID: "ov-1", RecruiterID: "rec-1",
		Date: testMonday, Kind: model.OverrideKindHoliday, Title: "公共假期",
	}
	svc := setupTestAvailabilityService(repos)

	days, err := svc.ResolveWindows(context.Background(), "rec-1", testMonday, testMonday)
	if err != nil {
		t.Fatalf("ResolveWindows 应成功: %v", err)
	}
	if len(days[0].Intervals) != 0 {
		t.Errorf("节假日覆盖应清空当日窗口，实际 %v", days[0].Intervals)
	}
}

func TestAvailabilityService_ResolveWindows_CustomOverrideReplaces(t *testing.T) {
	repos := newTestRepos()
	seedMondayTemplate(repos, "rec-1")
	repos.override.overrides["ov-1"] = &model.DateOverride{
		OverrideID: "ov-1", RecruiterID: "rec-1",
		Date: testMonday, Kind: model.OverrideKindCustom,
		Intervals: model.IntervalList{{Start: "14:00", End: "16:00"}},
	}
	svc := setupTestAvailabilityService(repos)

	days, err := svc.ResolveWindows(context.Background(), "rec-1", testMonday, testMonday)
	if err != nil {
		t.Fatalf("ResolveWindows 应成功: %v", err)
	}
	// custom 整体替换，不与模板合并
	if len(days[0].Intervals) != 1 || days[0].Intervals[0].Start != "14:00" {
		t.Errorf("custom 覆盖应整体替换当日窗口，实际 %v", days[0].Intervals)
	}
}

func TestAvailabilityService_ResolveWindows_InvalidRange(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	_, err := svc.ResolveWindows(context.Background(), "rec-1", testMonday, testMonday.AddDate(0, 0, -1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("期望 ErrInvalidRange，实际: %v", err)
	}
}

func TestAvailabilityService_BufferMinutes_NoTemplate(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	buffer, err := svc.BufferMinutes(context.Background(), "rec-none")
	if err != nil {
		t.Fatalf("BufferMinutes 应成功: %v", err)
	}
	if buffer != 0 {
		t.Errorf("无模板时缓冲应为 0，实际 %d", buffer)
	}
}

// ════════════════════════════════════════════════════════════
// ReplaceTemplate / UpsertOverride 测试
// ════════════════════════════════════════════════════════════

func TestAvailabilityService_ReplaceTemplate_Success(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	req := &dto.ReplaceTemplateRequest{
		RecruiterID:   "rec-1",
		BufferMinutes: 10,
		Days: []dto.TemplateDayRequest{
			{DayOfWeek: 1, Intervals: []dto.IntervalRequest{
				{Start: "09:00", End: "12:00"},
				{Start: "14:00", End: "17:00"},
			}},
		},
	}
	tmpl, err := svc.ReplaceTemplate(context.Background(), req, "admin-1")
	if err != nil {
		t.Fatalf("ReplaceTemplate 应成功: %v", err)
	}
	if tmpl.BufferMinutes != 10 {
		t.Errorf("期望 buffer=10，实际 %d", tmpl.BufferMinutes)
	}
	if len(tmpl.Days) != 1 || len(tmpl.Days[0].Intervals) != 2 {
		t.Errorf("模板区间数量不符: %+v", tmpl.Days)
	}
}

func TestAvailabilityService_ReplaceTemplate_Overlap(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	req := &dto.ReplaceTemplateRequest{
		RecruiterID: "rec-1",
		Days: []dto.TemplateDayRequest{
			{DayOfWeek: 1, Intervals: []dto.IntervalRequest{
				{Start: "09:00", End: "12:00"},
				{Start: "11:00", End: "13:00"},
			}},
		},
	}
	_, err := svc.ReplaceTemplate(context.Background(), req, "admin-1")
	if !errors.Is(err, ErrIntervalOverlap) {
		t.Errorf("期望 ErrIntervalOverlap，实际: %v", err)
	}
}

func TestAvailabilityService_ReplaceTemplate_InvalidInterval(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	req := &dto.ReplaceTemplateRequest{
		RecruiterID: "rec-1",
		Days: []dto.TemplateDayRequest{
			{DayOfWeek: 1, Intervals: []dto.IntervalRequest{{Start: "12:00", End: "09:00"}}},
		},
	}
	_, err := svc.ReplaceTemplate(context.Background(), req, "admin-1")
	if !errors.Is(err, ErrIntervalInvalid) {
		t.Errorf("期望 ErrIntervalInvalid，实际: %v", err)
	}
}

func TestAvailabilityService_UpsertOverride_ReplacesSameDate(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	// 同日两次写入：后写覆盖前写
	_, err := svc.UpsertOverride(context.Background(), &dto.UpsertOverrideRequest{
		RecruiterID: "rec-1", Date: "2026-09-07", Kind: "holiday", Title: "假期",
	}, "admin-1")
	if err != nil {
		t.Fatalf("第一次 UpsertOverride 应成功: %v", err)
	}
	ov, err := svc.UpsertOverride(context.Background(), &dto.UpsertOverrideRequest{
		RecruiterID: "rec-1", Date: "2026-09-07", Kind: "custom",
		Intervals: []dto.IntervalRequest{{Start: "10:00", End: "11:00"}},
	}, "admin-1")
	if err != nil {
		t.Fatalf("第二次 UpsertOverride 应成功: %v", err)
	}
	if ov.Kind != "custom" {
		t.Errorf("期望 kind=custom，实际 %s", ov.Kind)
	}

	list, err := svc.ListOverrides(context.Background(), &dto.OverrideListRequest{
		RecruiterID: "rec-1", Start: "2026-09-01", End: "2026-09-30",
	})
	if err != nil {
		t.Fatalf("ListOverrides 应成功: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("同日应只有一条生效覆盖，实际 %d", len(list))
	}
	if list[0].Kind != "custom" {
		t.Errorf("生效覆盖应为后写的 custom，实际 %s", list[0].Kind)
	}
}

func TestAvailabilityService_UpsertOverride_InvalidDate(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	_, err := svc.UpsertOverride(context.Background(), &dto.UpsertOverrideRequest{
		RecruiterID: "rec-1", Date: "07/09/2026", Kind: "holiday",
	}, "admin-1")
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestAvailabilityService_DeleteOverride_NotFound(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	err := svc.DeleteOverride(context.Background(), "nonexistent", "admin-1")
	if !errors.Is(err, ErrOverrideNotFound) {
		t.Errorf("期望 ErrOverrideNotFound，实际: %v", err)
	}
}

func TestAvailabilityService_GetTemplate_NotFound(t *testing.T) {
	repos := newTestRepos()
	svc := setupTestAvailabilityService(repos)

	_, err := svc.GetTemplate(context.Background(), "rec-none")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("期望 ErrTemplateNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/availability_service_test.go
