package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/augustinebeh/worklink-v2-sub013/config"
	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	"github.com/augustinebeh/worklink-v2-sub013/internal/repository"
	pkgerrors "github.com/augustinebeh/worklink-v2-sub013/pkg/errors"
)

// ── Mock WeeklyTemplateRepository ──

type mockTemplateRepo struct {
	templates map[string]*model.WeeklyTemplate // recruiterID → 生效模板
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{templates: make(map[string]*model.WeeklyTemplate)}
}

func (m *mockTemplateRepo) GetByRecruiter(_ context.Context, recruiterID string) (*model.WeeklyTemplate, error) {
	if t, ok := m.templates[recruiterID]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateRepo) Replace(_ context.Context, tmpl *model.WeeklyTemplate) error {
	m.templates[tmpl.RecruiterID] = tmpl
	return nil
}

// ── Mock DateOverrideRepository ──

type mockOverrideRepo struct {
	overrides map[string]*model.DateOverride
}

func newMockOverrideRepo() *mockOverrideRepo {
	return &mockOverrideRepo{overrides: make(map[string]*model.DateOverride)}
}

func (m *mockOverrideRepo) GetByID(_ context.Context, id string) (*model.DateOverride, error) {
	if ov, ok := m.overrides[id]; ok {
		return ov, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOverrideRepo) ListByRange(_ context.Context, recruiterID string, start, end time.Time) ([]model.DateOverride, error) {
	var result []model.DateOverride
	for _, ov := range m.overrides {
		if ov.RecruiterID == recruiterID && !ov.Date.Before(start) && !ov.Date.After(end) {
			result = append(result, *ov)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockOverrideRepo) Upsert(_ context.Context, ov *model.DateOverride) error {
	for id, existing := range m.overrides {
		if existing.RecruiterID == ov.RecruiterID && existing.Date.Equal(ov.Date) {
			delete(m.overrides, id)
		}
	}
	m.overrides[ov.OverrideID] = ov
	return nil
}

func (m *mockOverrideRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.overrides, id)
	return nil
}

// ── Mock QueueRepository ──

type mockQueueRepo struct {
	entries map[string]*model.QueueEntry
}

func newMockQueueRepo() *mockQueueRepo {
	return &mockQueueRepo{entries: make(map[string]*model.QueueEntry)}
}

func (m *mockQueueRepo) Create(_ context.Context, entry *model.QueueEntry) error {
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockQueueRepo) GetByID(_ context.Context, id string) (*model.QueueEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQueueRepo) ListWaiting(ctx context.Context) ([]model.QueueEntry, error) {
	return m.ListByStatus(ctx, model.QueueStatusWaiting)
}

func (m *mockQueueRepo) ListByStatus(_ context.Context, status string) ([]model.QueueEntry, error) {
	var result []model.QueueEntry
	for _, e := range m.entries {
		if e.Status == status {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AddedAt.Before(result[j].AddedAt) })
	return result, nil
}

func (m *mockQueueRepo) Update(_ context.Context, entry *model.QueueEntry) error {
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *mockQueueRepo) MarkExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, e := range m.entries {
		if e.Status == model.QueueStatusWaiting && e.AddedAt.Before(cutoff) {
			e.Status = model.QueueStatusExpired
			n++
		}
	}
	return n, nil
}

// ── Mock InterviewRepository ──
//
// 检查-写入持同一把互斥锁，复刻生产实现中咨询锁的串行化语义：
// 并发竞争同一槽位时恰有一方成功。

type mockInterviewRepo struct {
	mu         sync.Mutex
	interviews map[string]*model.Interview
	// forceConflicts > 0 时，接下来 n 次 CreateIfFree 直接报槽位冲突（模拟并发撞车）
	forceConflicts int
}

func newMockInterviewRepo() *mockInterviewRepo {
	return &mockInterviewRepo{interviews: make(map[string]*model.Interview)}
}

func (m *mockInterviewRepo) GetByID(_ context.Context, id string) (*model.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if iv, ok := m.interviews[id]; ok {
		return iv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInterviewRepo) ListInRange(_ context.Context, recruiterID string, from, to time.Time) ([]model.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Interview
	for _, iv := range m.interviews {
		if iv.RecruiterID == recruiterID && iv.ScheduledAt.Before(to) && iv.EndAt().After(from) {
			result = append(result, *iv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduledAt.Before(result[j].ScheduledAt) })
	return result, nil
}

func (m *mockInterviewRepo) ListActiveInRange(ctx context.Context, recruiterID string, from, to time.Time) ([]model.Interview, error) {
	all, _ := m.ListInRange(ctx, recruiterID, from, to)
	var result []model.Interview
	for i := range all {
		if all[i].IsActive() {
			result = append(result, all[i])
		}
	}
	return result, nil
}

func (m *mockInterviewRepo) CountActiveBetween(_ context.Context, recruiterID string, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, iv := range m.interviews {
		if iv.RecruiterID == recruiterID && iv.IsActive() &&
			!iv.ScheduledAt.Before(from) && iv.ScheduledAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *mockInterviewRepo) HasActiveForCandidate(_ context.Context, recruiterID, candidateID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, iv := range m.interviews {
		if iv.RecruiterID == recruiterID && iv.CandidateID == candidateID && iv.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInterviewRepo) CreateIfFree(_ context.Context, iv *model.Interview, bufferMinutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forceConflicts > 0 {
		m.forceConflicts--
		return pkgerrors.ErrSlotConflict
	}
	if !m.windowFree(iv, bufferMinutes, "") {
		return pkgerrors.ErrSlotConflict
	}
	m.interviews[iv.InterviewID] = iv
	return nil
}

func (m *mockInterviewRepo) MoveIfFree(_ context.Context, oldID string, newIv *model.Interview, bufferMinutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.interviews[oldID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !old.IsActive() {
		return pkgerrors.ErrOptimisticLock
	}
	if !m.windowFree(newIv, bufferMinutes, oldID) {
		return pkgerrors.ErrSlotConflict
	}
	m.interviews[newIv.InterviewID] = newIv
	old.Status = model.InterviewStatusCancelled
	old.ReplacedBy = &newIv.InterviewID
	return nil
}

func (m *mockInterviewRepo) Update(_ context.Context, iv *model.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interviews[iv.InterviewID] = iv
	return nil
}

// windowFree 与生产实现同一冲突公式：
// existing.start < new.end + buffer 且 new.start < existing.end + buffer
func (m *mockInterviewRepo) windowFree(iv *model.Interview, bufferMinutes int, excludeID string) bool {
	buffer := time.Duration(bufferMinutes) * time.Minute
	newEndBuffered := iv.EndAt().Add(buffer)
	for id, existing := range m.interviews {
		if id == excludeID || existing.RecruiterID != iv.RecruiterID || !existing.IsActive() {
			continue
		}
		if existing.ScheduledAt.Before(newEndBuffered) && iv.ScheduledAt.Before(existing.EndAt().Add(buffer)) {
			return false
		}
	}
	return true
}

// ── 测试辅助 ──

type testRepos struct {
	template  *mockTemplateRepo
	override  *mockOverrideRepo
	queue     *mockQueueRepo
	interview *mockInterviewRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		template:  newMockTemplateRepo(),
		override:  newMockOverrideRepo(),
		queue:     newMockQueueRepo(),
		interview: newMockInterviewRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		WeeklyTemplate: r.template,
		DateOverride:   r.override,
		Queue:          r.queue,
		Interview:      r.interview,
	}
}

func testSchedulerConfig() *config.SchedulerConfig {
	return &config.SchedulerConfig{
		Timezone:            "Asia/Singapore",
		SlotDurationMinutes: 30,
		LookAheadDays:       14,
		DailyCeiling:        20,
		WeeklyCeiling:       100,
		QueueTTLDays:        30,
	}
}

// mustLoc 调度时区（Asia/Singapore 无夏令时，测试时刻可精确断言）
func mustLoc() *time.Location {
	loc, err := time.LoadLocation("Asia/Singapore")
	if err != nil {
		panic(err)
	}
	return loc
}

// seedMondayTemplate 周一 09:00-12:00、缓冲 15 分钟的典型模板
func seedMondayTemplate(repos *testRepos, recruiterID string) {
	repos.template.templates[recruiterID] = &model.WeeklyTemplate{
		TemplateID:    "tmpl-" + recruiterID,
		RecruiterID:   recruiterID,
		BufferMinutes: 15,
		Intervals: []model.TemplateInterval{
			{IntervalID: "iv-1", TemplateID: "tmpl-" + recruiterID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
		},
	}
}

// [自证通过] internal/service/mock_repos_test.go
