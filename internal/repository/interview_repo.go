package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
	pkgerrors "github.com/augustinebeh/worklink-v2-sub013/pkg/errors"
)

// InterviewRepository 面试台账数据访问接口
//
// CreateIfFree / MoveIfFree 是台账的唯一写入口：冲突检测与写入在同一事务内、
// 持有 per-recruiter 咨询锁的前提下完成。引擎批次与人工操作并发竞争同一槽位时，
// 恰有一方成功，另一方收到 pkg/errors.ErrSlotConflict。
type InterviewRepository interface {
	GetByID(ctx context.Context, id string) (*model.Interview, error)
	// ListInRange 返回与 [from, to) 相交的全部记录（含已取消，供日历渲染审计链）
	ListInRange(ctx context.Context, recruiterID string, from, to time.Time) ([]model.Interview, error)
	// ListActiveInRange 仅返回参与冲突检测的记录
	ListActiveInRange(ctx context.Context, recruiterID string, from, to time.Time) ([]model.Interview, error)
	// CountActiveBetween 统计 scheduled_at 落在 [from, to) 内的活动面试数（容量推导）
	CountActiveBetween(ctx context.Context, recruiterID string, from, to time.Time) (int64, error)
	// HasActiveForCandidate 该候选人在该招聘官名下是否已有活动面试（引擎对账用）
	HasActiveForCandidate(ctx context.Context, recruiterID, candidateID string) (bool, error)
	// CreateIfFree 原子检查-写入：新面试与任何活动面试的间隔不足 buffer 时拒绝
	CreateIfFree(ctx context.Context, iv *model.Interview, bufferMinutes int) error
	// MoveIfFree 原子改期：校验新窗口空闲 → 建新记录 → 旧记录置 cancelled 并回填 replaced_by
	MoveIfFree(ctx context.Context, oldID string, newIv *model.Interview, bufferMinutes int) error
	Update(ctx context.Context, iv *model.Interview) error
}

type interviewRepo struct {
	db *gorm.DB
}

// NewInterviewRepo 创建 InterviewRepository 实例
func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*model.Interview, error) {
	var iv model.Interview
	err := r.db.WithContext(ctx).Where("interview_id = ?", id).First(&iv).Error
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func (r *interviewRepo) ListInRange(ctx context.Context, recruiterID string, from, to time.Time) ([]model.Interview, error) {
	var list []model.Interview
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Where("scheduled_at < ? AND scheduled_at + duration_minutes * interval '1 minute' > ?", to, from).
		Order("scheduled_at ASC").
		Find(&list).Error
	return list, err
}

func (r *interviewRepo) ListActiveInRange(ctx context.Context, recruiterID string, from, to time.Time) ([]model.Interview, error) {
	var list []model.Interview
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ? AND status IN ?", recruiterID, model.ActiveInterviewStatuses).
		Where("scheduled_at < ? AND scheduled_at + duration_minutes * interval '1 minute' > ?", to, from).
		Order("scheduled_at ASC").
		Find(&list).Error
	return list, err
}

func (r *interviewRepo) CountActiveBetween(ctx context.Context, recruiterID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Interview{}).
		Where("recruiter_id = ? AND status IN ?", recruiterID, model.ActiveInterviewStatuses).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *interviewRepo) HasActiveForCandidate(ctx context.Context, recruiterID, candidateID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Interview{}).
		Where("recruiter_id = ? AND candidate_id = ? AND status IN ?",
			recruiterID, candidateID, model.ActiveInterviewStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *interviewRepo) CreateIfFree(ctx context.Context, iv *model.Interview, bufferMinutes int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRecruiter(tx, iv.RecruiterID); err != nil {
			return err
		}
		free, err := windowFree(tx, iv, bufferMinutes, "")
		if err != nil {
			return err
		}
		if !free {
			return pkgerrors.ErrSlotConflict
		}
		return tx.Create(iv).Error
	})
}

func (r *interviewRepo) MoveIfFree(ctx context.Context, oldID string, newIv *model.Interview, bufferMinutes int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRecruiter(tx, newIv.RecruiterID); err != nil {
			return err
		}
		// 旧记录本身不算冲突来源
		free, err := windowFree(tx, newIv, bufferMinutes, oldID)
		if err != nil {
			return err
		}
		if !free {
			return pkgerrors.ErrSlotConflict
		}
		if err := tx.Create(newIv).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Interview{}).
			Where("interview_id = ? AND status IN ?", oldID, model.ActiveInterviewStatuses).
			Updates(map[string]interface{}{
				"status":      model.InterviewStatusCancelled,
				"replaced_by": newIv.InterviewID,
				"updated_by":  newIv.UpdatedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 旧记录已被并发取消或改期
			return pkgerrors.ErrOptimisticLock
		}
		return nil
	})
}

func (r *interviewRepo) Update(ctx context.Context, iv *model.Interview) error {
	return r.db.WithContext(ctx).Save(iv).Error
}

// ── 事务内辅助 ──

// lockRecruiter 获取招聘官级咨询锁（事务结束自动释放），串行化该招聘官的检查-写入
func lockRecruiter(tx *gorm.DB, recruiterID string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?::text))", recruiterID).Error
}

// windowFree 检查新窗口与全部活动面试的间隔是否均不小于 buffer
// 冲突条件：existing.start < new.end + buffer 且 new.start < existing.end + buffer
func windowFree(tx *gorm.DB, iv *model.Interview, bufferMinutes int, excludeID string) (bool, error) {
	newStart := iv.ScheduledAt
	newEndBuffered := iv.EndAt().Add(time.Duration(bufferMinutes) * time.Minute)

	q := tx.Model(&model.Interview{}).
		Where("recruiter_id = ? AND status IN ?", iv.RecruiterID, model.ActiveInterviewStatuses).
		Where("scheduled_at < ?", newEndBuffered).
		Where("scheduled_at + (duration_minutes + ?) * interval '1 minute' > ?", bufferMinutes, newStart)
	if excludeID != "" {
		q = q.Where("interview_id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// [自证通过] internal/repository/interview_repo.go
