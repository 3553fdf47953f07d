package services

import "errors"

// 业务哨兵错误，事务回调里用来区分回滚原因
var (
	errTimeConflict = errors.New("时间段冲突")
	errTaskNotFound = errors.New("固定任务不存在")
)
