package models

import (
	"time"
)

// 任务状态：pending-待开始，completed-已完成，abandoned-已放弃
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
	TaskStatusAbandoned = "abandoned"
)

// 任务可见性状态。历史上 staged 和已删除共用 1，导致 AI 草稿和用户删掉的
// 真实任务无法区分，这里拆成三个独立取值：
//
//	0 正式任务；1 已软删除；2 AI推荐草稿，等待用户确认
const (
	TaskLive    = 0
	TaskDeleted = 1
	TaskStaged  = 2
)

// FixedTask 固定任务模型，对应数据库表 fixed_task
type FixedTask struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"index" json:"userId"`
	Title       string    `gorm:"type:varchar(100)" json:"title"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	Status      string    `gorm:"type:varchar(20)" json:"status"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
	Deleted     int       `gorm:"default:0" json:"-"` // TaskLive / TaskDeleted / TaskStaged
}

// TableName 指定表名
func (FixedTask) TableName() string {
	return "fixed_task"
}
