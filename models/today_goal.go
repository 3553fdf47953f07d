package models

import (
	"time"
)

// TodayGoal 今日目标模型，对应数据库表 today_goal
type TodayGoal struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"index" json:"userId"`
	Goal       string    `gorm:"type:varchar(500)" json:"goal"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

// TableName 指定表名
func (TodayGoal) TableName() string {
	return "today_goal"
}
