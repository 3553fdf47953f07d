package models

import (
	"time"
)

// 邮件订阅开关
const (
	EmailSubscribeOff = 0
	EmailSubscribeOn  = 1
)

// User 用户模型
type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	Password       string    `gorm:"type:varchar(100)" json:"-"`
	Phone          string    `gorm:"type:varchar(20);uniqueIndex" json:"phone"`
	Email          string    `gorm:"type:varchar(100)" json:"email"`
	Profession     string    `gorm:"type:varchar(100)" json:"profession"`
	Skills         string    `gorm:"type:varchar(255)" json:"skills"` // 技能标签，逗号分隔
	Goals          string    `gorm:"type:varchar(255)" json:"goals"`  // 提升目标
	EmailSubscribe int       `gorm:"default:0" json:"emailSubscribe"` // 邮件订阅开关（1:开启,0:关闭）
	CreateTime     time.Time `json:"createTime"`
	UpdateTime     time.Time `json:"updateTime"`
	Deleted        int       `gorm:"default:0" json:"-"` // 软删除标记（0:未删除,1:已删除）
}

// TableName 指定表名
func (User) TableName() string {
	return "user"
}
