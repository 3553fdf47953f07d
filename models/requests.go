package models

import (
	"fmt"
	"time"
)

// UserRegisterRequest 用户注册请求结构体
type UserRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=32"`
	Phone    string `json:"phone" binding:"required"`
}

// UserLoginRequest 用户登录请求结构体
type UserLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateRequest 用户信息更新请求结构体
type UserUpdateRequest struct {
	Username       string `json:"username" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email"`
	Profession     string `json:"profession"`
	Skills         string `json:"skills"`
	Goals          string `json:"goals"`
	EmailSubscribe int    `json:"emailSubscribe"`
}

// FixedTaskCreateRequest 固定任务创建请求结构体
type FixedTaskCreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

// Validate 校验时间窗口与状态取值
func (r *FixedTaskCreateRequest) Validate() error {
	if !r.StartTime.Before(r.EndTime) {
		return fmt.Errorf("开始时间必须早于结束时间")
	}
	if r.Status == "" {
		r.Status = TaskStatusPending
	}
	if r.Status != TaskStatusPending && r.Status != TaskStatusCompleted && r.Status != TaskStatusAbandoned {
		return fmt.Errorf("无效的任务状态: %s", r.Status)
	}
	return nil
}

// FixedTaskUpdateRequest 固定任务更新请求结构体
type FixedTaskUpdateRequest struct {
	ID          uint64    `json:"id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

func (r *FixedTaskUpdateRequest) Validate() error {
	c := FixedTaskCreateRequest{
		Title:     r.Title,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    r.Status,
	}
	if err := c.Validate(); err != nil {
		return err
	}
	r.Status = c.Status
	return nil
}

// TodayGoalRequest 今日目标请求结构体
type TodayGoalRequest struct {
	Goal string `json:"goal" binding:"required"`
}

// TaskAction 推荐任务确认操作：commit 启用，reject 丢弃
type TaskAction struct {
	TaskID uint64 `json:"taskId" binding:"required"`
	Action string `json:"action" binding:"required,oneof=commit reject"`
}
