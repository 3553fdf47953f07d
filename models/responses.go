package models

import "time"

// 任务类接口时间统一用 UTC 毫秒级 ISO-8601，用户类接口用本地时间
const (
	TaskTimeLayout = "2006-01-02T15:04:05.000Z"
	UserTimeLayout = "2006-01-02 15:04:05"
)

// FormatTaskTime 按任务接口格式序列化时间
func FormatTaskTime(t time.Time) string {
	return t.UTC().Format(TaskTimeLayout)
}

// FormatUserTime 按用户接口格式序列化时间
func FormatUserTime(t time.Time) string {
	return t.Local().Format(UserTimeLayout)
}

// UserLoginResponse 登录响应结构体
type UserLoginResponse struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// UserInfoResponse 用户信息响应结构体
type UserInfoResponse struct {
	ID             uint64 `json:"id"`
	Username       string `json:"username"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Profession     string `json:"profession"`
	Skills         string `json:"skills"`
	Goals          string `json:"goals"`
	EmailSubscribe int    `json:"emailSubscribe"`
	CreateTime     string `json:"createTime"`
	UpdateTime     string `json:"updateTime"`
}

// NewUserInfoResponse 将用户实体转换为响应结构体
func NewUserInfoResponse(u *User) UserInfoResponse {
	return UserInfoResponse{
		ID:             u.ID,
		Username:       u.Username,
		Phone:          u.Phone,
		Email:          u.Email,
		Profession:     u.Profession,
		Skills:         u.Skills,
		Goals:          u.Goals,
		EmailSubscribe: u.EmailSubscribe,
		CreateTime:     FormatUserTime(u.CreateTime),
		UpdateTime:     FormatUserTime(u.UpdateTime),
	}
}

// FixedTaskResponse 固定任务响应结构体
type FixedTaskResponse struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"userId"`
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreateTime  string `json:"createTime"`
	UpdateTime  string `json:"updateTime"`
}

// NewFixedTaskResponse 将固定任务实体转换为响应结构体
func NewFixedTaskResponse(t *FixedTask) FixedTaskResponse {
	return FixedTaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		StartTime:   FormatTaskTime(t.StartTime),
		EndTime:     FormatTaskTime(t.EndTime),
		Description: t.Description,
		Status:      t.Status,
		CreateTime:  FormatTaskTime(t.CreateTime),
		UpdateTime:  FormatTaskTime(t.UpdateTime),
	}
}

// NewFixedTaskResponses 批量转换
func NewFixedTaskResponses(tasks []FixedTask) []FixedTaskResponse {
	out := make([]FixedTaskResponse, len(tasks))
	for i := range tasks {
		out[i] = NewFixedTaskResponse(&tasks[i])
	}
	return out
}

// TodayGoalResponse 今日目标响应结构体
type TodayGoalResponse struct {
	ID         uint64 `json:"id"`
	UserID     uint64 `json:"userId"`
	Goal       string `json:"goal"`
	CreateTime string `json:"createTime"`
	UpdateTime string `json:"updateTime"`
}

// NewTodayGoalResponse 将今日目标实体转换为响应结构体
func NewTodayGoalResponse(g *TodayGoal) TodayGoalResponse {
	return TodayGoalResponse{
		ID:         g.ID,
		UserID:     g.UserID,
		Goal:       g.Goal,
		CreateTime: FormatTaskTime(g.CreateTime),
		UpdateTime: FormatTaskTime(g.UpdateTime),
	}
}

// RecommendedTask AI推荐任务摘要，startTime/endTime 为 HH:mm:ss
type RecommendedTask struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}
