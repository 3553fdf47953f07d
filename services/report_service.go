package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
)

// ReportService 日报业务逻辑：汇总订阅用户当天的目标和任务完成情况，
// 渲染HTML邮件并发送
type ReportService struct {
	mailer Mailer
	wg     sync.WaitGroup
}

func NewReportService(mailer Mailer) *ReportService {
	return &ReportService{mailer: mailer}
}

// ReportStats 任务完成统计
type ReportStats struct {
	Total          int
	Completed      int
	Pending        int
	Abandoned      int
	CompletionRate float64 // 百分比
}

// ComputeReportStats 按状态统计任务完成情况，没有任务时完成率记0
func ComputeReportStats(tasks []models.FixedTask) ReportStats {
	stats := ReportStats{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusPending:
			stats.Pending++
		case models.TaskStatusAbandoned:
			stats.Abandoned++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

// CompletionComment 按完成率分档给出评语
func CompletionComment(rate float64) string {
	switch {
	case rate >= 80:
		return "🎉 完成率很高！您的时间管理能力很棒，继续保持！"
	case rate >= 60:
		return "👍 完成率不错！还有提升空间，加油！"
	case rate >= 40:
		return "💪 完成率有待提高，建议合理安排任务量和时间。"
	default:
		return "🤔 今日完成率较低，建议反思任务安排是否合理，明日调整计划。"
	}
}

// SendDailyReportsToAllSubscribers 给所有订阅用户发送日报。每个用户独立
// 一个协程，单个用户失败只记日志，不影响其他用户。
func (s *ReportService) SendDailyReportsToAllSubscribers() {
	config.Logger.Infow("开始为所有订阅用户发送日报")

	var subscribers []models.User
	err := config.DB.Where("email_subscribe = ? AND deleted = 0 AND email != ''",
		models.EmailSubscribeOn).Find(&subscribers).Error
	if err != nil {
		config.Logger.Errorw("查询订阅用户失败", "error", err)
		return
	}

	config.Logger.Infow("找到订阅用户", "count", len(subscribers))

	for i := range subscribers {
		user := subscribers[i]
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					config.Logger.Errorw("日报任务panic", "username", user.Username, "panic", r)
				}
			}()
			s.GenerateAndSendDailyReport(&user)
		}()
	}
}

// GenerateAndSendDailyReport 为单个用户生成并发送日报
func (s *ReportService) GenerateAndSendDailyReport(user *models.User) {
	config.Logger.Infow("开始生成日报", "username", user.Username)

	// 同一天只发一次，调度重跑时靠Redis标记去重
	if !s.markReportSent(user.ID) {
		config.Logger.Infow("今日日报已发送过，跳过", "username", user.Username)
		return
	}

	startOfDay, endOfDay := todayRange()
	todayGoals, err := selectGoalsInRange(user.ID, startOfDay, endOfDay)
	if err != nil {
		config.Logger.Errorw("查询今日目标失败", "username", user.Username, "error", err)
		return
	}
	todayTasks, err := selectTasksInRange(config.DB, user.ID, startOfDay, endOfDay)
	if err != nil {
		config.Logger.Errorw("查询今日任务失败", "username", user.Username, "error", err)
		return
	}

	content, err := RenderDailyReport(user, todayGoals, todayTasks)
	if err != nil {
		config.Logger.Errorw("渲染日报失败", "username", user.Username, "error", err)
		return
	}

	subject := "📊 您的每日总结 - " + time.Now().Format("2006-01-02")
	if err := s.mailer.Send(user.Email, subject, content); err != nil {
		config.Logger.Errorw("日报邮件发送失败", "username", user.Username, "email", user.Email, "error", err)
		return
	}

	config.Logger.Infow("日报邮件已发送", "username", user.Username, "email", user.Email)
}

// markReportSent 打当日已发送标记，返回 false 表示今天已经发过
func (s *ReportService) markReportSent(userID uint64) bool {
	if config.RedisClient == nil {
		return true
	}
	key := fmt.Sprintf("daily_report:%s:%d", time.Now().Format("2006-01-02"), userID)
	ok, err := config.RedisClient.SetNX(context.Background(), key, 1, 24*time.Hour).Result()
	if err != nil {
		config.Logger.Warnw("日报去重标记失败", "userID", userID, "error", err)
		return true
	}
	return ok
}

// Wait 等待所有日报协程结束，用于优雅关闭
func (s *ReportService) Wait() {
	s.wg.Wait()
}

// reportTaskView 邮件模板里的单条任务
type reportTaskView struct {
	Title       string
	Description string
	TimeWindow  string
	StatusText  string
	StatusIcon  string
	StatusColor string
}

// reportView 邮件模板数据
type reportView struct {
	Date           string
	Username       string
	Goals          []string
	Tasks          []reportTaskView
	Stats          ReportStats
	CompletionRate string
	Comment        string
	Profession     string
	UserGoals      string
}

var reportTemplate = template.Must(template.New("daily_report").Parse(`<html><head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; text-align: center; margin-bottom: 20px;">
  <h1 style="margin: 0; font-size: 24px;">📊 每日总结报告</h1>
  <p style="margin: 10px 0 0 0; opacity: 0.9;">{{.Date}}</p>
</div>
<div style="background: #f8f9fa; padding: 15px; border-radius: 8px; margin-bottom: 20px;">
  <p style="margin: 0;">亲爱的 <strong>{{.Username}}</strong>，</p>
  <p style="margin: 10px 0 0 0;">感谢您使用碎时拾光进行时间管理！以下是您今日的目标回顾和总结。</p>
</div>
<div style="background: white; border: 1px solid #e9ecef; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
  <h2 style="color: #495057; margin-top: 0; border-bottom: 2px solid #007bff; padding-bottom: 10px;">🎯 今日目标回顾</h2>
  {{if .Goals}}
  <p style="margin: 0 0 10px 0; color: #155724;">今日共设定 <strong>{{len .Goals}}</strong> 个目标</p>
  <ul style="list-style: none; padding: 0;">
    {{range $i, $goal := .Goals}}
    <li style="background: #f8f9fa; margin: 8px 0; padding: 12px; border-left: 4px solid #007bff; border-radius: 4px;">{{$goal}}</li>
    {{end}}
  </ul>
  <p style="color: #28a745; font-style: italic; margin-top: 15px;">🌟 每一个小目标都是进步的开始，为您的坚持点赞！</p>
  {{else}}
  <div style="background: #fff3cd; border: 1px solid #ffeaa7; border-radius: 5px; padding: 15px;">
    <p style="margin: 0; color: #856404;">📝 今日暂无设定目标</p>
    <p style="margin: 10px 0 0 0; color: #856404; font-size: 14px;">建议明天为自己制定一些小目标，让每一天都更有方向！</p>
  </div>
  {{end}}
</div>
<div style="background: white; border: 1px solid #e9ecef; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
  <h2 style="color: #495057; margin-top: 0; border-bottom: 2px solid #17a2b8; padding-bottom: 10px;">📋 任务完成情况</h2>
  {{if .Tasks}}
  <div style="background: #d1ecf1; border: 1px solid #bee5eb; border-radius: 5px; padding: 15px; margin-bottom: 15px;">
    <p style="margin: 0; color: #0c5460;">今日共安排 <strong>{{.Stats.Total}}</strong> 个任务，完成率为 <strong>{{.CompletionRate}}%</strong></p>
    <div style="margin-top: 10px;">
      <span style="background: #28a745; color: white; padding: 3px 8px; border-radius: 3px; margin-right: 8px; font-size: 12px;">✅ 已完成: {{.Stats.Completed}}</span>
      <span style="background: #ffc107; color: #212529; padding: 3px 8px; border-radius: 3px; margin-right: 8px; font-size: 12px;">⏳ 待完成: {{.Stats.Pending}}</span>
      <span style="background: #dc3545; color: white; padding: 3px 8px; border-radius: 3px; font-size: 12px;">❌ 已放弃: {{.Stats.Abandoned}}</span>
    </div>
  </div>
  <ul style="list-style: none; padding: 0;">
    {{range .Tasks}}
    <li style="background: #f8f9fa; margin: 8px 0; padding: 12px; border-left: 4px solid {{.StatusColor}}; border-radius: 4px;">
      <span style="font-weight: bold; color: #495057;">{{.Title}}</span>
      {{if .Description}}<br><span style="color: #6c757d; font-size: 14px;">{{.Description}}</span>{{end}}
      <br><span style="color: #6c757d; font-size: 12px;">时间: {{.TimeWindow}}</span>
      <span style="background: {{.StatusColor}}; color: white; padding: 4px 8px; border-radius: 12px; font-size: 12px; float: right;">{{.StatusIcon}} {{.StatusText}}</span>
    </li>
    {{end}}
  </ul>
  <p style="font-style: italic; margin-top: 15px;">{{.Comment}}</p>
  {{else}}
  <div style="background: #f8d7da; border: 1px solid #f5c6cb; border-radius: 5px; padding: 15px;">
    <p style="margin: 0; color: #721c24;">📝 今日暂无安排任务</p>
    <p style="margin: 10px 0 0 0; color: #721c24; font-size: 14px;">建议明天为自己安排一些具体的任务，让时间更有价值！</p>
  </div>
  {{end}}
</div>
{{if or .Profession .UserGoals}}
<div style="background: white; border: 1px solid #e9ecef; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
  <h2 style="color: #495057; margin-top: 0; border-bottom: 2px solid #28a745; padding-bottom: 10px;">👤 个人信息</h2>
  {{if .Profession}}<p style="margin: 10px 0;"><strong>💼 职业：</strong>{{.Profession}}</p>{{end}}
  {{if .UserGoals}}<p style="margin: 10px 0;"><strong>🎯 提升目标：</strong>{{.UserGoals}}</p>{{end}}
</div>
{{end}}
<div style="background: white; border: 1px solid #e9ecef; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
  <h2 style="color: #495057; margin-top: 0; border-bottom: 2px solid #ffc107; padding-bottom: 10px;">💡 明日建议</h2>
  <div style="background: #fff3cd; border-radius: 5px; padding: 15px;">
    <ul style="margin: 0; padding-left: 20px; color: #856404;">
      <li style="margin: 8px 0;">继续保持良好的目标设定习惯，让每一天都有明确方向</li>
      <li style="margin: 8px 0;">合理安排时间，劳逸结合，保持身心健康</li>
      <li style="margin: 8px 0;">记录每日收获，积累成长经验，见证自己的进步</li>
      <li style="margin: 8px 0;">善用碎片时间，让时间管理成为生活的好习惯</li>
    </ul>
  </div>
</div>
<div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; text-align: center;">
  <p style="margin: 0; font-size: 18px; font-weight: bold;">🌟 祝您明天更加精彩！</p>
  <p style="margin: 10px 0 0 0; opacity: 0.9; font-size: 14px;">来自碎时拾光团队</p>
</div>
</body></html>`))

// RenderDailyReport 渲染日报HTML
func RenderDailyReport(user *models.User, goals []models.TodayGoal, tasks []models.FixedTask) (string, error) {
	stats := ComputeReportStats(tasks)

	view := reportView{
		Date:           time.Now().Format("2006-01-02"),
		Username:       user.Username,
		Stats:          stats,
		CompletionRate: fmt.Sprintf("%.1f", stats.CompletionRate),
		Comment:        CompletionComment(stats.CompletionRate),
		Profession:     user.Profession,
		UserGoals:      user.Goals,
	}

	for _, goal := range goals {
		view.Goals = append(view.Goals, goal.Goal)
	}

	for _, task := range tasks {
		tv := reportTaskView{
			Title:       task.Title,
			Description: task.Description,
			TimeWindow:  task.StartTime.Format("15:04") + " - " + task.EndTime.Format("15:04"),
		}
		switch task.Status {
		case models.TaskStatusCompleted:
			tv.StatusText, tv.StatusIcon, tv.StatusColor = "已完成", "✅", "#28a745"
		case models.TaskStatusAbandoned:
			tv.StatusText, tv.StatusIcon, tv.StatusColor = "已放弃", "❌", "#dc3545"
		default:
			tv.StatusText, tv.StatusIcon, tv.StatusColor = "待完成", "⏳", "#ffc107"
		}
		view.Tasks = append(view.Tasks, tv)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
