package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
)

// designSystemPrompt 约束模型只输出结构化JSON，时间为 HH:mm:ss
const designSystemPrompt = `你是碎时拾光的时间管理助手，负责为用户设计碎片时间提升任务。

根据用户的职业、技能、提升目标、今日目标和今日日程，推荐3-5个适合在空闲时间完成的短任务。
任务要避开用户已安排的固定任务时间段，单个任务时长控制在15-60分钟。

必须只输出如下结构的JSON，不允许输出其他任何内容，禁止使用markdown代码块：
{"tasks":[{"title":"任务标题","description":"任务描述","startTime":"HH:mm:ss","endTime":"HH:mm:ss"}]}

字段说明：
- title: 任务标题（15字内）
- description: 任务描述（50字内）
- startTime/endTime: 当天的开始和结束时间，格式 HH:mm:ss`

// 流式推荐的结束哨兵事件
const designStreamEndEvent = "end"

// DesignService AI任务推荐业务逻辑
type DesignService struct {
	client *DeepseekClient
	wg     sync.WaitGroup
}

func NewDesignService(client *DeepseekClient) *DesignService {
	return &DesignService{client: client}
}

// aiTaskPayload 模型返回的JSON结构
type aiTaskPayload struct {
	Tasks []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StartTime   string `json:"startTime"`
		EndTime     string `json:"endTime"`
	} `json:"tasks"`
}

// RecommendTasks 阻塞式推荐：一次性等模型返回全文，解析后把草稿任务入库
func (s *DesignService) RecommendTasks(ctx context.Context, userID uint64) models.Result {
	config.Logger.Infow("开始生成AI任务推荐", "userID", userID)

	userPrompt, result := s.buildPromptForUser(ctx, userID)
	if !result.OK() {
		return result
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(designSystemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := s.client.DsChat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		config.Logger.Errorw("AI调用失败", "userID", userID, "error", err)
		return models.Error("AI任务推荐失败，请稍后重试")
	}
	if len(response.Choices) == 0 {
		return models.Error("AI任务推荐失败，请稍后重试")
	}

	tasks, err := s.parseAndStageTasks(response.Choices[0].Content, userID)
	if err != nil {
		config.Logger.Errorw("解析AI返回内容失败", "userID", userID, "error", err)
		return models.Error("解析AI返回数据失败: " + err.Error())
	}

	config.Logger.Infow("AI任务推荐完成", "userID", userID, "count", len(tasks))
	return models.Success(tasks)
}

// StreamDesign 流式推荐。后台协程调用模型并持有输出通道，正常完成或出错
// 都只关闭一次通道；模型完整返回后解析入库，向通道推送任务摘要JSON和
// 结束哨兵。错误以 "错误：" 开头的事件形式推送，随后通道关闭。
func (s *DesignService) StreamDesign(ctx context.Context, userID uint64) <-chan string {
	events := make(chan string)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(events)

		userPrompt, result := s.buildPromptForUser(ctx, userID)
		if !result.OK() {
			events <- "错误：" + result.Msg
			return
		}

		messages := []llms.MessageContent{
			{
				Role:  schema.ChatMessageTypeSystem,
				Parts: []llms.ContentPart{llms.TextPart(designSystemPrompt)},
			},
			{
				Role:  schema.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
			},
		}

		var fullResponse strings.Builder
		options := []llms.CallOption{
			llms.WithTemperature(0.7),
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				fullResponse.Write(chunk)
				return nil
			}),
		}

		if _, err := s.client.DsChat.GenerateContent(ctx, messages, options...); err != nil {
			config.Logger.Errorw("AI调用失败", "userID", userID, "error", err)
			events <- "错误：AI调用失败 - " + err.Error()
			return
		}

		tasks, err := s.parseAndStageTasks(fullResponse.String(), userID)
		if err != nil {
			config.Logger.Errorw("解析AI返回内容失败", "userID", userID, "error", err)
			events <- "错误：解析AI返回数据失败 - " + err.Error()
			return
		}

		payload, err := json.Marshal(tasks)
		if err != nil {
			events <- "错误：序列化推荐结果失败"
			return
		}

		events <- string(payload)
		events <- designStreamEndEvent
		config.Logger.Infow("AI任务推荐完成", "userID", userID, "count", len(tasks))
	}()

	return events
}

// buildPromptForUser 取用户画像和当天的目标、日程，拼出用户提示词。
// 任何外部调用之前先校验用户存在。
func (s *DesignService) buildPromptForUser(ctx context.Context, userID uint64) (string, models.Result) {
	var user models.User
	if err := config.DB.Where("id = ? AND deleted = 0", userID).First(&user).Error; err != nil {
		return "", models.Error("用户不存在")
	}

	startOfDay, endOfDay := todayRange()
	todayTasks, err := selectTasksInRange(config.DB, userID, startOfDay, endOfDay)
	if err != nil {
		config.Logger.Errorw("查询今日固定任务失败", "userID", userID, "error", err)
		return "", models.Error("查询今日日程失败")
	}
	todayGoals, err := selectGoalsInRange(userID, startOfDay, endOfDay)
	if err != nil {
		config.Logger.Errorw("查询今日目标失败", "userID", userID, "error", err)
		return "", models.Error("查询今日目标失败")
	}

	return buildUserPrompt(&user, todayTasks, todayGoals, s.previousTitles(ctx, userID)), models.Success(nil)
}

// buildUserPrompt 拼接发给模型的用户提示内容
func buildUserPrompt(user *models.User, todayTasks []models.FixedTask, todayGoals []models.TodayGoal, previousTitles string) string {
	orUnset := func(s string) string {
		if s == "" {
			return "未设置"
		}
		return s
	}

	var prompt strings.Builder
	prompt.WriteString("用户信息:\n")
	prompt.WriteString("职业: " + orUnset(user.Profession) + "\n")
	prompt.WriteString("技能: " + orUnset(user.Skills) + "\n")
	prompt.WriteString("目标: " + orUnset(user.Goals) + "\n")

	if len(todayGoals) > 0 {
		prompt.WriteString("今日目标:\n")
		for _, goal := range todayGoals {
			prompt.WriteString("- " + goal.Goal + "\n")
		}
	}
	prompt.WriteString("\n")

	prompt.WriteString("今日已安排的固定任务:\n")
	if len(todayTasks) == 0 {
		prompt.WriteString("暂无固定任务安排\n")
	} else {
		for _, task := range todayTasks {
			prompt.WriteString(fmt.Sprintf("- %s (%s-%s)\n",
				task.Title,
				task.StartTime.Format("15:04"),
				task.EndTime.Format("15:04")))
		}
	}

	if previousTitles != "" {
		prompt.WriteString("\n此前已推荐过的任务（避免重复推荐）: " + previousTitles + "\n")
	}

	prompt.WriteString("\n请根据用户的职业、技能、目标、今日目标和今日日程，推荐3-5个适合的碎片时间提升任务。")
	return prompt.String()
}

// parseAndStageTasks 解析模型返回的JSON，把推荐任务以草稿状态入库。
// 整个JSON先解析校验完，再写库，解析失败时不会留下半截数据。
func (s *DesignService) parseAndStageTasks(raw string, userID uint64) ([]models.RecommendedTask, error) {
	var payload aiTaskPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("无效的JSON: %v", err)
	}
	if len(payload.Tasks) == 0 {
		return nil, fmt.Errorf("返回结果中没有任务")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	staged := make([]models.FixedTask, 0, len(payload.Tasks))
	for _, t := range payload.Tasks {
		start, err := parseClock(today, t.StartTime)
		if err != nil {
			return nil, fmt.Errorf("无效的开始时间 %q", t.StartTime)
		}
		end, err := parseClock(today, t.EndTime)
		if err != nil {
			return nil, fmt.Errorf("无效的结束时间 %q", t.EndTime)
		}

		staged = append(staged, models.FixedTask{
			UserID:      userID,
			Title:       t.Title,
			Description: t.Description,
			StartTime:   start,
			EndTime:     end,
			Status:      "0", // 草稿未确认
			Deleted:     models.TaskStaged,
			CreateTime:  now,
			UpdateTime:  now,
		})
	}

	details := make([]models.RecommendedTask, 0, len(staged))
	titles := make([]string, 0, len(staged))
	for i := range staged {
		if err := config.DB.Create(&staged[i]).Error; err != nil {
			return nil, fmt.Errorf("保存推荐任务失败: %v", err)
		}
		details = append(details, models.RecommendedTask{
			ID:          staged[i].ID,
			Title:       staged[i].Title,
			Description: staged[i].Description,
			StartTime:   staged[i].StartTime.Format("15:04:05"),
			EndTime:     staged[i].EndTime.Format("15:04:05"),
		})
		titles = append(titles, staged[i].Title)
		config.Logger.Infow("保存推荐任务", "title", staged[i].Title, "taskID", staged[i].ID)
	}

	s.rememberBatch(userID, titles)
	return details, nil
}

// ConfirmTasks 确认推荐任务：commit 把草稿转为正式待办，reject 物理删除。
// 只有仍处于草稿状态的任务可被操作，其余一律跳过并记日志，重复确认天然无效。
func (s *DesignService) ConfirmTasks(userID uint64, actions []models.TaskAction) models.Result {
	if len(actions) == 0 {
		return models.Error("请选择要操作的任务")
	}

	config.Logger.Infow("用户操作推荐任务", "userID", userID, "count", len(actions))

	commitCount := 0
	rejectCount := 0
	for _, action := range actions {
		var task models.FixedTask
		err := config.DB.Where("id = ? AND user_id = ? AND deleted = ?",
			action.TaskID, userID, models.TaskStaged).First(&task).Error
		if err != nil {
			config.Logger.Warnw("任务不存在或已处理", "taskID", action.TaskID)
			continue
		}

		switch action.Action {
		case "commit":
			err := config.DB.Model(&models.FixedTask{}).
				Where("id = ? AND user_id = ? AND deleted = ?", action.TaskID, userID, models.TaskStaged).
				Updates(map[string]interface{}{
					"deleted":     models.TaskLive,
					"status":      models.TaskStatusPending,
					"update_time": time.Now(),
				}).Error
			if err != nil {
				config.Logger.Errorw("启用任务失败", "taskID", action.TaskID, "error", err)
				continue
			}
			commitCount++
			config.Logger.Infow("启用任务成功", "title", task.Title, "taskID", action.TaskID)
		case "reject":
			err := config.DB.Where("id = ? AND user_id = ? AND deleted = ?",
				action.TaskID, userID, models.TaskStaged).Delete(&models.FixedTask{}).Error
			if err != nil {
				config.Logger.Errorw("删除任务失败", "taskID", action.TaskID, "error", err)
				continue
			}
			rejectCount++
			config.Logger.Infow("删除任务成功", "title", task.Title, "taskID", action.TaskID)
		}
	}

	if commitCount == 0 && rejectCount == 0 {
		return models.Error("没有可操作的任务")
	}

	var msg strings.Builder
	if commitCount > 0 {
		fmt.Fprintf(&msg, "成功启用%d个任务", commitCount)
	}
	if rejectCount > 0 {
		if msg.Len() > 0 {
			msg.WriteString("，")
		}
		fmt.Fprintf(&msg, "成功删除%d个任务", rejectCount)
	}

	config.Logger.Infow("任务操作完成", "commit", commitCount, "reject", rejectCount)
	return models.SuccessMsg(msg.String())
}

// rememberBatch 把本次推荐的任务标题写入Redis，下次推荐时提示模型避免重复
func (s *DesignService) rememberBatch(userID uint64, titles []string) {
	if config.RedisClient == nil || len(titles) == 0 {
		return
	}
	key := fmt.Sprintf("design:last:%d", userID)
	err := config.RedisClient.Set(context.Background(), key, strings.Join(titles, "、"), 24*time.Hour).Err()
	if err != nil {
		config.Logger.Warnw("记录推荐历史失败", "userID", userID, "error", err)
	}
}

// previousTitles 读取上一批推荐任务的标题，没有记录时返回空串
func (s *DesignService) previousTitles(ctx context.Context, userID uint64) string {
	if config.RedisClient == nil {
		return ""
	}
	key := fmt.Sprintf("design:last:%d", userID)
	titles, err := config.RedisClient.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return titles
}

// parseClock 把 HH:mm:ss 挂到指定日期上
func parseClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, day.Location()), nil
}

// todayRange 返回今天的 [0点, 明天0点) 区间
func todayRange() (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// Wait 等待所有后台推荐任务结束，用于优雅关闭
func (s *DesignService) Wait() {
	s.wg.Wait()
}
