package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
)

// fakeModel 返回固定内容的模型桩，带流式回调时按块推送
type fakeModel struct {
	content string
	err     error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.StreamingFunc != nil {
		for _, chunk := range []byte(f.content) {
			if err := opts.StreamingFunc(ctx, []byte{chunk}); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.content}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func newTestDesignService(content string, err error) *DesignService {
	return NewDesignService(&DeepseekClient{DsChat: &fakeModel{content: content, err: err}})
}

const goodModelOutput = `{"tasks":[
	{"title":"背20个单词","description":"利用通勤时间记忆高频词汇","startTime":"08:30:00","endTime":"09:00:00"},
	{"title":"阅读技术文章","description":"精读一篇后端架构文章","startTime":"12:30:00","endTime":"13:00:00"},
	{"title":"整理学习笔记","description":"回顾并整理当天的学习要点","startTime":"21:00:00","endTime":"21:30:00"}
]}`

func stagedTaskCount(userID uint64) int64 {
	var count int64
	config.DB.Model(&models.FixedTask{}).
		Where("user_id = ? AND deleted = ?", userID, models.TaskStaged).Count(&count)
	return count
}

func TestRecommendTasksStagesDrafts(t *testing.T) {
	setupTestDB(t)
	svc := newTestDesignService(goodModelOutput, nil)
	user := mustCreateUser(t, "alice", "13800138000")

	result := svc.RecommendTasks(context.Background(), user.ID)
	if !result.OK() {
		t.Fatalf("推荐失败: %s", result.Msg)
	}

	tasks := result.Data.([]models.RecommendedTask)
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
	if tasks[0].StartTime != "08:30:00" || tasks[0].EndTime != "09:00:00" {
		t.Errorf("推荐任务时间 = %s-%s, want 08:30:00-09:00:00", tasks[0].StartTime, tasks[0].EndTime)
	}

	// 入库的是草稿，不出现在正式任务列表里
	if got := stagedTaskCount(user.ID); got != 3 {
		t.Errorf("草稿任务数 = %d, want 3", got)
	}
	var staged models.FixedTask
	config.DB.Where("user_id = ? AND deleted = ?", user.ID, models.TaskStaged).First(&staged)
	if staged.Status != "0" {
		t.Errorf("草稿状态 = %q, want 0", staged.Status)
	}

	listed := NewFixedTaskService().ListMine(user.ID)
	if got := len(listed.Data.([]models.FixedTaskResponse)); got != 0 {
		t.Errorf("正式任务列表长度 = %d, 草稿不应出现在其中", got)
	}
}

func TestRecommendTasksMalformedJSONLeavesNoRows(t *testing.T) {
	setupTestDB(t)
	user := mustCreateUser(t, "alice", "13800138000")

	cases := map[string]string{
		"非JSON":  "今天天气不错，建议多休息",
		"空任务列表":  `{"tasks":[]}`,
		"无效时间格式": `{"tasks":[{"title":"任务","description":"","startTime":"8点半","endTime":"09:00:00"}]}`,
		"部分时间无效": `{"tasks":[{"title":"好任务","description":"","startTime":"08:00:00","endTime":"08:30:00"},{"title":"坏任务","description":"","startTime":"09:00:00","endTime":"晚上"}]}`,
	}

	for name, output := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestDesignService(output, nil)
			result := svc.RecommendTasks(context.Background(), user.ID)
			if result.OK() {
				t.Fatal("无效的模型输出不应成功")
			}
			// 解析失败不能留下半截数据
			if got := stagedTaskCount(user.ID); got != 0 {
				t.Errorf("草稿任务数 = %d, want 0", got)
			}
		})
	}
}

func TestRecommendTasksUnknownUser(t *testing.T) {
	setupTestDB(t)
	svc := newTestDesignService(goodModelOutput, nil)

	result := svc.RecommendTasks(context.Background(), 9999)
	if result.OK() {
		t.Fatal("不存在的用户不应得到推荐")
	}
	if result.Msg != "用户不存在" {
		t.Errorf("Msg = %q, want 用户不存在", result.Msg)
	}
}

func TestStreamDesignEmitsTasksAndEndSentinel(t *testing.T) {
	setupTestDB(t)
	svc := newTestDesignService(goodModelOutput, nil)
	user := mustCreateUser(t, "alice", "13800138000")

	var events []string
	for event := range svc.StreamDesign(context.Background(), user.ID) {
		events = append(events, event)
	}
	svc.Wait()

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2: %v", len(events), events)
	}

	var tasks []models.RecommendedTask
	if err := json.Unmarshal([]byte(events[0]), &tasks); err != nil {
		t.Fatalf("第一个事件应是任务JSON: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("len(tasks) = %d, want 3", len(tasks))
	}
	if events[1] != designStreamEndEvent {
		t.Errorf("最后一个事件 = %q, want %q", events[1], designStreamEndEvent)
	}

	if got := stagedTaskCount(user.ID); got != 3 {
		t.Errorf("草稿任务数 = %d, want 3", got)
	}
}

func TestStreamDesignModelFailure(t *testing.T) {
	setupTestDB(t)
	svc := newTestDesignService("", errors.New("connection refused"))
	user := mustCreateUser(t, "alice", "13800138000")

	var events []string
	for event := range svc.StreamDesign(context.Background(), user.ID) {
		events = append(events, event)
	}
	svc.Wait()

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1: %v", len(events), events)
	}
	if events[0] == designStreamEndEvent {
		t.Error("失败时不应发送结束哨兵")
	}
	if got := stagedTaskCount(user.ID); got != 0 {
		t.Errorf("草稿任务数 = %d, want 0", got)
	}
}

func TestConfirmTasksCommitAndReject(t *testing.T) {
	setupTestDB(t)
	svc := newTestDesignService(goodModelOutput, nil)
	user := mustCreateUser(t, "alice", "13800138000")

	result := svc.RecommendTasks(context.Background(), user.ID)
	tasks := result.Data.([]models.RecommendedTask)

	confirm := svc.ConfirmTasks(user.ID, []models.TaskAction{
		{TaskID: tasks[0].ID, Action: "commit"},
		{TaskID: tasks[1].ID, Action: "reject"},
	})
	if !confirm.OK() {
		t.Fatalf("确认操作失败: %s", confirm.Msg)
	}
	if confirm.Msg != "成功启用1个任务，成功删除1个任务" {
		t.Errorf("Msg = %q", confirm.Msg)
	}

	// commit 的变成正式待办
	var committed models.FixedTask
	if err := config.DB.Where("id = ?", tasks[0].ID).First(&committed).Error; err != nil {
		t.Fatalf("查询启用任务失败: %v", err)
	}
	if committed.Deleted != models.TaskLive || committed.Status != models.TaskStatusPending {
		t.Errorf("启用后 deleted=%d status=%q", committed.Deleted, committed.Status)
	}

	// reject 的物理删除
	var count int64
	config.DB.Model(&models.FixedTask{}).Where("id = ?", tasks[1].ID).Count(&count)
	if count != 0 {
		t.Error("拒绝的任务应被物理删除")
	}

	// 第三个任务仍是草稿
	if got := stagedTaskCount(user.ID); got != 1 {
		t.Errorf("剩余草稿数 = %d, want 1", got)
	}
}

func TestConfirmTasksSkipsNonStaged(t *testing.T) {
	setupTestDB(t)
	svc := newTestDesignService(goodModelOutput, nil)
	user := mustCreateUser(t, "alice", "13800138000")

	result := svc.RecommendTasks(context.Background(), user.ID)
	tasks := result.Data.([]models.RecommendedTask)

	first := svc.ConfirmTasks(user.ID, []models.TaskAction{{TaskID: tasks[0].ID, Action: "commit"}})
	if !first.OK() {
		t.Fatalf("首次确认失败: %s", first.Msg)
	}

	// 已启用的任务再次操作是无效的，不能把正式任务删掉
	again := svc.ConfirmTasks(user.ID, []models.TaskAction{{TaskID: tasks[0].ID, Action: "reject"}})
	if again.OK() {
		t.Error("重复操作不应成功")
	}
	var count int64
	config.DB.Model(&models.FixedTask{}).
		Where("id = ? AND deleted = ?", tasks[0].ID, models.TaskLive).Count(&count)
	if count != 1 {
		t.Error("重复操作不应影响已启用的任务")
	}

	// 普通的正式任务也不能通过确认接口删除
	created := NewFixedTaskService().Create(user.ID, models.FixedTaskCreateRequest{
		Title:     "手工任务",
		StartTime: mustTime(t, "02:00:00"),
		EndTime:   mustTime(t, "03:00:00"),
	})
	manualID := created.Data.(models.FixedTaskResponse).ID
	if r := svc.ConfirmTasks(user.ID, []models.TaskAction{{TaskID: manualID, Action: "reject"}}); r.OK() {
		t.Error("正式任务不应被确认接口删除")
	}
}

func TestConfirmTasksOwnershipAndEmptyInput(t *testing.T) {
	setupTestDB(t)
	svc := newTestDesignService(goodModelOutput, nil)
	alice := mustCreateUser(t, "alice", "13800138000")
	bob := mustCreateUser(t, "bob", "13900139000")

	if r := svc.ConfirmTasks(alice.ID, nil); r.OK() || r.Msg != "请选择要操作的任务" {
		t.Errorf("空操作列表: ok=%v msg=%q", r.OK(), r.Msg)
	}

	result := svc.RecommendTasks(context.Background(), alice.ID)
	tasks := result.Data.([]models.RecommendedTask)

	// 他人无法操作这批草稿
	if r := svc.ConfirmTasks(bob.ID, []models.TaskAction{{TaskID: tasks[0].ID, Action: "commit"}}); r.OK() {
		t.Error("不应操作他人的草稿任务")
	}
	if got := stagedTaskCount(alice.ID); got != 3 {
		t.Errorf("草稿数 = %d, want 3", got)
	}
}

func TestBuildUserPromptContents(t *testing.T) {
	setupTestDB(t)
	user := &models.User{
		Profession: "后端工程师",
		Skills:     "Go、MySQL",
	}
	start, end := taskAt("09:00:00", "10:00:00")
	tasks := []models.FixedTask{{Title: "晨会", StartTime: start, EndTime: end}}
	goals := []models.TodayGoal{{Goal: "完成接口联调"}}

	prompt := buildUserPrompt(user, tasks, goals, "背单词、午间阅读")

	for _, want := range []string{
		"职业: 后端工程师",
		"技能: Go、MySQL",
		"目标: 未设置",
		"- 完成接口联调",
		"- 晨会 (09:00-10:00)",
		"背单词、午间阅读",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("提示词缺少 %q:\n%s", want, prompt)
		}
	}

	empty := buildUserPrompt(&models.User{}, nil, nil, "")
	if !strings.Contains(empty, "暂无固定任务安排") {
		t.Error("无日程时应提示暂无固定任务安排")
	}
	if strings.Contains(empty, "避免重复推荐") {
		t.Error("无历史记录时不应出现去重提示")
	}
}

func mustTime(t *testing.T, clock string) time.Time {
	t.Helper()
	start, _ := taskAt(clock, clock)
	return start
}
