package services

import (
	"time"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
)

// TodayGoalService 今日目标业务逻辑
type TodayGoalService struct{}

func NewTodayGoalService() *TodayGoalService {
	return &TodayGoalService{}
}

// Create 创建今日目标
func (s *TodayGoalService) Create(userID uint64, req models.TodayGoalRequest) models.Result {
	config.Logger.Infow("创建今日目标", "userID", userID)

	now := time.Now()
	goal := models.TodayGoal{
		UserID:     userID,
		Goal:       req.Goal,
		CreateTime: now,
		UpdateTime: now,
	}

	if err := config.DB.Create(&goal).Error; err != nil {
		config.Logger.Errorw("创建今日目标失败", "userID", userID, "error", err)
		return models.Error("创建今日目标失败")
	}

	return models.Success(models.NewTodayGoalResponse(&goal))
}

// Update 更新今日目标，仅允许操作自己的记录
func (s *TodayGoalService) Update(userID, goalID uint64, req models.TodayGoalRequest) models.Result {
	result := config.DB.Model(&models.TodayGoal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Updates(map[string]interface{}{
			"goal":        req.Goal,
			"update_time": time.Now(),
		})
	if result.Error != nil {
		config.Logger.Errorw("更新今日目标失败", "userID", userID, "goalID", goalID, "error", result.Error)
		return models.Error("更新今日目标失败")
	}
	if result.RowsAffected == 0 {
		return models.Error("今日目标不存在或无权限访问")
	}

	var goal models.TodayGoal
	if err := config.DB.Where("id = ?", goalID).First(&goal).Error; err != nil {
		return models.Error("更新今日目标失败")
	}
	return models.Success(models.NewTodayGoalResponse(&goal))
}

// Delete 删除今日目标（物理删除）
func (s *TodayGoalService) Delete(userID, goalID uint64) models.Result {
	result := config.DB.Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&models.TodayGoal{})
	if result.Error != nil {
		config.Logger.Errorw("删除今日目标失败", "userID", userID, "goalID", goalID, "error", result.Error)
		return models.Error("删除今日目标失败")
	}
	if result.RowsAffected == 0 {
		return models.Error("今日目标不存在或无权限访问")
	}

	config.Logger.Infow("今日目标删除成功", "userID", userID, "goalID", goalID)
	return models.SuccessMsg("删除成功")
}

// GetByID 查询单个今日目标
func (s *TodayGoalService) GetByID(userID, goalID uint64) models.Result {
	var goal models.TodayGoal
	err := config.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if err != nil {
		return models.Error("今日目标不存在或无权限访问")
	}
	return models.Success(models.NewTodayGoalResponse(&goal))
}

// ListMine 查询当前用户所有今日目标，按创建时间倒序
func (s *TodayGoalService) ListMine(userID uint64) models.Result {
	var goals []models.TodayGoal
	err := config.DB.Where("user_id = ?", userID).
		Order("create_time DESC").Find(&goals).Error
	if err != nil {
		config.Logger.Errorw("查询今日目标列表失败", "userID", userID, "error", err)
		return models.Error("查询今日目标失败")
	}

	out := make([]models.TodayGoalResponse, len(goals))
	for i := range goals {
		out[i] = models.NewTodayGoalResponse(&goals[i])
	}
	return models.Success(out)
}

// DeleteAllMine 删除当前用户的全部今日目标，不影响其他用户
func (s *TodayGoalService) DeleteAllMine(userID uint64) models.Result {
	result := config.DB.Where("user_id = ?", userID).Delete(&models.TodayGoal{})
	if result.Error != nil {
		config.Logger.Errorw("删除用户所有今日目标失败", "userID", userID, "error", result.Error)
		return models.Error("删除今日目标失败")
	}

	config.Logger.Infow("用户所有今日目标删除成功", "userID", userID, "count", result.RowsAffected)
	return models.SuccessMsg("删除成功")
}

// selectGoalsInRange 按创建时间范围取目标，日报和AI推荐按"今天"取数时共用
func selectGoalsInRange(userID uint64, start, end time.Time) ([]models.TodayGoal, error) {
	var goals []models.TodayGoal
	err := config.DB.Where("user_id = ? AND create_time >= ? AND create_time < ?", userID, start, end).
		Order("create_time ASC").Find(&goals).Error
	return goals, err
}
