package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
)

// FixedTaskService 固定任务业务逻辑
type FixedTaskService struct{}

func NewFixedTaskService() *FixedTaskService {
	return &FixedTaskService{}
}

// countConflicts 统计与 [start, end) 重叠的正式任务数量。区间按半开处理：
// existing.start < new.end AND existing.end > new.start，首尾相接不算冲突。
// excludeID 大于 0 时排除该任务自身（更新场景）。
func countConflicts(tx *gorm.DB, userID uint64, start, end time.Time, excludeID uint64) (int64, error) {
	query := tx.Model(&models.FixedTask{}).
		Where("user_id = ? AND deleted = ?", userID, models.TaskLive).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Create 创建固定任务。冲突检查和插入放在同一事务里，避免并发写入时
// 两个重叠任务同时通过检查。
func (s *FixedTaskService) Create(userID uint64, req models.FixedTaskCreateRequest) models.Result {
	if err := req.Validate(); err != nil {
		return models.Error(err.Error())
	}

	var task models.FixedTask
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		count, err := countConflicts(tx, userID, req.StartTime, req.EndTime, 0)
		if err != nil {
			return err
		}
		if count > 0 {
			return errTimeConflict
		}

		now := time.Now()
		task = models.FixedTask{
			UserID:      userID,
			Title:       req.Title,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Description: req.Description,
			Status:      req.Status,
			CreateTime:  now,
			UpdateTime:  now,
			Deleted:     models.TaskLive,
		}
		return tx.Create(&task).Error
	})
	if err == errTimeConflict {
		return models.Error("该时间段已有其他固定任务，请选择其他时间")
	}
	if err != nil {
		config.Logger.Errorw("创建固定任务失败", "userID", userID, "error", err)
		return models.Error("创建固定任务失败")
	}

	config.Logger.Infow("创建固定任务成功", "userID", userID, "taskID", task.ID)
	return models.Success(models.NewFixedTaskResponse(&task))
}

// Update 更新固定任务。冲突检查排除任务自身。
func (s *FixedTaskService) Update(userID uint64, req models.FixedTaskUpdateRequest) models.Result {
	if err := req.Validate(); err != nil {
		return models.Error(err.Error())
	}

	var updated models.FixedTask
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.FixedTask
		err := tx.Where("id = ? AND user_id = ? AND deleted = ?", req.ID, userID, models.TaskLive).
			First(&existing).Error
		if err != nil {
			return errTaskNotFound
		}

		count, err := countConflicts(tx, userID, req.StartTime, req.EndTime, req.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return errTimeConflict
		}

		updates := map[string]interface{}{
			"title":       req.Title,
			"start_time":  req.StartTime,
			"end_time":    req.EndTime,
			"description": req.Description,
			"status":      req.Status,
			"update_time": time.Now(),
		}
		if err := tx.Model(&models.FixedTask{}).
			Where("id = ? AND user_id = ? AND deleted = ?", req.ID, userID, models.TaskLive).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", req.ID).First(&updated).Error
	})
	if err == errTaskNotFound {
		return models.Error("固定任务不存在或无权限修改")
	}
	if err == errTimeConflict {
		return models.Error("该时间段已有其他固定任务，请选择其他时间")
	}
	if err != nil {
		config.Logger.Errorw("更新固定任务失败", "userID", userID, "taskID", req.ID, "error", err)
		return models.Error("更新固定任务失败")
	}

	config.Logger.Infow("更新固定任务成功", "userID", userID, "taskID", req.ID)
	return models.Success(models.NewFixedTaskResponse(&updated))
}

// Delete 软删除固定任务并刷新更新时间
func (s *FixedTaskService) Delete(userID, taskID uint64) models.Result {
	result := config.DB.Model(&models.FixedTask{}).
		Where("id = ? AND user_id = ? AND deleted = ?", taskID, userID, models.TaskLive).
		Updates(map[string]interface{}{
			"deleted":     models.TaskDeleted,
			"update_time": time.Now(),
		})
	if result.Error != nil {
		config.Logger.Errorw("删除固定任务失败", "userID", userID, "taskID", taskID, "error", result.Error)
		return models.Error("删除固定任务失败")
	}
	if result.RowsAffected == 0 {
		return models.Error("固定任务不存在或无权限删除")
	}

	config.Logger.Infow("删除固定任务成功", "userID", userID, "taskID", taskID)
	return models.SuccessMsg("删除成功")
}

// GetByID 查询单个固定任务
func (s *FixedTaskService) GetByID(userID, taskID uint64) models.Result {
	var task models.FixedTask
	err := config.DB.Where("id = ? AND user_id = ? AND deleted = ?", taskID, userID, models.TaskLive).
		First(&task).Error
	if err != nil {
		return models.Error("固定任务不存在或无权限查看")
	}
	return models.Success(models.NewFixedTaskResponse(&task))
}

// ListMine 查询当前用户全部正式任务，按开始时间升序
func (s *FixedTaskService) ListMine(userID uint64) models.Result {
	var tasks []models.FixedTask
	err := config.DB.Where("user_id = ? AND deleted = ?", userID, models.TaskLive).
		Order("start_time ASC").Find(&tasks).Error
	if err != nil {
		config.Logger.Errorw("查询固定任务列表失败", "userID", userID, "error", err)
		return models.Error("查询固定任务失败")
	}
	return models.Success(models.NewFixedTaskResponses(tasks))
}

// ListByRange 查询与给定时间范围有交集的正式任务：
// 开始时间落在范围内、结束时间落在范围内、或整个跨越范围，三种情况。
func (s *FixedTaskService) ListByRange(userID uint64, start, end time.Time) models.Result {
	if start.After(end) {
		return models.Error("开始时间不能晚于结束时间")
	}

	tasks, err := selectTasksInRange(config.DB, userID, start, end)
	if err != nil {
		config.Logger.Errorw("按时间范围查询固定任务失败", "userID", userID, "error", err)
		return models.Error("查询固定任务失败")
	}
	return models.Success(models.NewFixedTaskResponses(tasks))
}

// selectTasksInRange 日报和AI推荐也要按天取任务，抽出来共用
func selectTasksInRange(db *gorm.DB, userID uint64, start, end time.Time) ([]models.FixedTask, error) {
	var tasks []models.FixedTask
	err := db.Where("user_id = ? AND deleted = ?", userID, models.TaskLive).
		Where("(start_time >= ? AND start_time < ?) OR (end_time > ? AND end_time <= ?) OR (start_time < ? AND end_time > ?)",
			start, end, start, end, start, end).
		Order("start_time ASC").Find(&tasks).Error
	return tasks, err
}
