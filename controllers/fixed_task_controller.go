package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LuciusWan/BitGain-BackEnd/middleware"
	"github.com/LuciusWan/BitGain-BackEnd/models"
	"github.com/LuciusWan/BitGain-BackEnd/services"
)

// FixedTaskController 固定任务控制器
type FixedTaskController struct {
	taskService *services.FixedTaskService
}

func NewFixedTaskController(taskService *services.FixedTaskService) *FixedTaskController {
	return &FixedTaskController{taskService: taskService}
}

// Create 创建固定任务
func (fc *FixedTaskController) Create(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.FixedTaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, fc.taskService.Create(uid, req))
}

// Update 更新固定任务
func (fc *FixedTaskController) Update(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.FixedTaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, fc.taskService.Update(uid, req))
}

// Delete 删除固定任务
func (fc *FixedTaskController) Delete(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的任务ID"))
		return
	}

	c.JSON(http.StatusOK, fc.taskService.Delete(uid, taskID))
}

// GetByID 查询单个固定任务
func (fc *FixedTaskController) GetByID(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的任务ID"))
		return
	}

	c.JSON(http.StatusOK, fc.taskService.GetByID(uid, taskID))
}

// ListMine 查询当前用户全部固定任务
func (fc *FixedTaskController) ListMine(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	c.JSON(http.StatusOK, fc.taskService.ListMine(uid))
}

// ListByRange 按时间范围查询固定任务
func (fc *FixedTaskController) ListByRange(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("startTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的开始时间格式"))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的结束时间格式"))
		return
	}

	c.JSON(http.StatusOK, fc.taskService.ListByRange(uid, start, end))
}
