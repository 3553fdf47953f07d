package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LuciusWan/BitGain-BackEnd/middleware"
	"github.com/LuciusWan/BitGain-BackEnd/models"
	"github.com/LuciusWan/BitGain-BackEnd/services"
)

// TodayGoalController 今日目标控制器
type TodayGoalController struct {
	goalService *services.TodayGoalService
}

func NewTodayGoalController(goalService *services.TodayGoalService) *TodayGoalController {
	return &TodayGoalController{goalService: goalService}
}

// Create 创建今日目标
func (tc *TodayGoalController) Create(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.TodayGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, tc.goalService.Create(uid, req))
}

// Update 更新今日目标
func (tc *TodayGoalController) Update(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	goalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的目标ID"))
		return
	}

	var req models.TodayGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, tc.goalService.Update(uid, goalID, req))
}

// Delete 删除今日目标
func (tc *TodayGoalController) Delete(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	goalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的目标ID"))
		return
	}

	c.JSON(http.StatusOK, tc.goalService.Delete(uid, goalID))
}

// GetByID 查询单个今日目标
func (tc *TodayGoalController) GetByID(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	goalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的目标ID"))
		return
	}

	c.JSON(http.StatusOK, tc.goalService.GetByID(uid, goalID))
}

// ListMine 查询当前用户所有今日目标
func (tc *TodayGoalController) ListMine(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	c.JSON(http.StatusOK, tc.goalService.ListMine(uid))
}

// DeleteAllMine 删除当前用户所有今日目标
func (tc *TodayGoalController) DeleteAllMine(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	c.JSON(http.StatusOK, tc.goalService.DeleteAllMine(uid))
}
