package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/middleware"
	"github.com/LuciusWan/BitGain-BackEnd/models"
	"github.com/LuciusWan/BitGain-BackEnd/services"
)

// DesignController AI任务推荐控制器
type DesignController struct {
	designService *services.DesignService
}

func NewDesignController(designService *services.DesignService) *DesignController {
	return &DesignController{designService: designService}
}

// Design 流式推荐。通过SSE推送：先是任务摘要JSON数组，然后是字面量
// "end" 哨兵事件，之后连接关闭。
func (dc *DesignController) Design(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	// 设置流式响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // 禁用 Nginx 缓冲

	stream := dc.designService.StreamDesign(c.Request.Context(), uid)

	for event := range stream {
		c.SSEvent("message", event)
		c.Writer.Flush() // 确保每个事件都被立即发送
	}
}

// RecommendTasks 阻塞式推荐，等模型返回后一次性给出结果
func (dc *DesignController) RecommendTasks(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	c.JSON(http.StatusOK, dc.designService.RecommendTasks(c.Request.Context(), uid))
}

// ConfirmTasks 确认或丢弃推荐的草稿任务
func (dc *DesignController) ConfirmTasks(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var actions []models.TaskAction
	if err := c.ShouldBindJSON(&actions); err != nil {
		config.Logger.Warnw("确认任务请求参数错误", "userID", uid, "error", err)
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, dc.designService.ConfirmTasks(uid, actions))
}
