package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LuciusWan/BitGain-BackEnd/middleware"
	"github.com/LuciusWan/BitGain-BackEnd/models"
	"github.com/LuciusWan/BitGain-BackEnd/services"
)

// UserController 用户控制器
type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register 用户注册
func (uc *UserController) Register(c *gin.Context) {
	var req models.UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, uc.userService.Register(req))
}

// Login 用户登录
func (uc *UserController) Login(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, uc.userService.Login(req))
}

// GetUser 按ID查询用户
func (uc *UserController) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("无效的用户ID"))
		return
	}

	c.JSON(http.StatusOK, uc.userService.GetUserByID(id))
}

// GetCurrentUserInfo 查询当前登录用户信息
func (uc *UserController) GetCurrentUserInfo(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	c.JSON(http.StatusOK, uc.userService.GetCurrentUserInfo(uid))
}

// UpdateUserInfo 更新当前登录用户信息
func (uc *UserController) UpdateUserInfo(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("请求参数错误: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, uc.userService.UpdateUserInfo(uid, req))
}
