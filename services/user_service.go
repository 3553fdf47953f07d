package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
	"github.com/LuciusWan/BitGain-BackEnd/utils"
)

// UserService 用户业务逻辑
type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

// Register 用户注册。用户名和手机号都不允许重复，密码加盐哈希后入库。
func (s *UserService) Register(req models.UserRegisterRequest) models.Result {
	config.Logger.Infow("用户注册", "username", req.Username)

	if !utils.ValidPhone(req.Phone) {
		return models.Error("手机号格式不正确")
	}

	var count int64
	config.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return models.Error("用户名已存在")
	}

	config.DB.Model(&models.User{}).Where("phone = ?", req.Phone).Count(&count)
	if count > 0 {
		return models.Error("手机号已被注册")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		config.Logger.Errorw("密码加密失败", "error", err)
		return models.Error("注册失败，请稍后重试")
	}

	now := time.Now()
	user := models.User{
		Username:       req.Username,
		Password:       hash,
		Phone:          req.Phone,
		EmailSubscribe: models.EmailSubscribeOff, // 默认关闭
		CreateTime:     now,
		UpdateTime:     now,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		config.Logger.Errorw("用户注册失败", "username", req.Username, "error", err)
		return models.Error("注册失败，请稍后重试")
	}

	config.Logger.Infow("用户注册成功", "userID", user.ID)
	return models.SuccessMsg("注册成功")
}

// Login 用户登录。用户不存在和密码错误返回同一提示，不给攻击者区分的机会。
func (s *UserService) Login(req models.UserLoginRequest) models.Result {
	config.Logger.Infow("用户登录", "username", req.Username)

	var user models.User
	err := config.DB.Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			config.Logger.Errorw("查询用户失败", "username", req.Username, "error", err)
		}
		return models.Error("用户名或密码错误")
	}

	if user.Deleted == 1 {
		return models.Error("账户已被禁用")
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return models.Error("用户名或密码错误")
	}

	token, err := utils.GenerateToken(user.ID, user.Username)
	if err != nil {
		config.Logger.Errorw("生成JWT令牌失败", "userID", user.ID, "error", err)
		return models.Error("登录失败，请稍后重试")
	}

	config.Logger.Infow("用户登录成功", "userID", user.ID)
	return models.Success(models.UserLoginResponse{
		UserID:   user.ID,
		Username: user.Username,
		Token:    token,
	})
}

// GetUserByID 根据ID查询用户
func (s *UserService) GetUserByID(id uint64) models.Result {
	var user models.User
	if err := config.DB.Where("id = ? AND deleted = 0", id).First(&user).Error; err != nil {
		return models.Error("用户不存在")
	}
	return models.Success(models.NewUserInfoResponse(&user))
}

// GetCurrentUserInfo 查询当前用户信息
func (s *UserService) GetCurrentUserInfo(userID uint64) models.Result {
	return s.GetUserByID(userID)
}

// UpdateUserInfo 更新当前用户信息，用户名和手机号查重时排除自己
func (s *UserService) UpdateUserInfo(userID uint64, req models.UserUpdateRequest) models.Result {
	config.Logger.Infow("更新用户信息", "userID", userID)

	if !utils.ValidPhone(req.Phone) {
		return models.Error("手机号格式不正确")
	}

	var count int64
	config.DB.Model(&models.User{}).Where("username = ? AND id != ?", req.Username, userID).Count(&count)
	if count > 0 {
		return models.Error("用户名已存在")
	}

	config.DB.Model(&models.User{}).Where("phone = ? AND id != ?", req.Phone, userID).Count(&count)
	if count > 0 {
		return models.Error("手机号已存在")
	}

	updates := map[string]interface{}{
		"username":        req.Username,
		"phone":           req.Phone,
		"email":           req.Email,
		"profession":      req.Profession,
		"skills":          req.Skills,
		"goals":           req.Goals,
		"email_subscribe": req.EmailSubscribe,
		"update_time":     time.Now(),
	}

	result := config.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		config.Logger.Errorw("更新用户信息失败", "userID", userID, "error", result.Error)
		return models.Error("更新失败")
	}
	if result.RowsAffected == 0 {
		return models.Error("更新失败")
	}

	config.Logger.Infow("更新用户信息成功", "userID", userID)
	return models.SuccessMsg("更新成功")
}
