package services

import (
	"testing"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
	"github.com/LuciusWan/BitGain-BackEnd/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()

	result := svc.Register(models.UserRegisterRequest{
		Username: "alice",
		Password: "secret123",
		Phone:    "13800138000",
	})
	if !result.OK() {
		t.Fatalf("注册失败: %s", result.Msg)
	}

	// 密码不允许明文落库
	var user models.User
	if err := config.DB.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("查询注册用户失败: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatal("密码不应明文存储")
	}
	if user.EmailSubscribe != models.EmailSubscribeOff {
		t.Errorf("EmailSubscribe = %d, 新用户应默认关闭订阅", user.EmailSubscribe)
	}

	login := svc.Login(models.UserLoginRequest{Username: "alice", Password: "secret123"})
	if !login.OK() {
		t.Fatalf("登录失败: %s", login.Msg)
	}
	resp := login.Data.(models.UserLoginResponse)
	if resp.Token == "" {
		t.Fatal("登录成功应返回令牌")
	}
	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("令牌中的用户ID = %d, want %d", claims.UserID, user.ID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()

	first := svc.Register(models.UserRegisterRequest{
		Username: "alice",
		Password: "secret123",
		Phone:    "13800138000",
	})
	if !first.OK() {
		t.Fatalf("注册失败: %s", first.Msg)
	}

	dupName := svc.Register(models.UserRegisterRequest{
		Username: "alice",
		Password: "secret123",
		Phone:    "13900139000",
	})
	if dupName.OK() || dupName.Msg != "用户名已存在" {
		t.Errorf("重复用户名应拒绝, got ok=%v msg=%q", dupName.OK(), dupName.Msg)
	}

	dupPhone := svc.Register(models.UserRegisterRequest{
		Username: "bob",
		Password: "secret123",
		Phone:    "13800138000",
	})
	if dupPhone.OK() || dupPhone.Msg != "手机号已被注册" {
		t.Errorf("重复手机号应拒绝, got ok=%v msg=%q", dupPhone.OK(), dupPhone.Msg)
	}
}

func TestRegisterRejectsBadPhone(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()

	for _, phone := range []string{"12345", "23800138000", "138001380001", "1380013800a"} {
		result := svc.Register(models.UserRegisterRequest{
			Username: "alice",
			Password: "secret123",
			Phone:    phone,
		})
		if result.OK() {
			t.Errorf("手机号 %q 不应通过校验", phone)
		}
	}
}

func TestLoginGenericErrorMessage(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()

	svc.Register(models.UserRegisterRequest{
		Username: "alice",
		Password: "secret123",
		Phone:    "13800138000",
	})

	// 用户不存在和密码错误必须返回同一提示
	noUser := svc.Login(models.UserLoginRequest{Username: "nobody", Password: "secret123"})
	badPass := svc.Login(models.UserLoginRequest{Username: "alice", Password: "wrong-pass"})

	if noUser.OK() || badPass.OK() {
		t.Fatal("错误凭证不应登录成功")
	}
	if noUser.Msg != badPass.Msg {
		t.Errorf("两种失败提示应一致: %q vs %q", noUser.Msg, badPass.Msg)
	}
	if badPass.Data != nil {
		t.Error("登录失败不应返回令牌数据")
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()

	svc.Register(models.UserRegisterRequest{
		Username: "alice",
		Password: "secret123",
		Phone:    "13800138000",
	})
	config.DB.Model(&models.User{}).Where("username = ?", "alice").Update("deleted", 1)

	result := svc.Login(models.UserLoginRequest{Username: "alice", Password: "secret123"})
	if result.OK() {
		t.Fatal("已禁用的账户不应登录成功")
	}
	if result.Msg != "账户已被禁用" {
		t.Errorf("Msg = %q, want 账户已被禁用", result.Msg)
	}
}

func TestUpdateUserInfoUniquenessExcludesSelf(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()
	alice := mustCreateUser(t, "alice", "13800138000")
	mustCreateUser(t, "bob", "13900139000")

	// 保留自己原有的用户名和手机号不算冲突
	result := svc.UpdateUserInfo(alice.ID, models.UserUpdateRequest{
		Username:       "alice",
		Phone:          "13800138000",
		Email:          "alice@example.com",
		Profession:     "后端工程师",
		EmailSubscribe: models.EmailSubscribeOn,
	})
	if !result.OK() {
		t.Fatalf("保留原信息的更新应成功: %s", result.Msg)
	}

	info := svc.GetCurrentUserInfo(alice.ID)
	if !info.OK() {
		t.Fatalf("查询用户信息失败: %s", info.Msg)
	}
	resp := info.Data.(models.UserInfoResponse)
	if resp.Email != "alice@example.com" || resp.EmailSubscribe != models.EmailSubscribeOn {
		t.Errorf("更新未生效: %+v", resp)
	}

	// 换成别人的用户名或手机号要被拒绝
	if r := svc.UpdateUserInfo(alice.ID, models.UserUpdateRequest{
		Username: "bob",
		Phone:    "13800138000",
	}); r.OK() {
		t.Error("占用他人用户名的更新不应成功")
	}
	if r := svc.UpdateUserInfo(alice.ID, models.UserUpdateRequest{
		Username: "alice",
		Phone:    "13900139000",
	}); r.OK() {
		t.Error("占用他人手机号的更新不应成功")
	}
}
