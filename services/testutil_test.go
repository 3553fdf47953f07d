package services

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/models"
)

// setupTestDB 用内存sqlite替换全局数据库连接，测试结束后关闭
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.FixedTask{}, &models.TodayGoal{}); err != nil {
		t.Fatalf("迁移测试表结构失败: %v", err)
	}

	config.DB = db
	config.Logger = zap.NewNop().Sugar()
	config.RedisClient = nil

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
}

// mustCreateUser 插入一个测试用户
func mustCreateUser(t *testing.T, username, phone string) *models.User {
	t.Helper()

	now := time.Now()
	user := models.User{
		Username:   username,
		Password:   "hash",
		Phone:      phone,
		CreateTime: now,
		UpdateTime: now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("插入测试用户失败: %v", err)
	}
	return &user
}

// taskAt 构造当天指定时钟范围的时间对
func taskAt(startClock, endClock string) (time.Time, time.Time) {
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start, _ := parseClock(day, startClock)
	end, _ := parseClock(day, endClock)
	return start, end
}
