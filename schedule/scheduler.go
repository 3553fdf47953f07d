package schedule

import (
	"github.com/robfig/cron/v3"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/services"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	cron          *cron.Cron
	reportService *services.ReportService
}

func NewScheduler(reportService *services.ReportService) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		reportService: reportService,
	}
}

// Start 注册并启动定时任务。默认每天20:00触发日报发送。
func (s *Scheduler) Start(reportCron string) error {
	_, err := s.cron.AddFunc(reportCron, func() {
		config.Logger.Infow("开始执行日报发送定时任务")
		s.reportService.SendDailyReportsToAllSubscribers()
		config.Logger.Infow("日报发送定时任务执行完成")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	config.Logger.Infow("定时任务调度器已启动", "reportCron", reportCron)
	return nil
}

// Stop 停止调度器，等待正在执行的任务完成
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
