package cron

import (
	"Toasoan/internal/api/config"
	"Toasoan/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// defaultArticleViewFlush 每 30 秒刷一次浏览量
const defaultArticleViewFlush = "*/30 * * * * *"

type Manager struct {
	engine         *cron.Cron
	cfg            config.JobsConfig
	articleViewJob *job.ArticleViewJob
}

func NewCronManager(cfg config.JobsConfig, articleViewJob *job.ArticleViewJob) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		cfg:            cfg,
		articleViewJob: articleViewJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	spec := s.cfg.ArticleViewFlush
	if spec == "" {
		spec = defaultArticleViewFlush
	}
	if _, err := s.engine.AddJob(spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.articleViewJob)); err != nil {
		return err
	}
	log.Info("cron job registered", "job", "article_view_flush", "spec", spec)
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
