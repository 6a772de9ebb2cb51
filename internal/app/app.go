// Package app 组装服务进程和云函数共用的依赖
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"helpboard/config"
	"helpboard/internal/api"
	"helpboard/internal/payment"
	"helpboard/internal/service"
	"helpboard/pkg/async"
	"helpboard/pkg/database"
	"helpboard/pkg/logger"
	"helpboard/pkg/telegram"
)

// App 已初始化的应用
type App struct {
	Router   *gin.Engine
	Services *api.Services

	db          *sqlx.DB
	redisClient *redis.Client
	worker      *async.Worker
}

// New 连接数据库和Redis并初始化路由
func New(cfg *config.Config, logger *logger.Logger) (*App, error) {
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Migrate {
		if err := database.RunMigrations(db, cfg.Database.Schema, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("执行数据库迁移失败: %w", err)
		}
	}

	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	provider, err := payment.NewProvider(cfg.Payment)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}
	logger.Info("支付渠道", "provider", provider.Name())

	telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("初始化Telegram客户端失败: %w", err)
	}

	// 通知通过异步工作器发送
	worker := async.NewWorker(100, logger)
	worker.Start(2)
	notifier := service.NewTelegramNotifier(telegramClient, worker, logger)

	services, err := api.NewServices(cfg, logger, db, redisClient, provider, notifier)
	if err != nil {
		worker.Stop()
		db.Close()
		redisClient.Close()
		return nil, err
	}

	return &App{
		Router:      api.SetupRouter(cfg, logger, services),
		Services:    services,
		db:          db,
		redisClient: redisClient,
		worker:      worker,
	}, nil
}

// Close 等待通知发送完成后释放连接
func (a *App) Close() {
	a.worker.Stop()
	a.redisClient.Close()
	a.db.Close()
}
