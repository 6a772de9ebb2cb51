package service

import (
	"context"
	"encoding/json"
	"time"

	"helpboard/internal/model"
	"helpboard/internal/repository"
	"helpboard/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// 统计缓存与公告缓存同前缀，公告变更时一并失效
const statsCacheKey = "announcements:stats"

// SystemService 访问记录和统计服务
type SystemService struct {
	systemRepo  *repository.SystemRepository
	redisClient *redis.Client
	logger      *logger.Logger
	now         func() time.Time
}

// NewSystemService 创建系统统计服务实例
func NewSystemService(systemRepo *repository.SystemRepository, redisClient *redis.Client, logger *logger.Logger) *SystemService {
	return &SystemService{
		systemRepo:  systemRepo,
		redisClient: redisClient,
		logger:      logger,
		now:         utcNow,
	}
}

// TrackVisit 记录一次站点访问
func (s *SystemService) TrackVisit(ctx context.Context, visitorIP, userAgent string) error {
	_, err := s.systemRepo.CreateVisit(ctx, &model.SiteVisit{
		VisitorIP: visitorIP,
		UserAgent: userAgent,
		VisitedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("记录访问失败", "ip", visitorIP, "error", err)
	}
	return err
}

// GetStats 获取统计数据
func (s *SystemService) GetStats(ctx context.Context) (*model.SystemStats, error) {
	// 尝试从缓存获取
	cachedData, err := s.redisClient.Get(ctx, statsCacheKey).Bytes()
	if err == nil {
		var stats model.SystemStats
		if err := json.Unmarshal(cachedData, &stats); err == nil {
			return &stats, nil
		}
	}

	// 缓存未命中，从数据库获取
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	stats, err := s.systemRepo.GetSystemStats(ctx, dayStart)
	if err != nil {
		s.logger.Error("获取统计数据失败", "error", err)
		return nil, err
	}

	// 将结果存入缓存
	if data, err := json.Marshal(stats); err == nil {
		s.redisClient.Set(ctx, statsCacheKey, data, cacheTTL)
	}

	return stats, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
