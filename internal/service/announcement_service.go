package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"helpboard/internal/constants"
	"helpboard/internal/model"
	"helpboard/internal/repository"
	"helpboard/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// 公开列表和统计的缓存时间
const cacheTTL = time.Minute

// AnnouncementService 公告服务
type AnnouncementService struct {
	announcementRepo *repository.AnnouncementRepository
	redisClient      *redis.Client
	visibility       string
	logger           *logger.Logger
}

// NewAnnouncementService 创建公告服务实例
func NewAnnouncementService(announcementRepo *repository.AnnouncementRepository, redisClient *redis.Client, visibility string, logger *logger.Logger) *AnnouncementService {
	if visibility == "" {
		visibility = repository.VisibilityPaid
	}
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		redisClient:      redisClient,
		visibility:       visibility,
		logger:           logger,
	}
}

// GetAnnouncements 获取公开公告列表
func (s *AnnouncementService) GetAnnouncements(ctx context.Context, filter model.AnnouncementFilter) ([]model.AnnouncementView, error) {
	// 尝试从缓存获取
	cacheKey := fmt.Sprintf("announcements:list:%s:%s:%s", s.visibility, filter.Type, filter.Author)
	cachedData, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var result []model.AnnouncementView
		if err := json.Unmarshal(cachedData, &result); err == nil {
			return result, nil
		}
	}

	// 缓存未命中，从数据库获取
	announcements, err := s.announcementRepo.GetAnnouncements(ctx, s.visibility, filter)
	if err != nil {
		s.logger.Error("获取公告列表失败", "error", err)
		return nil, err
	}
	result := toViews(announcements)

	// 将结果存入缓存
	if data, err := json.Marshal(result); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, cacheTTL)
	}

	return result, nil
}

// GetAnnouncementByID 获取单个公开可见的公告
func (s *AnnouncementService) GetAnnouncementByID(ctx context.Context, id int64) (*model.AnnouncementView, error) {
	announcement, err := s.announcementRepo.GetVisibleAnnouncementByID(ctx, s.visibility, id)
	if err != nil {
		s.logger.Error("获取公告详情失败", "id", id, "error", err)
		return nil, err
	}
	if announcement == nil {
		return nil, newError(ErrNotFound, constants.ErrAnnouncementNotFound)
	}
	view := announcement.View()
	return &view, nil
}

// GetAnnouncementsAdmin 管理员获取所有公告
func (s *AnnouncementService) GetAnnouncementsAdmin(ctx context.Context) ([]model.AnnouncementView, error) {
	announcements, err := s.announcementRepo.GetAnnouncementsAdmin(ctx)
	if err != nil {
		s.logger.Error("获取全部公告失败", "error", err)
		return nil, err
	}
	views := make([]model.AnnouncementView, 0, len(announcements))
	for i := range announcements {
		views = append(views, announcements[i].AdminView())
	}
	return views, nil
}

// RecordView 浏览量加一，不使缓存失效
func (s *AnnouncementService) RecordView(ctx context.Context, id int64) error {
	return s.announcementRepo.IncrementViews(ctx, id)
}

// CloseAnnouncement 关闭公告
func (s *AnnouncementService) CloseAnnouncement(ctx context.Context, id int64) error {
	err := s.announcementRepo.CloseAnnouncement(ctx, id)
	if err == nil {
		s.InvalidateCache(ctx)
	}
	return err
}

// DeleteAnnouncement 删除公告及其回复
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.announcementRepo.DeleteAnnouncement(ctx, id)
	if err != nil {
		return false, err
	}
	s.logger.Info("删除公告", "id", id, "deleted", deleted)
	s.InvalidateCache(ctx)
	return deleted, nil
}

// DeleteAllAnnouncements 删除全部公告，返回删除数量
func (s *AnnouncementService) DeleteAllAnnouncements(ctx context.Context) (int64, error) {
	n, err := s.announcementRepo.DeleteAllAnnouncements(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("删除全部公告", "count", n)
	s.InvalidateCache(ctx)
	return n, nil
}

// InvalidateCache 使缓存失效
func (s *AnnouncementService) InvalidateCache(ctx context.Context) error {
	// 删除所有公告相关的缓存
	pattern := "announcements:*"
	iter := s.redisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Error("删除缓存失败", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Error("扫描缓存失败", "error", err)
		return err
	}
	return nil
}

func toViews(announcements []model.Announcement) []model.AnnouncementView {
	views := make([]model.AnnouncementView, 0, len(announcements))
	for i := range announcements {
		views = append(views, announcements[i].View())
	}
	return views
}
