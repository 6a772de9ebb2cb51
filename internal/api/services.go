package api

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"helpboard/config"
	"helpboard/internal/payment"
	"helpboard/internal/repository"
	"helpboard/internal/service"
	"helpboard/pkg/logger"
)

// Services 各组件共用的服务集合
type Services struct {
	Announcement *service.AnnouncementService
	Payment      *service.PaymentService
	Response     *service.ResponseService
	Donation     *service.DonationService
	Celebrity    *service.CelebrityService
	System       *service.SystemService
	Admin        *service.AdminService
}

// NewServices 初始化存储库和服务
func NewServices(cfg *config.Config, logger *logger.Logger, db *sqlx.DB, redisClient *redis.Client, provider payment.Provider, notifier service.Notifier) (*Services, error) {
	schema := cfg.Database.Schema

	// 初始化存储库
	announcementRepo := repository.NewAnnouncementRepository(db, schema)
	responseRepo := repository.NewResponseRepository(db, schema)
	donationRepo := repository.NewDonationRepository(db, schema)
	celebrityRepo := repository.NewCelebrityRepository(db, schema)
	systemRepo := repository.NewSystemRepository(db, schema)

	adminService, err := service.NewAdminService(cfg.Admin, redisClient, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化管理员服务失败: %w", err)
	}

	// 初始化服务
	announcementService := service.NewAnnouncementService(announcementRepo, redisClient, cfg.Listing.Visibility, logger)
	return &Services{
		Announcement: announcementService,
		Payment:      service.NewPaymentService(announcementRepo, announcementService, provider, notifier, logger),
		Response:     service.NewResponseService(responseRepo, notifier, logger),
		Donation:     service.NewDonationService(donationRepo, notifier, cfg.Payment.CardNumber, cfg.Donation.AutoConfirm, logger),
		Celebrity:    service.NewCelebrityService(celebrityRepo, notifier, cfg.Payment.CardNumber, logger),
		System:       service.NewSystemService(systemRepo, redisClient, logger),
		Admin:        adminService,
	}, nil
}
