package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config 应用配置
type Config struct {
	APIPort   int    `envconfig:"API_PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// 信任的反向代理，为空时客户端IP取自连接地址
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	LogFile   LogFileConfig   `ignored:"true"`
	Database  DatabaseConfig  `ignored:"true"`
	Redis     RedisConfig     `ignored:"true"`
	Telegram  TelegramConfig  `ignored:"true"`
	Admin     AdminConfig     `ignored:"true"`
	Payment   PaymentConfig   `ignored:"true"`
	Listing   ListingConfig   `ignored:"true"`
	Donation  DonationConfig  `ignored:"true"`
	Reconcile ReconcileConfig `ignored:"true"`

	// 云函数模式下处理的组件
	FunctionComponent string `envconfig:"FUNCTION_COMPONENT" default:"announcements"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool   `envconfig:"LOG_FILE_ENABLED" default:"false"`
	Path       string `envconfig:"LOG_FILE_PATH" default:"logs/helpboard.log"`
	MaxSize    int    `envconfig:"LOG_FILE_MAX_SIZE" default:"100"`
	MaxBackups int    `envconfig:"LOG_FILE_MAX_BACKUPS" default:"7"`
	MaxAge     int    `envconfig:"LOG_FILE_MAX_AGE" default:"30"`
	Compress   bool   `envconfig:"LOG_FILE_COMPRESS" default:"true"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver  string `envconfig:"DB_DRIVER" default:"pgx"`
	URL     string `envconfig:"DATABASE_URL" required:"true"`
	Schema  string `envconfig:"MAIN_DB_SCHEMA"`
	Migrate bool   `envconfig:"DB_MIGRATE" default:"false"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// TelegramConfig 运营通知配置
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `envconfig:"TELEGRAM_ADMIN_CHAT_ID"`
}

// AdminConfig 管理员凭证配置
type AdminConfig struct {
	Code       string        `envconfig:"ADMIN_CODE"`
	CodeHashes []string      `envconfig:"ADMIN_CODE_HASHES"`
	SessionTTL time.Duration `envconfig:"ADMIN_SESSION_TTL" default:"12h"`
	LoginRate  float64       `envconfig:"ADMIN_LOGIN_RATE" default:"0.1"`
	LoginBurst int           `envconfig:"ADMIN_LOGIN_BURST" default:"5"`
}

// PaymentConfig 支付渠道配置
type PaymentConfig struct {
	Provider   string `envconfig:"PAYMENT_PROVIDER" default:"manual"`
	CardNumber string `envconfig:"PAYMENT_CARD_NUMBER" default:"2204321081688079"`

	YooMoneyReceiver string `envconfig:"YOOMONEY_RECEIVER"`

	TinkoffTerminalKey string `envconfig:"TINKOFF_TERMINAL_KEY"`
	TinkoffPassword    string `envconfig:"TINKOFF_PASSWORD"`
	TinkoffBaseURL     string `envconfig:"TINKOFF_BASE_URL" default:"https://securepay.tinkoff.ru/v2"`

	YooKassaShopID    string `envconfig:"YOOKASSA_SHOP_ID"`
	YooKassaSecretKey string `envconfig:"YOOKASSA_SECRET_KEY"`
	YooKassaReturnURL string `envconfig:"YOOKASSA_RETURN_URL" default:"https://example.com/payment-success"`
	YooKassaBaseURL   string `envconfig:"YOOKASSA_BASE_URL" default:"https://api.yookassa.ru/v3"`
}

// ListingConfig 公开列表可见性
type ListingConfig struct {
	Visibility string `envconfig:"LISTING_VISIBILITY" default:"paid"`
}

// DonationConfig 捐赠配置
type DonationConfig struct {
	AutoConfirm bool `envconfig:"DONATION_AUTO_CONFIRM" default:"true"`
}

// ReconcileConfig 待支付对账配置
type ReconcileConfig struct {
	Interval   time.Duration `envconfig:"RECONCILE_INTERVAL" default:"2m"`
	PendingTTL time.Duration `envconfig:"PENDING_TTL" default:"24h"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// .env 文件是可选的
	_ = godotenv.Load()

	var cfg Config
	// 各分组的变量名不带前缀，逐个解析
	sections := []interface{}{
		&cfg, &cfg.LogFile, &cfg.Database, &cfg.Redis, &cfg.Telegram,
		&cfg.Admin, &cfg.Payment, &cfg.Listing, &cfg.Donation, &cfg.Reconcile,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	if cfg.Database.Schema == "" && cfg.Database.Driver == "pgx" {
		cfg.Database.Schema = "public"
	}

	switch cfg.Listing.Visibility {
	case "paid", "active", "payment":
	default:
		return nil, fmt.Errorf("unsupported LISTING_VISIBILITY %q", cfg.Listing.Visibility)
	}

	cfg.Payment.Provider = strings.ToLower(cfg.Payment.Provider)

	if cfg.Admin.Code == "" && len(cfg.Admin.CodeHashes) == 0 {
		return nil, fmt.Errorf("either ADMIN_CODE or ADMIN_CODE_HASHES must be set")
	}

	return &cfg, nil
}
