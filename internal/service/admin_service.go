package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"helpboard/config"
	"helpboard/internal/constants"
	"helpboard/pkg/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"k8s.io/apimachinery/pkg/util/rand"
)

const (
	sessionKeyPrefix = "admin:session:"
	sessionTokenLen  = 32
	// 限流器数量超过该值时清理闲置条目
	maxLoginLimiters = 10000
	// 闲置超过该时长的限流器可被回收
	limiterIdleTTL = 30 * time.Minute
)

// AdminService 管理员凭证校验和会话管理
type AdminService struct {
	hashes      [][]byte
	redisClient *redis.Client
	sessionTTL  time.Duration
	logger      *logger.Logger

	loginRate  rate.Limit
	loginBurst int
	mu         sync.Mutex
	limiters   map[string]*ipLimiter
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// AdminSession 登录成功后签发的会话
type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAdminService 创建管理员服务，未配置哈希时对明文凭证做一次bcrypt
func NewAdminService(cfg config.AdminConfig, redisClient *redis.Client, logger *logger.Logger) (*AdminService, error) {
	var hashes [][]byte
	for _, h := range cfg.CodeHashes {
		if h = strings.TrimSpace(h); h != "" {
			hashes = append(hashes, []byte(h))
		}
	}
	if len(hashes) == 0 {
		if cfg.Code == "" {
			return nil, fmt.Errorf("no admin credentials configured")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Code), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin code: %w", err)
		}
		hashes = append(hashes, hash)
	}

	return &AdminService{
		hashes:      hashes,
		redisClient: redisClient,
		sessionTTL:  cfg.SessionTTL,
		logger:      logger,
		loginRate:   rate.Limit(cfg.LoginRate),
		loginBurst:  cfg.LoginBurst,
		limiters:    make(map[string]*ipLimiter),
	}, nil
}

// Login 校验凭证并签发会话，按客户端IP限流
func (s *AdminService) Login(ctx context.Context, clientIP, code string) (*AdminSession, error) {
	if !s.limiter(clientIP).Allow() {
		s.logger.Warn("管理员登录过于频繁", "ip", clientIP)
		return nil, newError(ErrRateLimited, constants.ErrOperationTooFrequent)
	}

	if !s.matchCode(code) {
		s.logger.Warn("管理员登录失败", "ip", clientIP)
		return nil, newError(ErrForbidden, constants.ErrInvalidAdminCode)
	}

	token := rand.String(sessionTokenLen)
	if err := s.redisClient.Set(ctx, sessionKeyPrefix+token, clientIP, s.sessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("保存管理员会话失败: %w", err)
	}

	s.logger.Info("管理员登录成功", "ip", clientIP)
	return &AdminSession{Token: token, ExpiresAt: time.Now().UTC().Add(s.sessionTTL)}, nil
}

// Logout 注销会话
func (s *AdminService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return newError(ErrValidation, constants.ErrInvalidRequest)
	}
	return s.redisClient.Del(ctx, sessionKeyPrefix+token).Err()
}

// Authorize 凭证可以是会话令牌或原始管理码，失败返回ErrForbidden。
// 原始管理码与登录共用同一个按IP的限流器，超限返回ErrRateLimited
func (s *AdminService) Authorize(ctx context.Context, clientIP, credential string) error {
	if credential == "" {
		return newError(ErrForbidden, constants.ErrInvalidAdminCode)
	}

	if len(credential) == sessionTokenLen {
		n, err := s.redisClient.Exists(ctx, sessionKeyPrefix+credential).Result()
		if err != nil {
			s.logger.Error("查询管理员会话失败", "error", err)
		} else if n > 0 {
			return nil
		}
	}

	if !s.limiter(clientIP).Allow() {
		s.logger.Warn("管理码校验过于频繁", "ip", clientIP)
		return newError(ErrRateLimited, constants.ErrOperationTooFrequent)
	}
	if s.matchCode(credential) {
		return nil
	}
	s.logger.Warn("管理码校验失败", "ip", clientIP)
	return newError(ErrForbidden, constants.ErrInvalidAdminCode)
}

func (s *AdminService) matchCode(code string) bool {
	if code == "" {
		return false
	}
	for _, hash := range s.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(code)) == nil {
			return true
		}
	}
	return false
}

func (s *AdminService) limiter(clientIP string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if entry, ok := s.limiters[clientIP]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	if len(s.limiters) >= maxLoginLimiters {
		s.evictIdleLocked(now)
	}
	entry := &ipLimiter{limiter: rate.NewLimiter(s.loginRate, s.loginBurst), lastSeen: now}
	s.limiters[clientIP] = entry
	return entry.limiter
}

// evictIdleLocked 回收闲置的限流器，仍然满载时回收最久未使用的一个
func (s *AdminService) evictIdleLocked(now time.Time) {
	var oldestIP string
	var oldest time.Time
	for ip, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(s.limiters, ip)
			continue
		}
		if oldestIP == "" || entry.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, entry.lastSeen
		}
	}
	if len(s.limiters) >= maxLoginLimiters && oldestIP != "" {
		delete(s.limiters, oldestIP)
	}
}
