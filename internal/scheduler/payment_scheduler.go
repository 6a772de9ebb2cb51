package scheduler

import (
	"context"
	"sync"
	"time"

	"helpboard/pkg/logger"
)

// PaymentReconciler 待支付公告对账
type PaymentReconciler interface {
	ReconcilePending(ctx context.Context) (int, error)
	ExpireStale(ctx context.Context, ttl time.Duration) (int64, error)
}

// PaymentScheduler 支付对账调度器
type PaymentScheduler struct {
	reconciler PaymentReconciler
	interval   time.Duration
	pendingTTL time.Duration
	logger     *logger.Logger
	quit       chan struct{}
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// NewPaymentScheduler 创建支付对账调度器实例
func NewPaymentScheduler(reconciler PaymentReconciler, interval, pendingTTL time.Duration, logger *logger.Logger) *PaymentScheduler {
	return &PaymentScheduler{
		reconciler: reconciler,
		interval:   interval,
		pendingTTL: pendingTTL,
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start 启动支付对账调度器
func (s *PaymentScheduler) Start() {
	s.wg.Add(1)
	go s.reconcileScheduler()

	s.logger.Info("支付对账调度器启动", "interval", s.interval.String(), "pending_ttl", s.pendingTTL.String())
}

// Stop 停止调度器并等待当前一轮结束
func (s *PaymentScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.wg.Wait()
		s.logger.Info("支付对账调度器停止")
	})
}

func (s *PaymentScheduler) reconcileScheduler() {
	defer s.wg.Done()

	// 立即运行一次
	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.quit:
			return
		}
	}
}

// runOnce 轮询远程状态后再处理超时订单
func (s *PaymentScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	checked, err := s.reconciler.ReconcilePending(ctx)
	if err != nil {
		s.logger.Error("待支付公告对账失败", "error", err)
	} else if checked > 0 {
		s.logger.Debug("待支付公告对账完成", "checked", checked)
	}

	if s.pendingTTL <= 0 {
		return
	}
	expired, err := s.reconciler.ExpireStale(ctx, s.pendingTTL)
	if err != nil {
		s.logger.Error("过期待支付公告失败", "error", err)
	} else if expired > 0 {
		s.logger.Info("过期待支付公告完成", "expired", expired)
	}
}
