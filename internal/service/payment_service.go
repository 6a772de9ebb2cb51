package service

import (
	"context"
	"fmt"
	"time"

	"helpboard/internal/constants"
	"helpboard/internal/model"
	"helpboard/internal/payment"
	"helpboard/internal/repository"
	"helpboard/pkg/logger"
)

// CreatePaymentInput 创建付费公告的参数，金额由类型决定
type CreatePaymentInput struct {
	Title         string
	Description   string
	Category      string
	AuthorName    string
	AuthorContact string
	Type          string
}

// PaymentService 公告付款服务
type PaymentService struct {
	announcementRepo    *repository.AnnouncementRepository
	announcementService *AnnouncementService
	provider            payment.Provider
	notifier            Notifier
	logger              *logger.Logger
	now                 func() time.Time
}

// NewPaymentService 创建付款服务
func NewPaymentService(
	announcementRepo *repository.AnnouncementRepository,
	announcementService *AnnouncementService,
	provider payment.Provider,
	notifier Notifier,
	logger *logger.Logger,
) *PaymentService {
	return &PaymentService{
		announcementRepo:    announcementRepo,
		announcementService: announcementService,
		provider:            provider,
		notifier:            notifier,
		logger:              logger,
		now:                 utcNow,
	}
}

// CreatePayment 创建公告并通过当前渠道发起支付
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*model.PaymentResult, error) {
	announcementType, ok := model.ParseAnnouncementType(in.Type)
	if !ok {
		return nil, newError(ErrValidation, constants.ErrInvalidType)
	}

	now := s.now()
	initialStatus := s.provider.InitialStatus()
	a := &model.Announcement{
		Title:         in.Title,
		Description:   in.Description,
		Category:      defaultString(in.Category, "Разное"),
		AuthorName:    defaultString(in.AuthorName, model.AnonymousName),
		AuthorContact: in.AuthorContact,
		Type:          announcementType,
		PaymentAmount: announcementType.Price(),
		PaymentStatus: initialStatus,
		Status:        model.StatusActive,
		CreatedAt:     now,
	}
	if announcementType == model.TypeVIP {
		a.ExpiresAt.Time = now.Add(model.VIPDuration)
		a.ExpiresAt.Valid = true
	}

	id, err := s.announcementRepo.CreateAnnouncement(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("创建公告失败: %w", err)
	}
	defer s.announcementService.InvalidateCache(ctx)

	initiation, err := s.provider.Initiate(ctx, payment.Request{
		AnnouncementID: id,
		Amount:         a.PaymentAmount,
		Type:           announcementType,
		Description:    fmt.Sprintf("Размещение объявления #%d", id),
	})
	if err != nil {
		s.logger.Error("发起支付失败", "announcement_id", id, "provider", s.provider.Name(), "error", err)
		// 远程支付已创建时保留编号并维持待支付，交给对账和过期处理
		if initiation != nil && initiation.PaymentID != "" {
			setErr := s.announcementRepo.SetPaymentID(ctx, id, initiation.PaymentID)
			if setErr == nil {
				return nil, err
			}
			s.logger.Error("保存支付编号失败", "announcement_id", id, "payment_id", initiation.PaymentID, "error", setErr)
		}
		if _, cancelErr := s.announcementRepo.TransitionPaymentStatus(ctx, id, initialStatus, model.PaymentCancelled); cancelErr != nil {
			s.logger.Error("标记支付取消失败", "announcement_id", id, "error", cancelErr)
		}
		return nil, err
	}

	if initiation.PaymentID != "" {
		if err := s.announcementRepo.SetPaymentID(ctx, id, initiation.PaymentID); err != nil {
			return nil, fmt.Errorf("保存支付编号失败: %w", err)
		}
		a.PaymentID.String = initiation.PaymentID
		a.PaymentID.Valid = true
	}

	// 渠道可能在发起时就给出终态
	if initiation.Status != "" && initiation.Status != initialStatus {
		changed, err := s.announcementRepo.TransitionPaymentStatus(ctx, id, initialStatus, initiation.Status)
		if err != nil {
			return nil, err
		}
		if changed {
			a.PaymentStatus = initiation.Status
		}
	}

	if a.PaymentStatus == model.PaymentPaid {
		s.notifier.Notify(paidAnnouncementMessage(a))
	}

	s.logger.Info("公告已创建", "announcement_id", id, "type", announcementType, "status", a.PaymentStatus, "provider", s.provider.Name())

	result := paymentResult(a)
	result.Type = string(announcementType)
	result.Provider = s.provider.Name()
	result.PaymentURL = initiation.PaymentURL
	result.QRPayload = initiation.QRPayload
	result.CardNumber = initiation.CardNumber
	result.Message = initiation.Message
	if result.Message == "" {
		result.Message = constants.SuccessPending
		if a.PaymentStatus == model.PaymentPaid {
			result.Message = constants.SuccessPaid
		}
	}
	return result, nil
}

// CheckPayment 返回支付状态，仅对有远程支付编号的待支付公告查询渠道
func (s *PaymentService) CheckPayment(ctx context.Context, id int64) (*model.PaymentResult, error) {
	a, err := s.announcementRepo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, newError(ErrNotFound, constants.ErrAnnouncementNotFound)
	}

	checker, ok := s.provider.(payment.StatusChecker)
	if a.PaymentStatus.IsTerminal() || !a.PaymentID.Valid || a.PaymentID.String == "" || !ok {
		return paymentResult(a), nil
	}

	remote, err := checker.CheckStatus(ctx, a.PaymentID.String)
	if err != nil {
		s.logger.Error("查询支付状态失败", "announcement_id", id, "payment_id", a.PaymentID.String, "error", err)
		return nil, err
	}
	if !remote.IsTerminal() {
		return paymentResult(a), nil
	}

	changed, err := s.announcementRepo.TransitionPaymentStatus(ctx, id, model.PaymentPending, remote)
	if err != nil {
		return nil, err
	}
	if changed {
		a.PaymentStatus = remote
		s.logger.Info("支付状态已更新", "announcement_id", id, "status", remote)
		s.announcementService.InvalidateCache(ctx)
		if remote == model.PaymentPaid {
			s.notifier.Notify(paidAnnouncementMessage(a))
		}
		return paymentResult(a), nil
	}

	// 并发的调用方已完成更新，以数据库为准
	current, err := s.announcementRepo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, newError(ErrNotFound, constants.ErrAnnouncementNotFound)
	}
	return paymentResult(current), nil
}

// ConfirmPayment 管理员确认到账，已支付时幂等
func (s *PaymentService) ConfirmPayment(ctx context.Context, id int64) (*model.PaymentResult, error) {
	a, err := s.announcementRepo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, newError(ErrNotFound, constants.ErrAnnouncementNotFound)
	}

	changed, err := s.announcementRepo.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}
	a.PaymentStatus = model.PaymentPaid
	if changed {
		s.logger.Info("管理员确认支付", "announcement_id", id)
		s.announcementService.InvalidateCache(ctx)
		s.notifier.Notify(paidAnnouncementMessage(a))
	}
	return paymentResult(a), nil
}

// ReconcilePending 轮询所有有远程支付编号的待支付公告，返回完成查询的数量
func (s *PaymentService) ReconcilePending(ctx context.Context) (int, error) {
	if _, ok := s.provider.(payment.StatusChecker); !ok {
		return 0, nil
	}

	pending, err := s.announcementRepo.GetPendingWithPaymentID(ctx)
	if err != nil {
		return 0, err
	}

	checked := 0
	for _, a := range pending {
		if ctx.Err() != nil {
			return checked, ctx.Err()
		}
		if _, err := s.CheckPayment(ctx, a.ID); err != nil {
			continue
		}
		checked++
	}
	return checked, nil
}

// ExpireStale 将超过ttl仍未支付的公告标记为过期
func (s *PaymentService) ExpireStale(ctx context.Context, ttl time.Duration) (int64, error) {
	n, err := s.announcementRepo.ExpirePending(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("待支付公告已过期", "count", n)
		s.announcementService.InvalidateCache(ctx)
	}
	return n, nil
}

func paymentResult(a *model.Announcement) *model.PaymentResult {
	result := &model.PaymentResult{
		AnnouncementID: a.ID,
		PaymentStatus:  a.PaymentStatus,
		Amount:         a.PaymentAmount,
	}
	if a.PaymentID.Valid {
		result.PaymentID = a.PaymentID.String
	}
	if a.ExpiresAt.Valid {
		expires := a.ExpiresAt.Time.Format(time.RFC3339)
		result.ExpiresAt = &expires
	}
	return result
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
