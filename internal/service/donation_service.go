package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"helpboard/internal/constants"
	"helpboard/internal/model"
	"helpboard/internal/repository"
	"helpboard/pkg/logger"

	"github.com/shopspring/decimal"
)

const tinkoffP2PURL = "https://www.tinkoff.ru/rm/p2p/"

// CreateDonationInput 创建捐赠参数
type CreateDonationInput struct {
	DonorName    string
	DonorContact string
	Amount       decimal.Decimal
	Message      string
}

// DonationResult 创建捐赠后返回的付款说明
type DonationResult struct {
	DonationID int64  `json:"donation_id"`
	PaymentURL string `json:"payment_url"`
	OzonCard   string `json:"ozon_card"`
	Message    string `json:"message"`
}

// DonationService 捐赠服务
type DonationService struct {
	donationRepo *repository.DonationRepository
	notifier     Notifier
	cardNumber   string
	autoConfirm  bool
	logger       *logger.Logger
	now          func() time.Time
}

// NewDonationService 创建捐赠服务
func NewDonationService(donationRepo *repository.DonationRepository, notifier Notifier, cardNumber string, autoConfirm bool, logger *logger.Logger) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		notifier:     notifier,
		cardNumber:   cardNumber,
		autoConfirm:  autoConfirm,
		logger:       logger,
		now:          utcNow,
	}
}

// GetPublicDonations 公开的已支付捐赠
func (s *DonationService) GetPublicDonations(ctx context.Context) ([]model.PublicDonation, error) {
	return s.donationRepo.GetPublicDonations(ctx)
}

// GetAllDonations 全部捐赠
func (s *DonationService) GetAllDonations(ctx context.Context) ([]model.Donation, error) {
	return s.donationRepo.GetAllDonations(ctx)
}

// CreateDonation 记录捐赠并返回转账方式
func (s *DonationService) CreateDonation(ctx context.Context, in CreateDonationInput) (*DonationResult, error) {
	if !in.Amount.IsPositive() {
		return nil, newError(ErrValidation, constants.ErrInvalidAmount)
	}

	status := model.PaymentPending
	if s.autoConfirm {
		status = model.PaymentPaid
	}

	d := &model.Donation{
		DonorName:     defaultString(in.DonorName, model.AnonymousName),
		DonorContact:  in.DonorContact,
		Amount:        in.Amount,
		Message:       in.Message,
		PaymentStatus: status,
		CreatedAt:     s.now(),
	}
	id, err := s.donationRepo.CreateDonation(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("创建捐赠失败: %w", err)
	}

	s.notifier.Notify(donationMessage(d))

	params := url.Values{}
	params.Set("card", s.cardNumber)
	params.Set("amount", in.Amount.String())
	return &DonationResult{
		DonationID: id,
		PaymentURL: tinkoffP2PURL + "?" + params.Encode(),
		OzonCard:   s.cardNumber,
		Message:    fmt.Sprintf(constants.SuccessDonation, in.Amount.String(), s.cardNumber),
	}, nil
}

// AssignDonation 记录捐赠的分配对象
func (s *DonationService) AssignDonation(ctx context.Context, id int64, assignedTo, notes string) error {
	if id <= 0 {
		return newError(ErrValidation, constants.ErrMissingDonationID)
	}
	ok, err := s.donationRepo.AssignDonation(ctx, id, assignedTo, notes)
	if err != nil {
		return err
	}
	if !ok {
		return newError(ErrNotFound, constants.ErrDonationNotFound)
	}
	return nil
}

// ConfirmDonation 管理员确认待支付的捐赠已到账
func (s *DonationService) ConfirmDonation(ctx context.Context, id int64) error {
	if id <= 0 {
		return newError(ErrValidation, constants.ErrMissingDonationID)
	}
	d, err := s.donationRepo.GetDonationByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return newError(ErrNotFound, constants.ErrDonationNotFound)
	}
	if _, err := s.donationRepo.TransitionPaymentStatus(ctx, id, model.PaymentPending, model.PaymentPaid); err != nil {
		return err
	}
	return nil
}
