package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"helpboard/internal/constants"
	"helpboard/internal/model"
	"helpboard/internal/repository"
	"helpboard/pkg/logger"
)

// CreateRequestInput 创建名人请求参数
type CreateRequestInput struct {
	RequesterName    string
	RequesterContact string
	CelebrityName    string
	RequestText      string
}

// CelebrityResult 创建请求后返回的付款说明
type CelebrityResult struct {
	RequestID int64  `json:"request_id"`
	Amount    int64  `json:"amount"`
	OzonCard  string `json:"ozon_card"`
	Message   string `json:"message"`
}

var requestStatuses = map[string]bool{
	model.RequestPending:  true,
	model.RequestApproved: true,
	model.RequestSent:     true,
	model.RequestRejected: true,
}

// CelebrityService 名人请求服务
type CelebrityService struct {
	celebrityRepo *repository.CelebrityRepository
	notifier      Notifier
	cardNumber    string
	logger        *logger.Logger
	now           func() time.Time
}

// NewCelebrityService 创建名人请求服务
func NewCelebrityService(celebrityRepo *repository.CelebrityRepository, notifier Notifier, cardNumber string, logger *logger.Logger) *CelebrityService {
	return &CelebrityService{
		celebrityRepo: celebrityRepo,
		notifier:      notifier,
		cardNumber:    cardNumber,
		logger:        logger,
		now:           utcNow,
	}
}

// GetPublicRequests 未被拒绝的请求
func (s *CelebrityService) GetPublicRequests(ctx context.Context) ([]model.PublicCelebrityRequest, error) {
	return s.celebrityRepo.GetPublicRequests(ctx)
}

// GetAllRequests 全部请求
func (s *CelebrityService) GetAllRequests(ctx context.Context) ([]model.CelebrityRequest, error) {
	return s.celebrityRepo.GetAllRequests(ctx)
}

// CreateRequest 创建请求
func (s *CelebrityService) CreateRequest(ctx context.Context, in CreateRequestInput) (*CelebrityResult, error) {
	if strings.TrimSpace(in.RequesterName) == "" || strings.TrimSpace(in.CelebrityName) == "" || strings.TrimSpace(in.RequestText) == "" {
		return nil, newError(ErrValidation, constants.ErrRequiredFieldsMissing)
	}

	req := &model.CelebrityRequest{
		RequesterName:    in.RequesterName,
		RequesterContact: in.RequesterContact,
		CelebrityName:    in.CelebrityName,
		RequestText:      in.RequestText,
		Status:           model.RequestPending,
		CreatedAt:        s.now(),
	}
	id, err := s.celebrityRepo.CreateRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	s.notifier.Notify(celebrityMessage(req))

	return &CelebrityResult{
		RequestID: id,
		Amount:    model.CelebrityRequestFee,
		OzonCard:  s.cardNumber,
		Message:   fmt.Sprintf(constants.SuccessRequest, model.CelebrityRequestFee, s.cardNumber),
	}, nil
}

// UpdateStatus 更新请求状态，空状态视为pending
func (s *CelebrityService) UpdateStatus(ctx context.Context, id int64, status, notes string) error {
	if id <= 0 {
		return newError(ErrValidation, constants.ErrMissingRequestID)
	}
	status = defaultString(status, model.RequestPending)
	if !requestStatuses[status] {
		return newError(ErrValidation, constants.ErrInvalidRequestStatus)
	}

	ok, err := s.celebrityRepo.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		return err
	}
	if !ok {
		return newError(ErrNotFound, constants.ErrRequestNotFound)
	}
	return nil
}
