package service

import (
	"context"
	"fmt"
	"time"

	"helpboard/internal/constants"
	"helpboard/internal/model"
	"helpboard/internal/repository"
	"helpboard/pkg/logger"
)

// 新回复的初始状态
const responseStatusNew = "new"

// CreateResponseInput 创建回复参数
type CreateResponseInput struct {
	AnnouncementID   int64
	ResponderName    string
	ResponderContact string
	Message          string
}

// SendMessageInput 发送消息参数
type SendMessageInput struct {
	ResponseID int64
	SenderName string
	Message    string
}

// ResponseService 回复与消息服务
type ResponseService struct {
	responseRepo *repository.ResponseRepository
	notifier     Notifier
	logger       *logger.Logger
	now          func() time.Time
}

// NewResponseService 创建回复服务
func NewResponseService(responseRepo *repository.ResponseRepository, notifier Notifier, logger *logger.Logger) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		notifier:     notifier,
		logger:       logger,
		now:          utcNow,
	}
}

// CreateResponse 在公告下创建回复
func (s *ResponseService) CreateResponse(ctx context.Context, in CreateResponseInput) (int64, error) {
	if in.AnnouncementID <= 0 {
		return 0, newError(ErrValidation, constants.ErrMissingAnnouncementID)
	}

	resp := &model.Response{
		AnnouncementID:   in.AnnouncementID,
		ResponderName:    defaultString(in.ResponderName, model.AnonymousName),
		ResponderContact: in.ResponderContact,
		Message:          in.Message,
		Status:           responseStatusNew,
		CreatedAt:        s.now(),
	}
	id, err := s.responseRepo.CreateResponse(ctx, resp)
	if err != nil {
		return 0, fmt.Errorf("创建回复失败: %w", err)
	}

	s.notifier.Notify(responseMessage(resp))
	return id, nil
}

// SendMessage 在回复下追加消息
func (s *ResponseService) SendMessage(ctx context.Context, in SendMessageInput) (int64, error) {
	if in.ResponseID <= 0 {
		return 0, newError(ErrValidation, constants.ErrMissingResponseID)
	}

	id, err := s.responseRepo.CreateMessage(ctx, &model.Message{
		ResponseID: in.ResponseID,
		SenderName: defaultString(in.SenderName, model.AnonymousName),
		Message:    in.Message,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("发送消息失败: %w", err)
	}
	return id, nil
}

// GetResponses 获取公告下的回复
func (s *ResponseService) GetResponses(ctx context.Context, announcementID int64) ([]model.Response, error) {
	return s.responseRepo.GetResponsesByAnnouncement(ctx, announcementID)
}

// GetMessages 获取回复下的消息
func (s *ResponseService) GetMessages(ctx context.Context, responseID int64) ([]model.Message, error) {
	return s.responseRepo.GetMessagesByResponse(ctx, responseID)
}
