package payment

import (
	"context"
	"fmt"
	"strconv"

	"helpboard/internal/model"
	"helpboard/pkg/yookassa"

	"github.com/shopspring/decimal"
)

// YooKassa ЮKassa重定向支付，未配置凭证时以测试模式直接视为已支付
type YooKassa struct {
	client    *yookassa.Client
	returnURL string
}

// NewYooKassa 创建ЮKassa渠道
func NewYooKassa(client *yookassa.Client, returnURL string) *YooKassa {
	return &YooKassa{client: client, returnURL: returnURL}
}

func (y *YooKassa) Name() string { return ProviderYooKassa }

// InitialStatus 测试模式下为paid
func (y *YooKassa) InitialStatus() model.PaymentStatus {
	if !y.client.Configured() {
		return model.PaymentPaid
	}
	return model.PaymentPending
}

// Initiate 创建支付并返回确认页地址
func (y *YooKassa) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	if !y.client.Configured() {
		return &Initiation{
			Status:  model.PaymentPaid,
			Message: "Тестовый режим: объявление оплачено",
		}, nil
	}

	payment, err := y.client.CreatePayment(ctx, yookassa.CreatePaymentRequest{
		Amount:  yookassa.NewRUBAmount(decimal.NewFromInt(req.Amount)),
		Capture: true,
		Confirmation: yookassa.Confirmation{
			Type:      "redirect",
			ReturnURL: y.returnURL,
		},
		Description: req.Description,
		Metadata:    map[string]string{"announcement_id": strconv.FormatInt(req.AnnouncementID, 10)},
	})
	if err != nil {
		return nil, err
	}

	initiation := &Initiation{
		Status:    mapYooKassaStatus(payment.Status),
		PaymentID: payment.ID,
		Message:   fmt.Sprintf("Перейдите по ссылке для оплаты %d₽", req.Amount),
	}
	if payment.Confirmation != nil {
		initiation.PaymentURL = payment.Confirmation.ConfirmationURL
	}
	return initiation, nil
}

// CheckStatus 查询支付状态
func (y *YooKassa) CheckStatus(ctx context.Context, providerPaymentID string) (model.PaymentStatus, error) {
	payment, err := y.client.GetPayment(ctx, providerPaymentID)
	if err != nil {
		return "", err
	}
	return mapYooKassaStatus(payment.Status), nil
}

func mapYooKassaStatus(status string) model.PaymentStatus {
	switch status {
	case yookassa.StatusSucceeded:
		return model.PaymentPaid
	case yookassa.StatusCanceled, "cancelled":
		return model.PaymentCancelled
	default:
		return model.PaymentPending
	}
}
