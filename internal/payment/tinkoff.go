package payment

import (
	"context"
	"fmt"

	"helpboard/internal/model"
	"helpboard/pkg/tinkoff"

	"github.com/shopspring/decimal"
)

// TinkoffSBP 通过Tinkoff收单发起SBP二维码支付
type TinkoffSBP struct {
	client *tinkoff.Client
}

// NewTinkoffSBP 创建Tinkoff SBP渠道
func NewTinkoffSBP(client *tinkoff.Client) *TinkoffSBP {
	return &TinkoffSBP{client: client}
}

func (t *TinkoffSBP) Name() string { return ProviderTinkoff }

func (t *TinkoffSBP) InitialStatus() model.PaymentStatus { return model.PaymentPending }

// Initiate 调用Init创建支付，再用GetQr获取二维码内容
func (t *TinkoffSBP) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	kopecks := decimal.NewFromInt(req.Amount).Mul(decimal.NewFromInt(100)).IntPart()

	initResp, err := t.client.Init(ctx, tinkoff.InitRequest{
		Amount:      kopecks,
		OrderID:     fmt.Sprintf("announcement-%d", req.AnnouncementID),
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	paymentID := string(initResp.PaymentID)

	qr, err := t.client.GetQr(ctx, paymentID)
	if err != nil {
		// 远程支付已存在，保留编号供对账
		return &Initiation{
			Status:     model.PaymentPending,
			PaymentID:  paymentID,
			PaymentURL: initResp.PaymentURL,
		}, fmt.Errorf("获取SBP二维码失败: %w", err)
	}

	return &Initiation{
		Status:     model.PaymentPending,
		PaymentID:  paymentID,
		PaymentURL: initResp.PaymentURL,
		QRPayload:  qr.Data,
		Message:    "Отсканируйте QR-код в приложении банка для оплаты через СБП",
	}, nil
}

// CheckStatus 查询支付状态
func (t *TinkoffSBP) CheckStatus(ctx context.Context, providerPaymentID string) (model.PaymentStatus, error) {
	state, err := t.client.GetState(ctx, providerPaymentID)
	if err != nil {
		return "", err
	}
	return mapTinkoffStatus(state.Status), nil
}

func mapTinkoffStatus(status string) model.PaymentStatus {
	switch status {
	case tinkoff.StatusConfirmed:
		return model.PaymentPaid
	case tinkoff.StatusRejected, tinkoff.StatusCanceled, tinkoff.StatusDeadlineExpired,
		tinkoff.StatusReversed, tinkoff.StatusRefunded:
		return model.PaymentCancelled
	default:
		return model.PaymentPending
	}
}
