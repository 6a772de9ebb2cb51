package payment

import (
	"context"
	"fmt"

	"helpboard/internal/model"
)

// Manual 直接转账到银行卡，创建即视为已支付
type Manual struct {
	cardNumber string
}

// NewManual 创建银行卡转账渠道
func NewManual(cardNumber string) *Manual {
	return &Manual{cardNumber: cardNumber}
}

func (m *Manual) Name() string { return ProviderManual }

func (m *Manual) InitialStatus() model.PaymentStatus { return model.PaymentPaid }

// Initiate 返回收款卡号
func (m *Manual) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	return &Initiation{
		Status:     model.PaymentPaid,
		CardNumber: m.cardNumber,
		Message:    fmt.Sprintf("Объявление создано! Переведите %d₽ на карту %s", req.Amount, m.cardNumber),
	}, nil
}
