// Package payment 封装公告付款使用的各支付渠道
package payment

import (
	"context"
	"fmt"

	"helpboard/config"
	"helpboard/internal/model"
	"helpboard/pkg/tinkoff"
	"helpboard/pkg/yookassa"
)

// 支付渠道名称
const (
	ProviderManual   = "manual"
	ProviderYooMoney = "yoomoney"
	ProviderTinkoff  = "tinkoff"
	ProviderYooKassa = "yookassa"
)

// Request 发起支付的参数，金额单位为卢布
type Request struct {
	AnnouncementID int64
	Amount         int64
	Type           model.AnnouncementType
	Description    string
}

// Initiation 发起支付的结果和付款说明
type Initiation struct {
	Status     model.PaymentStatus
	PaymentID  string
	PaymentURL string
	QRPayload  string
	CardNumber string
	Message    string
}

// Provider 支付渠道。Initiate出错时若远程支付已经创建，会同时返回带PaymentID的部分结果
type Provider interface {
	Name() string
	InitialStatus() model.PaymentStatus
	Initiate(ctx context.Context, req Request) (*Initiation, error)
}

// StatusChecker 支持主动查询支付状态的渠道
type StatusChecker interface {
	CheckStatus(ctx context.Context, providerPaymentID string) (model.PaymentStatus, error)
}

// NewProvider 根据配置创建支付渠道
func NewProvider(cfg config.PaymentConfig) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderManual:
		return NewManual(cfg.CardNumber), nil
	case ProviderYooMoney:
		if cfg.YooMoneyReceiver == "" {
			return nil, fmt.Errorf("YOOMONEY_RECEIVER is required for provider %s", ProviderYooMoney)
		}
		return NewYooMoney(cfg.YooMoneyReceiver), nil
	case ProviderTinkoff:
		if cfg.TinkoffTerminalKey == "" || cfg.TinkoffPassword == "" {
			return nil, fmt.Errorf("TINKOFF_TERMINAL_KEY and TINKOFF_PASSWORD are required for provider %s", ProviderTinkoff)
		}
		return NewTinkoffSBP(tinkoff.NewClient(cfg.TinkoffTerminalKey, cfg.TinkoffPassword, cfg.TinkoffBaseURL)), nil
	case ProviderYooKassa:
		client := yookassa.NewClient(cfg.YooKassaShopID, cfg.YooKassaSecretKey, cfg.YooKassaBaseURL)
		return NewYooKassa(client, cfg.YooKassaReturnURL), nil
	default:
		return nil, fmt.Errorf("unsupported PAYMENT_PROVIDER %q", cfg.Provider)
	}
}
