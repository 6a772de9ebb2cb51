package payment

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"helpboard/internal/model"
)

const yooMoneyQuickpayURL = "https://yoomoney.ru/quickpay/confirm.xml"

// YooMoney ЮMoney快捷支付链接，只能由管理员确认到账
type YooMoney struct {
	receiver string
}

// NewYooMoney 创建ЮMoney渠道
func NewYooMoney(receiver string) *YooMoney {
	return &YooMoney{receiver: receiver}
}

func (y *YooMoney) Name() string { return ProviderYooMoney }

func (y *YooMoney) InitialStatus() model.PaymentStatus { return model.PaymentPending }

// Initiate 生成带公告编号标签的付款链接
func (y *YooMoney) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	label := fmt.Sprintf("announcement_%d", req.AnnouncementID)

	params := url.Values{}
	params.Set("receiver", y.receiver)
	params.Set("quickpay-form", "button")
	params.Set("paymentType", "AC")
	params.Set("sum", strconv.FormatInt(req.Amount, 10))
	params.Set("label", label)
	params.Set("targets", req.Description)

	return &Initiation{
		Status:     model.PaymentPending,
		PaymentID:  label,
		PaymentURL: yooMoneyQuickpayURL + "?" + params.Encode(),
		Message:    "Оплатите объявление по ссылке, после проверки оплаты оно появится в ленте",
	}, nil
}
