package model

import "time"

// VIPDuration vip公告的展示期限
const VIPDuration = 7 * 24 * time.Hour

// 价格表，金额只由类型决定
var prices = map[AnnouncementType]int64{
	TypeRegular: 10,
	TypeBoosted: 20,
	TypeVIP:     100,
}

// ParseAnnouncementType 解析类型，空值视为regular
func ParseAnnouncementType(s string) (AnnouncementType, bool) {
	if s == "" {
		return TypeRegular, true
	}
	t := AnnouncementType(s)
	_, ok := prices[t]
	return t, ok
}

// Price 返回该类型的固定价格
func (t AnnouncementType) Price() int64 {
	return prices[t]
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentExpired   PaymentStatus = "expired"
)

// IsTerminal 是否为终态
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentPaid || s == PaymentCancelled || s == PaymentExpired
}

// PaymentResult 创建或查询支付后返回给客户端的信息
type PaymentResult struct {
	AnnouncementID int64         `json:"announcement_id"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	PaymentID      string        `json:"payment_id,omitempty"`
	Amount         int64         `json:"amount"`
	Type           string        `json:"type,omitempty"`
	Provider       string        `json:"provider,omitempty"`
	PaymentURL     string        `json:"payment_url,omitempty"`
	QRPayload      string        `json:"qr_payload,omitempty"`
	CardNumber     string        `json:"card_number,omitempty"`
	Message        string        `json:"message,omitempty"`
	ExpiresAt      *string       `json:"expires_at,omitempty"`
}
