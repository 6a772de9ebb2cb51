package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ID 兼容数字和字符串两种形式的编号
type ID int64

// UnmarshalJSON 实现json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(v)
	return nil
}

// Int64 返回数值
func (id ID) Int64() int64 {
	return int64(id)
}

// ActionRequest POST请求的公共字段
type ActionRequest struct {
	Action    string `json:"action"`
	AdminCode string `json:"admin_code"`
}

// AnnouncementActionRequest 公告操作请求
type AnnouncementActionRequest struct {
	ID             ID `json:"id"`
	AnnouncementID ID `json:"announcement_id"`
}

// TargetID 兼容id和announcement_id两种写法
func (r AnnouncementActionRequest) TargetID() int64 {
	if r.ID != 0 {
		return r.ID.Int64()
	}
	return r.AnnouncementID.Int64()
}

// CreatePaymentRequest 创建付费公告请求，客户端传入的金额会被忽略
type CreatePaymentRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	AuthorName    string `json:"author_name"`
	AuthorContact string `json:"author_contact"`
	Type          string `json:"type"`
}

// PaymentActionRequest 查询或确认支付请求
type PaymentActionRequest struct {
	AnnouncementID ID `json:"announcement_id"`
}

// CreateResponseRequest 创建回复请求
type CreateResponseRequest struct {
	AnnouncementID   ID     `json:"announcement_id"`
	ResponderName    string `json:"responder_name"`
	ResponderContact string `json:"responder_contact"`
	Message          string `json:"message"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	ResponseID ID     `json:"response_id"`
	SenderName string `json:"sender_name"`
	Message    string `json:"message"`
}

// CreateDonationRequest 创建捐赠请求
type CreateDonationRequest struct {
	DonorName    string          `json:"donor_name"`
	DonorContact string          `json:"donor_contact"`
	Amount       decimal.Decimal `json:"amount"`
	Message      string          `json:"message"`
}

// AssignDonationRequest 分配捐赠请求
type AssignDonationRequest struct {
	DonationID ID     `json:"donation_id"`
	AssignedTo string `json:"assigned_to"`
	AdminNotes string `json:"admin_notes"`
}

// CreateCelebrityRequest 创建名人请求
type CreateCelebrityRequest struct {
	RequesterName    string `json:"requester_name"`
	RequesterContact string `json:"requester_contact"`
	CelebrityName    string `json:"celebrity_name"`
	RequestText      string `json:"request_text"`
}

// UpdateStatusRequest 更新名人请求状态
type UpdateStatusRequest struct {
	RequestID  ID     `json:"request_id"`
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

// AdminSessionRequest 管理员登录或注销请求
type AdminSessionRequest struct {
	Token string `json:"token"`
}
