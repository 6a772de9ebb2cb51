package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 支付状态
const (
	StatusPending           = "pending"
	StatusWaitingForCapture = "waiting_for_capture"
	StatusSucceeded         = "succeeded"
	StatusCanceled          = "canceled"
)

// Client ЮKassa API客户端
type Client struct {
	ShopID     string
	SecretKey  string
	APIServer  string
	httpClient *http.Client
}

// NewClient 创建ЮKassa客户端
func NewClient(shopID, secretKey, apiServer string) *Client {
	return &Client{
		ShopID:     shopID,
		SecretKey:  secretKey,
		APIServer:  strings.TrimRight(apiServer, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured 是否配置了商户凭证
func (c *Client) Configured() bool {
	return c.ShopID != "" && c.SecretKey != ""
}

// APIError 接口返回非2xx
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Body        string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("yookassa: status %d: %s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("yookassa: status %d: %s", e.StatusCode, e.Body)
}

// Amount 金额
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Confirmation 支付确认方式
type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// CreatePaymentRequest 创建支付请求
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	Capture      bool              `json:"capture"`
	Confirmation Confirmation      `json:"confirmation"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Payment 支付对象
type Payment struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       Amount            `json:"amount"`
	Confirmation *Confirmation     `json:"confirmation,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type errorResponse struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// NewRUBAmount 以卢布构造两位小数金额
func NewRUBAmount(value decimal.Decimal) Amount {
	return Amount{Value: value.StringFixed(2), Currency: "RUB"}
}

// CreatePayment 创建支付，每次调用使用新的幂等键
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIServer+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", uuid.NewString())

	var payment Payment
	if err := c.do(httpReq, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment 查询支付
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIServer+"/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}

	var payment Payment
	if err := c.do(httpReq, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(c.ShopID, c.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Code = errResp.Code
			apiErr.Description = errResp.Description
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yookassa: decode response: %w", err)
	}
	return nil
}
