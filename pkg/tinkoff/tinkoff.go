package tinkoff

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// 支付状态
const (
	StatusConfirmed       = "CONFIRMED"
	StatusRejected        = "REJECTED"
	StatusCanceled        = "CANCELED"
	StatusDeadlineExpired = "DEADLINE_EXPIRED"
	StatusReversed        = "REVERSED"
	StatusRefunded        = "REFUNDED"
)

// Client Tinkoff收单API客户端
type Client struct {
	TerminalKey string
	Password    string
	APIServer   string
	httpClient  *http.Client
}

// NewClient 创建Tinkoff客户端
func NewClient(terminalKey, password, apiServer string) *Client {
	return &Client{
		TerminalKey: terminalKey,
		Password:    password,
		APIServer:   strings.TrimRight(apiServer, "/"),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError 接口返回非成功结果
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Details    string
	Body       string
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("tinkoff: error %s: %s %s", e.ErrorCode, e.Message, e.Details)
	}
	return fmt.Sprintf("tinkoff: status %d: %s", e.StatusCode, e.Body)
}

// FlexString 兼容字符串和数字两种形式的字段
type FlexString string

// UnmarshalJSON 实现json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	*s = FlexString(data)
	return nil
}

// InitRequest 创建支付请求，金额单位为戈比
type InitRequest struct {
	TerminalKey string            `json:"TerminalKey"`
	Amount      int64             `json:"Amount"`
	OrderID     string            `json:"OrderId"`
	Description string            `json:"Description,omitempty"`
	Token       string            `json:"Token,omitempty"`
	Data        map[string]string `json:"DATA,omitempty"`
}

// InitResponse 创建支付响应
type InitResponse struct {
	Success    bool       `json:"Success"`
	ErrorCode  string     `json:"ErrorCode"`
	Message    string     `json:"Message"`
	Details    string     `json:"Details"`
	Status     string     `json:"Status"`
	PaymentID  FlexString `json:"PaymentId"`
	OrderID    string     `json:"OrderId"`
	Amount     int64      `json:"Amount"`
	PaymentURL string     `json:"PaymentURL"`
}

type getQrRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   string `json:"PaymentId"`
	DataType    string `json:"DataType"`
	Token       string `json:"Token,omitempty"`
}

// QrResponse 获取二维码响应
type QrResponse struct {
	Success   bool       `json:"Success"`
	ErrorCode string     `json:"ErrorCode"`
	Message   string     `json:"Message"`
	Details   string     `json:"Details"`
	Data      string     `json:"Data"`
	PaymentID FlexString `json:"PaymentId"`
}

type getStateRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   string `json:"PaymentId"`
	Token       string `json:"Token,omitempty"`
}

// StateResponse 查询支付状态响应
type StateResponse struct {
	Success   bool       `json:"Success"`
	ErrorCode string     `json:"ErrorCode"`
	Message   string     `json:"Message"`
	Details   string     `json:"Details"`
	Status    string     `json:"Status"`
	PaymentID FlexString `json:"PaymentId"`
	Amount    int64      `json:"Amount"`
}

// Init 创建支付
func (c *Client) Init(ctx context.Context, req InitRequest) (*InitResponse, error) {
	req.TerminalKey = c.TerminalKey
	req.Token = ""
	token, err := c.GenerateToken(req)
	if err != nil {
		return nil, err
	}
	req.Token = token

	var resp InitResponse
	if err := c.call(ctx, "Init", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, ErrorCode: resp.ErrorCode, Message: resp.Message, Details: resp.Details}
	}
	return &resp, nil
}

// GetQr 获取SBP二维码内容
func (c *Client) GetQr(ctx context.Context, paymentID string) (*QrResponse, error) {
	req := getQrRequest{TerminalKey: c.TerminalKey, PaymentID: paymentID, DataType: "PAYLOAD"}
	token, err := c.GenerateToken(req)
	if err != nil {
		return nil, err
	}
	req.Token = token

	var resp QrResponse
	if err := c.call(ctx, "GetQr", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, ErrorCode: resp.ErrorCode, Message: resp.Message, Details: resp.Details}
	}
	return &resp, nil
}

// GetState 查询支付状态
func (c *Client) GetState(ctx context.Context, paymentID string) (*StateResponse, error) {
	req := getStateRequest{TerminalKey: c.TerminalKey, PaymentID: paymentID}
	token, err := c.GenerateToken(req)
	if err != nil {
		return nil, err
	}
	req.Token = token

	var resp StateResponse
	if err := c.call(ctx, "GetState", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, ErrorCode: resp.ErrorCode, Message: resp.Message, Details: resp.Details}
	}
	return &resp, nil
}

// call 发送请求并解析响应
func (c *Client) call(ctx context.Context, method string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIServer+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// GenerateToken 生成请求签名：根对象的标量字段加上Password，按键名排序后拼接值再取SHA-256
func (c *Client) GenerateToken(payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return "", err
	}

	values := map[string]string{"Password": c.Password}
	for key, value := range fields {
		if key == "Token" {
			continue
		}
		switch v := value.(type) {
		case string:
			values[key] = v
		case json.Number:
			values[key] = v.String()
		case bool:
			values[key] = fmt.Sprintf("%t", v)
		}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(values[key])
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:]), nil
}
