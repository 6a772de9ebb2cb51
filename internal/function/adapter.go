// Package function 把云函数事件转换为HTTP请求交给路由处理
package function

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Event 云函数HTTP事件
type Event struct {
	HTTPMethod            string            `json:"httpMethod"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  string            `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
	RequestContext        RequestContext    `json:"requestContext"`
}

// RequestContext 事件附带的调用方信息
type RequestContext struct {
	Identity struct {
		SourceIP string `json:"sourceIp"`
	} `json:"identity"`
}

// Result 云函数返回值
type Result struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// Adapter 固定组件路径的事件适配器
type Adapter struct {
	handler http.Handler
	path    string
}

// NewAdapter 创建适配器，component对应路由路径
func NewAdapter(handler http.Handler, component string) *Adapter {
	return &Adapter{handler: handler, path: "/" + strings.Trim(component, "/")}
}

// Handle 处理单个事件
func (a *Adapter) Handle(ctx context.Context, ev Event) (*Result, error) {
	req, err := a.request(ctx, ev)
	if err != nil {
		return nil, err
	}

	w := newResponseWriter()
	a.handler.ServeHTTP(w, req)

	headers := make(map[string]string, len(w.header))
	for k := range w.header {
		headers[k] = w.header.Get(k)
	}
	return &Result{
		StatusCode: w.status,
		Headers:    headers,
		Body:       w.body.String(),
	}, nil
}

func (a *Adapter) request(ctx context.Context, ev Event) (*http.Request, error) {
	method := ev.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		body = decoded
	}

	target := a.path
	if len(ev.QueryStringParameters) > 0 {
		query := url.Values{}
		for k, v := range ev.QueryStringParameters {
			query.Set(k, v)
		}
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range ev.Headers {
		req.Header.Set(k, v)
	}
	req.RemoteAddr = net.JoinHostPort(clientIP(ev), "0")
	return req, nil
}

// clientIP 只信任网关记录的来源地址，客户端可伪造的X-Forwarded-For不参与
func clientIP(ev Event) string {
	if ip := ev.RequestContext.Identity.SourceIP; ip != "" {
		return ip
	}
	return "127.0.0.1"
}

type responseWriter struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}, status: http.StatusOK}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
}

func (w *responseWriter) Write(p []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.body.Write(p)
}
