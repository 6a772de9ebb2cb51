package telegram

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrNotConfigured 未配置机器人令牌或聊天ID
var ErrNotConfigured = errors.New("telegram bot token or chat id is not configured")

// Client 向运营聊天发送通知的Telegram客户端
type Client struct {
	chatID string
	bot    *bot.Bot
}

// NewClient 创建Telegram客户端，令牌或聊天ID为空时只返回未配置的客户端
func NewClient(botToken, chatID string, opts ...bot.Option) (*Client, error) {
	c := &Client{chatID: chatID}
	if botToken == "" || chatID == "" {
		return c, nil
	}

	options := append([]bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(5*time.Second, &http.Client{Timeout: 5 * time.Second}),
	}, opts...)
	b, err := bot.New(botToken, options...)
	if err != nil {
		return nil, err
	}
	c.bot = b
	return c, nil
}

// Configured 是否配置了令牌和聊天ID
func (c *Client) Configured() bool {
	return c.bot != nil
}

// SendMessage 以HTML格式发送消息
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}
