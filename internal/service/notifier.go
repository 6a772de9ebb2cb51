package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"helpboard/internal/model"
	"helpboard/pkg/async"
	"helpboard/pkg/logger"
	"helpboard/pkg/telegram"
)

// 单条通知的发送超时
const notifyTimeout = 5 * time.Second

// Notifier 运营通知
type Notifier interface {
	Notify(text string)
}

// TelegramNotifier 通过后台工作器异步发送Telegram通知
type TelegramNotifier struct {
	client *telegram.Client
	worker *async.Worker
	logger *logger.Logger
}

// NewTelegramNotifier 创建Telegram通知器
func NewTelegramNotifier(client *telegram.Client, worker *async.Worker, logger *logger.Logger) *TelegramNotifier {
	return &TelegramNotifier{client: client, worker: worker, logger: logger}
}

// Notify 提交通知任务，失败只记录日志
func (n *TelegramNotifier) Notify(text string) {
	if !n.client.Configured() {
		n.logger.Debug("未配置Telegram，跳过通知")
		return
	}
	n.worker.Submit("telegram_notify", notifyTimeout, func(ctx context.Context) error {
		return n.client.SendMessage(ctx, text)
	})
}

// 以下为通知文案，用户输入一律转义

func esc(s string) string {
	return html.EscapeString(s)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func paidAnnouncementMessage(a *model.Announcement) string {
	return fmt.Sprintf(
		"✅ <b>Оплачено объявление!</b>\n\n"+
			"📌 <b>Заголовок:</b> %s\n"+
			"👤 <b>Автор:</b> %s\n"+
			"📞 <b>Контакт:</b> %s\n"+
			"🏷 <b>Тип:</b> %s\n"+
			"💵 <b>Сумма:</b> %d₽\n\n"+
			"ID объявления: %d",
		esc(a.Title), esc(a.AuthorName), esc(a.AuthorContact), esc(string(a.Type)), a.PaymentAmount, a.ID)
}

func responseMessage(r *model.Response) string {
	return fmt.Sprintf(
		"💬 <b>Новый отклик на объявление!</b>\n\n"+
			"👤 <b>От:</b> %s\n"+
			"📞 <b>Контакт:</b> %s\n"+
			"📝 <b>Сообщение:</b> %s\n\n"+
			"ID объявления: %d",
		esc(r.ResponderName), esc(r.ResponderContact), esc(truncateRunes(r.Message, 200)), r.AnnouncementID)
}

func donationMessage(d *model.Donation) string {
	return fmt.Sprintf(
		"💰 <b>Новое пожертвование!</b>\n\n"+
			"👤 <b>От:</b> %s\n"+
			"💵 <b>Сумма:</b> %s₽\n"+
			"💬 <b>Сообщение:</b> %s\n"+
			"📞 <b>Контакт:</b> %s\n\n"+
			"ID пожертвования: %d",
		esc(d.DonorName), d.Amount.String(), esc(d.Message), esc(d.DonorContact), d.ID)
}

func celebrityMessage(r *model.CelebrityRequest) string {
	return fmt.Sprintf(
		"⭐ <b>Новое обращение к знаменитости!</b>\n\n"+
			"👤 <b>От:</b> %s\n"+
			"🎭 <b>К кому:</b> %s\n"+
			"📝 <b>Текст:</b> %s\n"+
			"📞 <b>Контакт:</b> %s\n"+
			"💵 <b>Сумма:</b> %d₽\n\n"+
			"ID обращения: %d",
		esc(r.RequesterName), esc(r.CelebrityName), esc(truncateRunes(r.RequestText, 200)), esc(r.RequesterContact),
		model.CelebrityRequestFee, r.ID)
}
