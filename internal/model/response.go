package model

import "time"

// AnonymousName 匿名用户的默认名称
const AnonymousName = "Аноним"

// Response 公告下的回复
type Response struct {
	ID               int64     `db:"id" json:"id"`
	AnnouncementID   int64     `db:"announcement_id" json:"announcement_id"`
	ResponderName    string    `db:"responder_name" json:"responder_name"`
	ResponderContact string    `db:"responder_contact" json:"responder_contact"`
	Message          string    `db:"message" json:"message"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	MessageCount     int64     `db:"message_count" json:"message_count"`
}

// Message 回复下的消息
type Message struct {
	ID         int64     `db:"id" json:"id"`
	ResponseID int64     `db:"response_id" json:"response_id"`
	SenderName string    `db:"sender_name" json:"sender"`
	Message    string    `db:"message" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
