package model

import "time"

// CelebrityRequestFee 名人请求的固定费用
const CelebrityRequestFee = 60

// 名人请求状态
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestSent     = "sent"
	RequestRejected = "rejected"
)

// CelebrityRequest 名人请求
type CelebrityRequest struct {
	ID               int64     `db:"id" json:"id"`
	RequesterName    string    `db:"requester_name" json:"requester_name"`
	RequesterContact string    `db:"requester_contact" json:"requester_contact"`
	CelebrityName    string    `db:"celebrity_name" json:"celebrity_name"`
	RequestText      string    `db:"request_text" json:"request_text"`
	Status           string    `db:"status" json:"status"`
	AdminNotes       string    `db:"admin_notes" json:"admin_notes"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// PublicCelebrityRequest 公开列表中的请求
type PublicCelebrityRequest struct {
	ID            int64     `db:"id" json:"id"`
	RequesterName string    `db:"requester_name" json:"requester_name"`
	CelebrityName string    `db:"celebrity_name" json:"celebrity_name"`
	RequestText   string    `db:"request_text" json:"request_text"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
