package model

import (
	"database/sql"
	"time"
)

// AnnouncementType 公告类型
type AnnouncementType string

const (
	TypeRegular AnnouncementType = "regular"
	TypeBoosted AnnouncementType = "boosted"
	TypeVIP     AnnouncementType = "vip"
)

// 公告状态
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Announcement 公告模型
type Announcement struct {
	ID            int64            `db:"id" json:"id"`
	Title         string           `db:"title" json:"title"`
	Description   string           `db:"description" json:"description"`
	Category      string           `db:"category" json:"category"`
	AuthorName    string           `db:"author_name" json:"author_name"`
	AuthorContact string           `db:"author_contact" json:"author_contact"`
	Type          AnnouncementType `db:"type" json:"type"`
	PaymentAmount int64            `db:"payment_amount" json:"payment_amount"`
	PaymentStatus PaymentStatus    `db:"payment_status" json:"payment_status"`
	PaymentID     sql.NullString   `db:"payment_id" json:"-"`
	Status        string           `db:"status" json:"status"`
	Views         int64            `db:"views" json:"views"`
	ExpiresAt     sql.NullTime     `db:"expires_at" json:"-"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

// AnnouncementView 对外展示的公告
type AnnouncementView struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Author        string           `json:"author"`
	AuthorContact string           `json:"author_contact,omitempty"`
	Date          string           `json:"date"`
	Type          AnnouncementType `json:"type"`
	Status        string           `json:"status"`
	Views         int64            `json:"views"`
	PaymentStatus PaymentStatus    `json:"payment_status"`
	PaymentLabel  string           `json:"payment_label"`
	PaymentAmount int64            `json:"payment_amount"`
	ExpiresAt     *string          `json:"expires_at"`
}

// View 转换为对外展示结构，不含作者联系方式
func (a *Announcement) View() AnnouncementView {
	v := AnnouncementView{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Category:      a.Category,
		Author:        a.AuthorName,
		Date:          a.CreatedAt.Format(time.RFC3339),
		Type:          a.Type,
		Status:        a.Status,
		Views:         a.Views,
		PaymentStatus: a.PaymentStatus,
		PaymentLabel:  a.Label(),
		PaymentAmount: a.PaymentAmount,
	}
	if a.ExpiresAt.Valid {
		expires := a.ExpiresAt.Time.Format(time.RFC3339)
		v.ExpiresAt = &expires
	}
	return v
}

// AdminView 管理员视图，包含作者联系方式
func (a *Announcement) AdminView() AnnouncementView {
	v := a.View()
	v.AuthorContact = a.AuthorContact
	return v
}

// Label 返回状态的展示文案
func (a *Announcement) Label() string {
	if a.Status == StatusClosed {
		return "Закрыто"
	}
	switch a.PaymentStatus {
	case PaymentPending:
		return "Ожидает оплаты"
	case PaymentPaid:
		return "Оплачено"
	case PaymentCancelled:
		return "Отменено"
	case PaymentExpired:
		return "Истекло"
	}
	return "Активно"
}

// AnnouncementFilter 列表筛选条件
type AnnouncementFilter struct {
	Type   string
	Author string
}
