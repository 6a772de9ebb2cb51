package model

import "time"

// SiteVisit 站点访问记录
type SiteVisit struct {
	ID        int64     `db:"id" json:"id"`
	VisitorIP string    `db:"visitor_ip" json:"visitor_ip"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	VisitedAt time.Time `db:"visited_at" json:"visited_at"`
}

// SystemStats 后台统计
type SystemStats struct {
	TotalVisits            int64 `db:"total_visits" json:"total_visits"`
	UniqueVisitors         int64 `db:"unique_visitors" json:"unique_visitors"`
	TodayVisits            int64 `db:"today_visits" json:"today_visits"`
	TotalAnnouncementViews int64 `db:"total_announcement_views" json:"total_announcement_views"`
	TotalAnnouncements     int64 `db:"total_announcements" json:"total_announcements"`
	PendingPayments        int64 `db:"pending_payments" json:"pending_payments"`
}
