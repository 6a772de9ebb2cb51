package repository

import (
	"context"
	"fmt"
	"time"

	"helpboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// SystemRepository 访问记录和统计存储库
type SystemRepository struct {
	base
}

// NewSystemRepository 创建系统统计存储库实例
func NewSystemRepository(db *sqlx.DB, schema string) *SystemRepository {
	return &SystemRepository{base{db: db, schema: schema}}
}

// CreateVisit 记录一次访问
func (r *SystemRepository) CreateVisit(ctx context.Context, v *model.SiteVisit) (int64, error) {
	query := fmt.Sprintf("INSERT INTO %s (visitor_ip, user_agent, visited_at) VALUES (?, ?, ?)", r.table("site_visits"))
	id, err := insertReturningID(ctx, r.db, query, v.VisitorIP, v.UserAgent, v.VisitedAt)
	if err != nil {
		return 0, err
	}
	v.ID = id
	return id, nil
}

// GetSystemStats 获取访问和公告统计，dayStart为当天零点
func (r *SystemRepository) GetSystemStats(ctx context.Context, dayStart time.Time) (*model.SystemStats, error) {
	var stats model.SystemStats
	visits := r.table("site_visits")

	// 访问统计
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_visits,
			COUNT(DISTINCT visitor_ip) AS unique_visitors,
			COALESCE(SUM(CASE WHEN visited_at >= ? THEN 1 ELSE 0 END), 0) AS today_visits
		FROM %s`, visits))
	var visitStats struct {
		TotalVisits    int64 `db:"total_visits"`
		UniqueVisitors int64 `db:"unique_visitors"`
		TodayVisits    int64 `db:"today_visits"`
	}
	if err := r.db.GetContext(ctx, &visitStats, query, dayStart); err != nil {
		return nil, err
	}
	stats.TotalVisits = visitStats.TotalVisits
	stats.UniqueVisitors = visitStats.UniqueVisitors
	stats.TodayVisits = visitStats.TodayVisits

	// 公告统计
	query = r.db.Rebind(fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_announcements,
			COALESCE(SUM(views), 0) AS total_announcement_views,
			COALESCE(SUM(CASE WHEN payment_status = ? THEN 1 ELSE 0 END), 0) AS pending_payments
		FROM %s`, r.table("announcements")))
	var announcementStats struct {
		TotalAnnouncements     int64 `db:"total_announcements"`
		TotalAnnouncementViews int64 `db:"total_announcement_views"`
		PendingPayments        int64 `db:"pending_payments"`
	}
	if err := r.db.GetContext(ctx, &announcementStats, query, model.PaymentPending); err != nil {
		return nil, err
	}
	stats.TotalAnnouncements = announcementStats.TotalAnnouncements
	stats.TotalAnnouncementViews = announcementStats.TotalAnnouncementViews
	stats.PendingPayments = announcementStats.PendingPayments

	return &stats, nil
}
