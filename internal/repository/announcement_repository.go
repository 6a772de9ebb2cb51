package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"helpboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// 公开列表的可见性模式
const (
	VisibilityPaid    = "paid"
	VisibilityActive  = "active"
	VisibilityPayment = "payment"
)

var visibilityPredicates = map[string]string{
	VisibilityPaid:    "status = 'active' AND payment_status = 'paid'",
	VisibilityActive:  "status = 'active'",
	VisibilityPayment: "payment_status IN ('paid', 'pending')",
}

// vip在前，其次boosted，同组内按创建时间倒序
const listingOrder = `
		ORDER BY CASE type WHEN 'vip' THEN 1 WHEN 'boosted' THEN 2 ELSE 3 END,
			created_at DESC, id DESC`

// AnnouncementRepository 公告存储库
type AnnouncementRepository struct {
	base
}

// NewAnnouncementRepository 创建公告存储库实例
func NewAnnouncementRepository(db *sqlx.DB, schema string) *AnnouncementRepository {
	return &AnnouncementRepository{base{db: db, schema: schema}}
}

// CreateAnnouncement 创建公告并返回ID
func (r *AnnouncementRepository) CreateAnnouncement(ctx context.Context, a *model.Announcement) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			title, description, category, author_name, author_contact, type,
			payment_amount, payment_status, status, views, expires_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`, r.table("announcements"))

	id, err := insertReturningID(ctx, r.db, query,
		a.Title,
		a.Description,
		a.Category,
		a.AuthorName,
		a.AuthorContact,
		a.Type,
		a.PaymentAmount,
		a.PaymentStatus,
		a.Status,
		a.ExpiresAt,
		a.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

// GetAnnouncementByID 根据ID获取公告，不存在时返回nil
func (r *AnnouncementRepository) GetAnnouncementByID(ctx context.Context, id int64) (*model.Announcement, error) {
	var announcement model.Announcement
	query := r.db.Rebind(fmt.Sprintf("SELECT * FROM %s WHERE id = ?", r.table("announcements")))
	err := r.db.GetContext(ctx, &announcement, query, id)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

// GetVisibleAnnouncementByID 按可见性获取单条公告，不可见或不存在时返回nil
func (r *AnnouncementRepository) GetVisibleAnnouncementByID(ctx context.Context, visibility string, id int64) (*model.Announcement, error) {
	predicate, ok := visibilityPredicates[visibility]
	if !ok {
		return nil, fmt.Errorf("unknown visibility %q", visibility)
	}

	var announcement model.Announcement
	query := r.db.Rebind(fmt.Sprintf("SELECT * FROM %s WHERE id = ? AND %s", r.table("announcements"), predicate))
	err := r.db.GetContext(ctx, &announcement, query, id)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

// GetAnnouncements 按可见性和筛选条件获取公开列表
func (r *AnnouncementRepository) GetAnnouncements(ctx context.Context, visibility string, filter model.AnnouncementFilter) ([]model.Announcement, error) {
	predicate, ok := visibilityPredicates[visibility]
	if !ok {
		return nil, fmt.Errorf("unknown visibility %q", visibility)
	}

	conditions := []string{predicate}
	var args []interface{}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Author != "" {
		conditions = append(conditions, "author_name = ?")
		args = append(args, filter.Author)
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s %s",
		r.table("announcements"), strings.Join(conditions, " AND "), listingOrder)

	announcements := []model.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return announcements, nil
}

// GetAnnouncementsAdmin 获取全部公告
func (r *AnnouncementRepository) GetAnnouncementsAdmin(ctx context.Context) ([]model.Announcement, error) {
	announcements := []model.Announcement{}
	query := fmt.Sprintf("SELECT * FROM %s %s", r.table("announcements"), listingOrder)
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, err
	}
	return announcements, nil
}

// IncrementViews 浏览量原子加一
func (r *AnnouncementRepository) IncrementViews(ctx context.Context, id int64) error {
	query := r.db.Rebind(fmt.Sprintf("UPDATE %s SET views = views + 1 WHERE id = ?", r.table("announcements")))
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// CloseAnnouncement 关闭公告
func (r *AnnouncementRepository) CloseAnnouncement(ctx context.Context, id int64) error {
	query := r.db.Rebind(fmt.Sprintf("UPDATE %s SET status = ? WHERE id = ?", r.table("announcements")))
	_, err := r.db.ExecContext(ctx, query, model.StatusClosed, id)
	return err
}

// SetPaymentID 保存支付渠道返回的支付编号
func (r *AnnouncementRepository) SetPaymentID(ctx context.Context, id int64, paymentID string) error {
	query := r.db.Rebind(fmt.Sprintf("UPDATE %s SET payment_id = ? WHERE id = ?", r.table("announcements")))
	_, err := r.db.ExecContext(ctx, query, paymentID, id)
	return err
}

// TransitionPaymentStatus 仅当当前状态为from时更新为to，返回是否发生了更新
func (r *AnnouncementRepository) TransitionPaymentStatus(ctx context.Context, id int64, from, to model.PaymentStatus) (bool, error) {
	query := r.db.Rebind(fmt.Sprintf(
		"UPDATE %s SET payment_status = ? WHERE id = ? AND payment_status = ?", r.table("announcements")))
	n, err := rowsAffected(r.db.ExecContext(ctx, query, to, id, from))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkPaid 将任意未支付状态提升为paid，返回是否发生了更新
func (r *AnnouncementRepository) MarkPaid(ctx context.Context, id int64) (bool, error) {
	query := r.db.Rebind(fmt.Sprintf(
		"UPDATE %s SET payment_status = ? WHERE id = ? AND payment_status <> ?", r.table("announcements")))
	n, err := rowsAffected(r.db.ExecContext(ctx, query, model.PaymentPaid, id, model.PaymentPaid))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetPendingWithPaymentID 获取已发起远程支付但尚未完成的公告
func (r *AnnouncementRepository) GetPendingWithPaymentID(ctx context.Context) ([]model.Announcement, error) {
	announcements := []model.Announcement{}
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT * FROM %s
		WHERE payment_status = ? AND payment_id IS NOT NULL AND payment_id <> ''
		ORDER BY created_at`, r.table("announcements")))
	if err := r.db.SelectContext(ctx, &announcements, query, model.PaymentPending); err != nil {
		return nil, err
	}
	return announcements, nil
}

// ExpirePending 将早于before的待支付公告标记为过期
func (r *AnnouncementRepository) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	query := r.db.Rebind(fmt.Sprintf(
		"UPDATE %s SET payment_status = ? WHERE payment_status = ? AND created_at < ?", r.table("announcements")))
	return rowsAffected(r.db.ExecContext(ctx, query, model.PaymentExpired, model.PaymentPending, before))
}

// DeleteAnnouncement 在一个事务中删除公告及其回复和消息，返回是否删除了公告
func (r *AnnouncementRepository) DeleteAnnouncement(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	responses := r.table("responses")
	statements := []string{
		fmt.Sprintf("DELETE FROM %s WHERE response_id IN (SELECT id FROM %s WHERE announcement_id = ?)",
			r.table("messages"), responses),
		fmt.Sprintf("DELETE FROM %s WHERE announcement_id = ?", responses),
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), id); err != nil {
			return false, err
		}
	}

	query := tx.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table("announcements")))
	n, err := rowsAffected(tx.ExecContext(ctx, query, id))
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// DeleteAllAnnouncements 删除全部公告及其回复和消息，返回删除的公告数
func (r *AnnouncementRepository) DeleteAllAnnouncements(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, table := range []string{"messages", "responses"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table(table))); err != nil {
			return 0, err
		}
	}

	n, err := rowsAffected(tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table("announcements"))))
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
