package repository

import (
	"context"
	"fmt"

	"helpboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// 公开请求列表的条数上限
const publicRequestLimit = 50

// CelebrityRepository 名人请求存储库
type CelebrityRepository struct {
	base
}

// NewCelebrityRepository 创建名人请求存储库实例
func NewCelebrityRepository(db *sqlx.DB, schema string) *CelebrityRepository {
	return &CelebrityRepository{base{db: db, schema: schema}}
}

// CreateRequest 创建名人请求
func (r *CelebrityRepository) CreateRequest(ctx context.Context, req *model.CelebrityRequest) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (requester_name, requester_contact, celebrity_name, request_text, status, admin_notes, created_at)
		VALUES (?, ?, ?, ?, ?, '', ?)`, r.table("celebrity_requests"))
	id, err := insertReturningID(ctx, r.db, query,
		req.RequesterName, req.RequesterContact, req.CelebrityName, req.RequestText, req.Status, req.CreatedAt)
	if err != nil {
		return 0, err
	}
	req.ID = id
	return id, nil
}

// GetPublicRequests 获取未被拒绝的请求
func (r *CelebrityRepository) GetPublicRequests(ctx context.Context) ([]model.PublicCelebrityRequest, error) {
	requests := []model.PublicCelebrityRequest{}
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT id, requester_name, celebrity_name, request_text, status, created_at FROM %s
		WHERE status <> ?
		ORDER BY created_at DESC, id DESC
		LIMIT %d`, r.table("celebrity_requests"), publicRequestLimit))
	if err := r.db.SelectContext(ctx, &requests, query, model.RequestRejected); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetAllRequests 获取全部请求
func (r *CelebrityRepository) GetAllRequests(ctx context.Context) ([]model.CelebrityRequest, error) {
	requests := []model.CelebrityRequest{}
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY created_at DESC, id DESC", r.table("celebrity_requests"))
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus 更新请求状态和备注
func (r *CelebrityRepository) UpdateStatus(ctx context.Context, id int64, status, notes string) (bool, error) {
	query := r.db.Rebind(fmt.Sprintf(
		"UPDATE %s SET status = ?, admin_notes = ? WHERE id = ?", r.table("celebrity_requests")))
	n, err := rowsAffected(r.db.ExecContext(ctx, query, status, notes, id))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
