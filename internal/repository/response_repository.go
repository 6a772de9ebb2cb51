package repository

import (
	"context"
	"fmt"

	"helpboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// ResponseRepository 回复与消息存储库
type ResponseRepository struct {
	base
}

// NewResponseRepository 创建回复存储库实例
func NewResponseRepository(db *sqlx.DB, schema string) *ResponseRepository {
	return &ResponseRepository{base{db: db, schema: schema}}
}

// CreateResponse 创建回复
func (r *ResponseRepository) CreateResponse(ctx context.Context, resp *model.Response) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (announcement_id, responder_name, responder_contact, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, r.table("responses"))
	id, err := insertReturningID(ctx, r.db, query,
		resp.AnnouncementID, resp.ResponderName, resp.ResponderContact, resp.Message, resp.Status, resp.CreatedAt)
	if err != nil {
		return 0, err
	}
	resp.ID = id
	return id, nil
}

// GetResponsesByAnnouncement 获取公告下的回复，附带消息数
func (r *ResponseRepository) GetResponsesByAnnouncement(ctx context.Context, announcementID int64) ([]model.Response, error) {
	responses := []model.Response{}
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT r.id, r.announcement_id, r.responder_name, r.responder_contact, r.message, r.status, r.created_at,
			(SELECT COUNT(*) FROM %s m WHERE m.response_id = r.id) AS message_count
		FROM %s r
		WHERE r.announcement_id = ?
		ORDER BY r.created_at DESC, r.id DESC`, r.table("messages"), r.table("responses")))
	if err := r.db.SelectContext(ctx, &responses, query, announcementID); err != nil {
		return nil, err
	}
	return responses, nil
}

// CreateMessage 在回复下追加消息
func (r *ResponseRepository) CreateMessage(ctx context.Context, msg *model.Message) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (response_id, sender_name, message, created_at)
		VALUES (?, ?, ?, ?)`, r.table("messages"))
	id, err := insertReturningID(ctx, r.db, query, msg.ResponseID, msg.SenderName, msg.Message, msg.CreatedAt)
	if err != nil {
		return 0, err
	}
	msg.ID = id
	return id, nil
}

// GetMessagesByResponse 按时间顺序获取回复下的消息
func (r *ResponseRepository) GetMessagesByResponse(ctx context.Context, responseID int64) ([]model.Message, error) {
	messages := []model.Message{}
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT * FROM %s WHERE response_id = ? ORDER BY created_at ASC, id ASC`, r.table("messages")))
	if err := r.db.SelectContext(ctx, &messages, query, responseID); err != nil {
		return nil, err
	}
	return messages, nil
}
