package repository

import (
	"context"
	"fmt"

	"helpboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// 公开捐赠列表的条数上限
const publicDonationLimit = 20

// DonationRepository 捐赠存储库
type DonationRepository struct {
	base
}

// NewDonationRepository 创建捐赠存储库实例
func NewDonationRepository(db *sqlx.DB, schema string) *DonationRepository {
	return &DonationRepository{base{db: db, schema: schema}}
}

// CreateDonation 创建捐赠记录
func (r *DonationRepository) CreateDonation(ctx context.Context, d *model.Donation) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (donor_name, donor_contact, amount, message, payment_status, assigned_to, admin_notes, created_at)
		VALUES (?, ?, ?, ?, ?, '', '', ?)`, r.table("donations"))
	id, err := insertReturningID(ctx, r.db, query,
		d.DonorName, d.DonorContact, d.Amount, d.Message, d.PaymentStatus, d.CreatedAt)
	if err != nil {
		return 0, err
	}
	d.ID = id
	return id, nil
}

// GetPublicDonations 获取最近已支付的捐赠
func (r *DonationRepository) GetPublicDonations(ctx context.Context) ([]model.PublicDonation, error) {
	donations := []model.PublicDonation{}
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT id, donor_name, amount, message, created_at FROM %s
		WHERE payment_status = ?
		ORDER BY created_at DESC, id DESC
		LIMIT %d`, r.table("donations"), publicDonationLimit))
	if err := r.db.SelectContext(ctx, &donations, query, model.PaymentPaid); err != nil {
		return nil, err
	}
	return donations, nil
}

// GetAllDonations 获取全部捐赠
func (r *DonationRepository) GetAllDonations(ctx context.Context) ([]model.Donation, error) {
	donations := []model.Donation{}
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY created_at DESC, id DESC", r.table("donations"))
	if err := r.db.SelectContext(ctx, &donations, query); err != nil {
		return nil, err
	}
	return donations, nil
}

// AssignDonation 记录捐赠的分配对象和备注
func (r *DonationRepository) AssignDonation(ctx context.Context, id int64, assignedTo, notes string) (bool, error) {
	query := r.db.Rebind(fmt.Sprintf(
		"UPDATE %s SET assigned_to = ?, admin_notes = ? WHERE id = ?", r.table("donations")))
	n, err := rowsAffected(r.db.ExecContext(ctx, query, assignedTo, notes, id))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TransitionPaymentStatus 仅当当前状态为from时更新为to
func (r *DonationRepository) TransitionPaymentStatus(ctx context.Context, id int64, from, to model.PaymentStatus) (bool, error) {
	query := r.db.Rebind(fmt.Sprintf(
		"UPDATE %s SET payment_status = ? WHERE id = ? AND payment_status = ?", r.table("donations")))
	n, err := rowsAffected(r.db.ExecContext(ctx, query, to, id, from))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetDonationByID 根据ID获取捐赠，不存在时返回nil
func (r *DonationRepository) GetDonationByID(ctx context.Context, id int64) (*model.Donation, error) {
	var donation model.Donation
	query := r.db.Rebind(fmt.Sprintf("SELECT * FROM %s WHERE id = ?", r.table("donations")))
	err := r.db.GetContext(ctx, &donation, query, id)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &donation, nil
}
