package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation 捐赠记录
type Donation struct {
	ID            int64           `db:"id" json:"id"`
	DonorName     string          `db:"donor_name" json:"donor_name"`
	DonorContact  string          `db:"donor_contact" json:"donor_contact"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Message       string          `db:"message" json:"message"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	AssignedTo    string          `db:"assigned_to" json:"assigned_to"`
	AdminNotes    string          `db:"admin_notes" json:"admin_notes"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// PublicDonation 公开列表中的捐赠，不含联系方式和备注
type PublicDonation struct {
	ID        int64           `db:"id" json:"id"`
	DonorName string          `db:"donor_name" json:"donor_name"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Message   string          `db:"message" json:"message"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
