package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 決済1行のステータス（注文側の PaymentStatus とは別物）。
type PaymentState string

const (
	PaymentStatePending   PaymentState = "PENDING"
	PaymentStateCompleted PaymentState = "COMPLETED"
	PaymentStateFailed    PaymentState = "FAILED"
	PaymentStateRefunded  PaymentState = "REFUNDED"
)

func (s PaymentState) Valid() bool {
	switch s {
	case PaymentStatePending, PaymentStateCompleted, PaymentStateFailed, PaymentStateRefunded:
		return true
	}
	return false
}

// 返金行の transaction_id に付ける接頭辞。
const RefundTransactionPrefix = "REFUND-"

// 決済台帳の1行。注文に対して複数持てる。
// 返金は金額マイナスの新しい行として追記する（元の行は書き換えない）。
type Payment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64           `gorm:"not null;index" json:"order_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	Gateway       string          `gorm:"type:varchar(50)" json:"gateway"`
	Status        PaymentState    `gorm:"type:varchar(20);not null;index" json:"status"`
	TransactionID *string         `gorm:"type:varchar(255);index" json:"transaction_id"`
	MetadataJSON  string          `gorm:"type:text;column:metadata" json:"metadata"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 返金済みの行か
func (p Payment) IsRefund() bool {
	return p.Amount.IsNegative()
}
