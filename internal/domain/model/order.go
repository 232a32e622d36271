package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// 配送・フルフィルメント側の遷移表。
// CANCELLED / REFUNDED は終端。REFUNDEDへは返金フローが強制セットする。
var orderStatusNext = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusNext[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range orderStatusNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

// 決済の進み具合。配送側の OrderStatus とは独立した軸で持つ。
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

var paymentStatusNext = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusCompleted:  {PaymentStatusRefunded},
	PaymentStatusFailed:     {PaymentStatusPending},
	PaymentStatusCancelled:  {},
	PaymentStatusRefunded:   {},
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusNext[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, n := range paymentStatusNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

// 住所スナップショット。注文に埋め込んで確定時点の値を凍結する。
type Address struct {
	Name       string `gorm:"type:varchar(255)" json:"name"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`
	Prefecture string `gorm:"type:varchar(100)" json:"prefecture"`
	City       string `gorm:"type:varchar(255)" json:"city"`
	Line1      string `gorm:"type:varchar(255)" json:"line1"`
	Line2      string `gorm:"type:varchar(255)" json:"line2"`
	Phone      string `gorm:"type:varchar(30)" json:"phone"`
}

func (a Address) Empty() bool {
	return a == Address{}
}

// 注文。明細と合計は確定時点のスナップショットで、以後再計算しない。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	UserID          int64           `gorm:"not null;index" json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress  Address         `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
