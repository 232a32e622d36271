package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentListFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentMethod string
	Gateway       string
}

// 決済台帳。行は追記とステータス更新のみで、金額は書き換えない。
type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (int64, error)
	FindByID(ctx context.Context, paymentID int64) (model.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (model.Payment, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error)
	List(ctx context.Context, f PaymentListFilter) ([]model.Payment, int64, error)

	// transactionID が nil のときは既存値を残す
	UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentState, transactionID *string) error
}
