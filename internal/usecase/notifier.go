package usecase

import (
	"context"

	"app/internal/domain/model"
)

// 注文・問い合わせ作成後の通知とメール。
// ベストエフォート：実装側が失敗を飲み込んでログに残し、呼び出し元へは返さない。
type Notifier interface {
	OrderCreated(ctx context.Context, order model.Order, items []model.OrderItem)
	EnquiryReceived(ctx context.Context, enquiry model.Enquiry)
}

// 通知先が未設定の環境用
type NopNotifier struct{}

func (NopNotifier) OrderCreated(ctx context.Context, order model.Order, items []model.OrderItem) {}
func (NopNotifier) EnquiryReceived(ctx context.Context, enquiry model.Enquiry)                   {}
