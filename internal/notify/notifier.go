package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"app/internal/domain/model"
	"app/internal/mail"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// 注文・問い合わせの副作用（管理者通知＋メール）。
// すべてベストエフォートで、失敗はログに残すだけ。
type Notifier struct {
	notificationRepo repo.NotificationRepository
	mailer           mail.Mailer
	adminEmail       string
	log              zerolog.Logger
}

func New(notificationRepo repo.NotificationRepository, mailer mail.Mailer, adminEmail string, log zerolog.Logger) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		mailer:           mailer,
		adminEmail:       adminEmail,
		log:              log,
	}
}

func (n *Notifier) OrderCreated(ctx context.Context, order model.Order, items []model.OrderItem) {
	meta, _ := json.Marshal(map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.String(),
		"item_count":   len(items),
	})

	n.store(ctx, model.Notification{
		ID:           uuid.NewString(),
		Type:         model.NotificationTypeOrder,
		Title:        fmt.Sprintf("New order %s", order.OrderNumber),
		Message:      fmt.Sprintf("Order %s placed for %s", order.OrderNumber, order.TotalAmount.String()),
		Priority:     model.NotificationPriorityHigh,
		MetadataJSON: string(meta),
	})

	if n.adminEmail != "" {
		body := orderMailBody(order, items)
		if err := n.mailer.Send(ctx, mail.Message{
			To:      n.adminEmail,
			Subject: fmt.Sprintf("New order %s", order.OrderNumber),
			Body:    body,
		}); err != nil {
			n.log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("order mail failed")
		}
	}
}

func (n *Notifier) EnquiryReceived(ctx context.Context, enquiry model.Enquiry) {
	meta, _ := json.Marshal(map[string]any{
		"enquiry_id": enquiry.ID,
		"email":      enquiry.Email,
	})

	n.store(ctx, model.Notification{
		ID:           uuid.NewString(),
		Type:         model.NotificationTypeEnquiry,
		Title:        fmt.Sprintf("New enquiry from %s", enquiry.Name),
		Message:      enquiry.Subject,
		Priority:     model.NotificationPriorityNormal,
		MetadataJSON: string(meta),
	})

	// 受付確認メールを送信者へ
	if err := n.mailer.Send(ctx, mail.Message{
		To:      enquiry.Email,
		Subject: "We received your enquiry",
		Body: fmt.Sprintf("Hi %s,\n\nThank you for contacting us. We will get back to you shortly.\n\nSubject: %s\n",
			enquiry.Name, enquiry.Subject),
	}); err != nil {
		n.log.Warn().Err(err).Int64("enquiry_id", enquiry.ID).Msg("enquiry acknowledgement mail failed")
	}
}

func (n *Notifier) store(ctx context.Context, notification model.Notification) {
	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		n.log.Warn().Err(err).
			Str("type", string(notification.Type)).
			Str("title", notification.Title).
			Msg("notification create failed")
	}
}

func orderMailBody(order model.Order, items []model.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n\n", order.OrderNumber)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s x%d @ %s\n", it.ProductNameSnapshot, it.Quantity, it.Price.String())
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", order.TotalAmount.String())
	fmt.Fprintf(&b, "Ship to: %s, %s %s\n", order.ShippingAddress.Name, order.ShippingAddress.City, order.ShippingAddress.Line1)
	return b.String()
}
