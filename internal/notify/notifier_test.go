package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/mail"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type notificationRepoMock struct{ mock.Mock }

func (m *notificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *notificationRepoMock) FindByID(ctx context.Context, id string) (model.Notification, error) {
	panic("not used")
}

func (m *notificationRepoMock) List(ctx context.Context, f repo.NotificationListFilter) ([]model.Notification, int64, error) {
	panic("not used")
}

func (m *notificationRepoMock) MarkRead(ctx context.Context, id string, at time.Time) error {
	panic("not used")
}

func (m *notificationRepoMock) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	panic("not used")
}

func (m *notificationRepoMock) CountUnread(ctx context.Context) (int64, error) { panic("not used") }
func (m *notificationRepoMock) Delete(ctx context.Context, id string) error    { panic("not used") }

type mailerMock struct{ mock.Mock }

func (m *mailerMock) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func testOrder() model.Order {
	return model.Order{
		ID:          1,
		OrderNumber: "ORD-1700000000000-123",
		TotalAmount: decimal.RequireFromString("36.50"),
	}
}

// 注文通知がORDERタイプ・HIGH優先度で積まれ、管理者宛てメールが飛ぶ
func TestNotifier_OrderCreated(t *testing.T) {
	nRepo := new(notificationRepoMock)
	mailer := new(mailerMock)
	n := New(nRepo, mailer, "admin@example.com", zerolog.Nop())

	nRepo.On("Create", mock.Anything, mock.MatchedBy(func(nn model.Notification) bool {
		return nn.Type == model.NotificationTypeOrder &&
			nn.Priority == model.NotificationPriorityHigh &&
			nn.ID != ""
	})).Return(nil)

	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "admin@example.com"
	})).Return(nil)

	n.OrderCreated(context.Background(), testOrder(), []model.OrderItem{
		{ProductNameSnapshot: "Coffee", Price: decimal.RequireFromString("12.25"), Quantity: 2},
	})

	nRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

// 通知・メールの失敗は呼び出し元に伝播しない
func TestNotifier_SwallowsFailures(t *testing.T) {
	nRepo := new(notificationRepoMock)
	mailer := new(mailerMock)
	n := New(nRepo, mailer, "admin@example.com", zerolog.Nop())

	nRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	assert.NotPanics(t, func() {
		n.OrderCreated(context.Background(), testOrder(), nil)
	})
}

// 問い合わせ通知はENQUIRYタイプで、受付メールは送信者宛て
func TestNotifier_EnquiryReceived(t *testing.T) {
	nRepo := new(notificationRepoMock)
	mailer := new(mailerMock)
	n := New(nRepo, mailer, "admin@example.com", zerolog.Nop())

	nRepo.On("Create", mock.Anything, mock.MatchedBy(func(nn model.Notification) bool {
		return nn.Type == model.NotificationTypeEnquiry
	})).Return(nil)

	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "customer@example.com"
	})).Return(nil)

	n.EnquiryReceived(context.Background(), model.Enquiry{
		ID: 1, Name: "山田", Email: "customer@example.com", Subject: "質問",
	})

	nRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}
