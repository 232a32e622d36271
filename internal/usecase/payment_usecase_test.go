package usecase_test

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPaymentUC(tx *TxManagerMock) *usecase.PaymentUsecase {
	return usecase.NewPaymentUsecase(tx, zerolog.Nop())
}

// =====================
// CreatePayment
// =====================

func TestPaymentUsecase_CreatePayment_NegativeAmount(t *testing.T) {
	uc := newPaymentUC(newTxManagerMock())

	_, err := uc.CreatePayment(context.Background(), usecase.CreatePaymentInput{
		OrderID: 1,
		Amount:  decimal.RequireFromString("-5.00"),
	})
	assertErrContains(t, err, "positive")
}

func TestPaymentUsecase_CreatePayment_OrderNotFound(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.OrdersM.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.CreatePayment(context.Background(), usecase.CreatePaymentInput{
		OrderID: 99,
		Amount:  decimal.RequireFromString("5.00"),
	})
	assertErrContains(t, err, "not found")
}

func TestPaymentUsecase_CreatePayment_DefaultsCurrencyAndPending(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.OrdersM.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1}, nil)
	tx.Repos.PaymentsM.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.Currency == "USD" && p.Status == model.PaymentStatePending
	})).Return(int64(11), nil)

	out, err := uc.CreatePayment(context.Background(), usecase.CreatePaymentInput{
		OrderID: 1,
		Amount:  decimal.RequireFromString("20.00"),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(11), out.ID)
	assert.Equal(t, "PENDING", out.Status)

	tx.Repos.PaymentsM.AssertExpectations(t)
}

// =====================
// UpdateStatus（注文への反映）
// =====================

func TestPaymentUsecase_UpdateStatus_CompletedProjectsToOrder(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(1)).
		Return(model.Payment{ID: 1, OrderID: 5, Status: model.PaymentStatePending}, nil)
	tx.Repos.PaymentsM.On("UpdateStatus", mock.Anything, int64(1), model.PaymentStateCompleted, (*string)(nil)).Return(nil)
	tx.Repos.OrdersM.On("UpdatePaymentStatus", mock.Anything, int64(5), model.PaymentStatusCompleted).Return(nil)

	out, err := uc.UpdateStatus(context.Background(), 1, model.PaymentStateCompleted, nil)
	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", out.Status)

	tx.Repos.OrdersM.AssertExpectations(t)
}

func TestPaymentUsecase_UpdateStatus_FailedProjectsToOrder(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(1)).
		Return(model.Payment{ID: 1, OrderID: 5, Status: model.PaymentStatePending}, nil)
	tx.Repos.PaymentsM.On("UpdateStatus", mock.Anything, int64(1), model.PaymentStateFailed, (*string)(nil)).Return(nil)
	tx.Repos.OrdersM.On("UpdatePaymentStatus", mock.Anything, int64(5), model.PaymentStatusFailed).Return(nil)

	_, err := uc.UpdateStatus(context.Background(), 1, model.PaymentStateFailed, nil)
	assert.NoError(t, err)

	tx.Repos.OrdersM.AssertExpectations(t)
}

// REFUNDEDへの更新は注文側を触らない
func TestPaymentUsecase_UpdateStatus_RefundedDoesNotTouchOrder(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(1)).
		Return(model.Payment{ID: 1, OrderID: 5, Status: model.PaymentStateCompleted}, nil)
	tx.Repos.PaymentsM.On("UpdateStatus", mock.Anything, int64(1), model.PaymentStateRefunded, (*string)(nil)).Return(nil)

	_, err := uc.UpdateStatus(context.Background(), 1, model.PaymentStateRefunded, nil)
	assert.NoError(t, err)

	tx.Repos.OrdersM.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// ProcessRefund
// =====================

func completedPayment() model.Payment {
	txn := "txn_abc"
	return model.Payment{
		ID:            1,
		OrderID:       5,
		Amount:        decimal.RequireFromString("30.00"),
		Currency:      "USD",
		Status:        model.PaymentStateCompleted,
		TransactionID: &txn,
	}
}

// 全額返金：マイナス行の追記＋元行REFUNDED＋注文の両軸REFUNDED
func TestPaymentUsecase_ProcessRefund_Full(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(1)).Return(completedPayment(), nil)

	tx.Repos.PaymentsM.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 5 &&
			p.Amount.Equal(decimal.RequireFromString("-30.00")) &&
			p.Status == model.PaymentStateCompleted &&
			p.TransactionID != nil && *p.TransactionID == "REFUND-txn_abc" &&
			strings.Contains(p.MetadataJSON, `"original_payment_id":1`)
	})).Return(int64(2), nil)

	tx.Repos.PaymentsM.On("UpdateStatus", mock.Anything, int64(1), model.PaymentStateRefunded, (*string)(nil)).Return(nil)
	tx.Repos.OrdersM.On("SetStatuses", mock.Anything, int64(5), model.OrderStatusRefunded, model.PaymentStatusRefunded).Return(nil)

	out, err := uc.ProcessRefund(context.Background(), usecase.RefundInput{PaymentID: 1, Reason: "damaged"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.ID)
	assert.True(t, out.Amount.IsNegative())

	tx.Repos.PaymentsM.AssertExpectations(t)
	tx.Repos.OrdersM.AssertExpectations(t)
}

// 一部返金：注文ステータスは触らない
func TestPaymentUsecase_ProcessRefund_Partial(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(1)).Return(completedPayment(), nil)
	tx.Repos.PaymentsM.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.Amount.Equal(decimal.RequireFromString("-10.00"))
	})).Return(int64(2), nil)
	tx.Repos.PaymentsM.On("UpdateStatus", mock.Anything, int64(1), model.PaymentStateRefunded, (*string)(nil)).Return(nil)

	_, err := uc.ProcessRefund(context.Background(), usecase.RefundInput{
		PaymentID: 1,
		Amount:    decimal.RequireFromString("10.00"),
	})
	assert.NoError(t, err)

	tx.Repos.OrdersM.AssertNotCalled(t, "SetStatuses", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_ProcessRefund_ExceedsOriginal(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(1)).Return(completedPayment(), nil)

	_, err := uc.ProcessRefund(context.Background(), usecase.RefundInput{
		PaymentID: 1,
		Amount:    decimal.RequireFromString("31.00"),
	})
	assertErrContains(t, err, "exceeds")

	tx.Repos.PaymentsM.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 完了済み以外は返金できない
func TestPaymentUsecase_ProcessRefund_NotCompleted(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	p := completedPayment()
	p.Status = model.PaymentStatePending
	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(1)).Return(p, nil)

	_, err := uc.ProcessRefund(context.Background(), usecase.RefundInput{PaymentID: 1})
	assertErrContains(t, err, "not completed")
}

// =====================
// Stripeスタブ
// =====================

func TestPaymentUsecase_ProcessStripePayment_CompletesImmediately(t *testing.T) {
	tx := newTxManagerMock()
	uc := newPaymentUC(tx)

	tx.Repos.OrdersM.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5}, nil)

	tx.Repos.PaymentsM.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.Gateway == "stripe" &&
			p.TransactionID != nil && strings.HasPrefix(*p.TransactionID, "stripe_")
	})).Return(int64(3), nil)

	tx.Repos.PaymentsM.On("FindByID", mock.Anything, int64(3)).
		Return(model.Payment{ID: 3, OrderID: 5, Status: model.PaymentStatePending}, nil)
	tx.Repos.PaymentsM.On("UpdateStatus", mock.Anything, int64(3), model.PaymentStateCompleted, mock.Anything).Return(nil)
	tx.Repos.OrdersM.On("UpdatePaymentStatus", mock.Anything, int64(5), model.PaymentStatusCompleted).Return(nil)

	out, err := uc.ProcessStripePayment(context.Background(), usecase.StripePaymentInput{
		OrderID: 5,
		Amount:  decimal.RequireFromString("15.00"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", out.Status)
	assert.NotNil(t, out.TransactionID)
	assert.True(t, strings.HasPrefix(*out.TransactionID, "stripe_"))

	tx.Repos.OrdersM.AssertExpectations(t)
}

func TestPaymentUsecase_HandleWebhook_Acks(t *testing.T) {
	uc := newPaymentUC(newTxManagerMock())

	err := uc.HandleWebhook(context.Background(), "payment_intent.succeeded", []byte(`{}`))
	assert.NoError(t, err)
}
