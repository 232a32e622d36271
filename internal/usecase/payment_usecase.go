package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type PaymentUsecase struct {
	tx  repo.TransactionManager
	log zerolog.Logger
}

func NewPaymentUsecase(tx repo.TransactionManager, log zerolog.Logger) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, log: log}
}

type CreatePaymentInput struct {
	OrderID       int64
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	Gateway       string
	TransactionID *string
}

type PaymentOutput struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Gateway       string          `json:"gateway"`
	Status        string          `json:"status"`
	TransactionID *string         `json:"transaction_id"`
	Metadata      string          `json:"metadata"`
	CreatedAt     time.Time       `json:"created_at"`
}

// 決済行の追加。金額は正であること（返金は ProcessRefund 経由）。
func (u *PaymentUsecase) CreatePayment(ctx context.Context, in CreatePaymentInput) (PaymentOutput, error) {
	if in.OrderID <= 0 {
		return PaymentOutput{}, NewError(KindInvalidInput, "invalid order_id")
	}
	if !in.Amount.IsPositive() {
		return PaymentOutput{}, NewError(KindInvalidAmount, "amount must be positive")
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, in.OrderID); errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		} else if err != nil {
			return internalError()
		}

		p := model.Payment{
			OrderID:       in.OrderID,
			Amount:        in.Amount,
			Currency:      currency,
			PaymentMethod: in.PaymentMethod,
			Gateway:       in.Gateway,
			Status:        model.PaymentStatePending,
			TransactionID: in.TransactionID,
		}

		id, err := r.Payments().Create(ctx, p)
		if err != nil {
			return internalError()
		}

		p.ID = id
		out = toPaymentOutput(p)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

func (u *PaymentUsecase) GetPayment(ctx context.Context, paymentID int64) (PaymentOutput, error) {
	if paymentID <= 0 {
		return PaymentOutput{}, NewError(KindInvalidInput, "invalid id")
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByID(ctx, paymentID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "payment not found")
		}
		if err != nil {
			return internalError()
		}
		out = toPaymentOutput(p)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

func (u *PaymentUsecase) GetByTransactionID(ctx context.Context, transactionID string) (PaymentOutput, error) {
	if transactionID == "" {
		return PaymentOutput{}, NewError(KindInvalidInput, "invalid transaction_id")
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByTransactionID(ctx, transactionID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "payment not found")
		}
		if err != nil {
			return internalError()
		}
		out = toPaymentOutput(p)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

// 注文に紐づく決済行（返金行も含む）
func (u *PaymentUsecase) ListByOrder(ctx context.Context, orderID int64) ([]PaymentOutput, error) {
	if orderID <= 0 {
		return nil, NewError(KindInvalidInput, "invalid order_id")
	}

	var outs []PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ps, err := r.Payments().ListByOrderID(ctx, orderID)
		if err != nil {
			return internalError()
		}
		outs = make([]PaymentOutput, 0, len(ps))
		for _, p := range ps {
			outs = append(outs, toPaymentOutput(p))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *PaymentUsecase) List(ctx context.Context, f repo.PaymentListFilter) ([]PaymentOutput, int64, error) {
	var outs []PaymentOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ps, n, err := r.Payments().List(ctx, f)
		if err != nil {
			return internalError()
		}
		total = n
		outs = make([]PaymentOutput, 0, len(ps))
		for _, p := range ps {
			outs = append(outs, toPaymentOutput(p))
		}
		return nil
	})

	if err != nil {
		return nil, 0, err
	}
	return outs, total, nil
}

// 決済行のステータス更新。
// COMPLETED / FAILED のときだけ注文側の payment_status にも反映する。
func (u *PaymentUsecase) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentState, transactionID *string) (PaymentOutput, error) {
	if paymentID <= 0 {
		return PaymentOutput{}, NewError(KindInvalidInput, "invalid id")
	}
	if !status.Valid() {
		return PaymentOutput{}, NewError(KindInvalidInput, "invalid status")
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByID(ctx, paymentID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "payment not found")
		}
		if err != nil {
			return internalError()
		}

		if err := r.Payments().UpdateStatus(ctx, paymentID, status, transactionID); err != nil {
			return internalError()
		}

		p.Status = status
		if transactionID != nil {
			p.TransactionID = transactionID
		}

		// 注文側への反映は成功・失敗の2状態のみ
		switch status {
		case model.PaymentStateCompleted:
			if err := r.Orders().UpdatePaymentStatus(ctx, p.OrderID, model.PaymentStatusCompleted); err != nil {
				return internalError()
			}
		case model.PaymentStateFailed:
			if err := r.Orders().UpdatePaymentStatus(ctx, p.OrderID, model.PaymentStatusFailed); err != nil {
				return internalError()
			}
		}

		out = toPaymentOutput(p)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

type RefundInput struct {
	PaymentID int64
	// 省略（ゼロ）なら全額返金
	Amount decimal.Decimal
	Reason string
}

// 返金。元の行は金額を変えず、マイナス金額の新しい行を追記する。
// 全額返金なら注文の両ステータスを REFUNDED に強制セットする。
func (u *PaymentUsecase) ProcessRefund(ctx context.Context, in RefundInput) (PaymentOutput, error) {
	if in.PaymentID <= 0 {
		return PaymentOutput{}, NewError(KindInvalidInput, "invalid payment_id")
	}
	if in.Amount.IsNegative() {
		return PaymentOutput{}, NewError(KindInvalidAmount, "refund amount must not be negative")
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		original, err := r.Payments().FindByID(ctx, in.PaymentID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "payment not found")
		}
		if err != nil {
			return internalError()
		}

		// 返金できるのは完了済みの決済だけ
		if original.Status != model.PaymentStateCompleted {
			return NewError(KindInvalidState, "payment %d is not completed", original.ID)
		}

		amount := in.Amount
		if amount.IsZero() {
			amount = original.Amount
		}
		if amount.GreaterThan(original.Amount) {
			return NewError(KindInvalidAmount, "refund amount exceeds original payment")
		}

		meta, err := json.Marshal(map[string]any{
			"original_payment_id": original.ID,
			"reason":              in.Reason,
			"refund_amount":       amount.String(),
		})
		if err != nil {
			return internalError()
		}

		var refundTxnID *string
		if original.TransactionID != nil {
			s := model.RefundTransactionPrefix + *original.TransactionID
			refundTxnID = &s
		}

		refund := model.Payment{
			OrderID:       original.OrderID,
			Amount:        amount.Neg(),
			Currency:      original.Currency,
			PaymentMethod: original.PaymentMethod,
			Gateway:       original.Gateway,
			Status:        model.PaymentStateCompleted,
			TransactionID: refundTxnID,
			MetadataJSON:  string(meta),
		}

		refundID, err := r.Payments().Create(ctx, refund)
		if err != nil {
			return internalError()
		}
		refund.ID = refundID

		if err := r.Payments().UpdateStatus(ctx, original.ID, model.PaymentStateRefunded, nil); err != nil {
			return internalError()
		}

		// 全額返金なら注文も返金済みへ
		if amount.Equal(original.Amount) {
			if err := r.Orders().SetStatuses(ctx, original.OrderID, model.OrderStatusRefunded, model.PaymentStatusRefunded); err != nil {
				return internalError()
			}
		}

		out = toPaymentOutput(refund)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}

	u.log.Info().
		Int64("payment_id", in.PaymentID).
		Int64("refund_id", out.ID).
		Str("amount", out.Amount.String()).
		Msg("refund processed")

	return out, nil
}

type StripePaymentInput struct {
	OrderID       int64
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
}

// Stripe連携のスタブ。実際のAPIは呼ばず、取引IDを生成して即時完了にする。
func (u *PaymentUsecase) ProcessStripePayment(ctx context.Context, in StripePaymentInput) (PaymentOutput, error) {
	txnID := fmt.Sprintf("stripe_%d_%03d", time.Now().UnixMilli(), rand.Intn(1000))

	created, err := u.CreatePayment(ctx, CreatePaymentInput{
		OrderID:       in.OrderID,
		Amount:        in.Amount,
		Currency:      in.Currency,
		PaymentMethod: in.PaymentMethod,
		Gateway:       "stripe",
		TransactionID: &txnID,
	})
	if err != nil {
		return PaymentOutput{}, err
	}

	return u.UpdateStatus(ctx, created.ID, model.PaymentStateCompleted, &txnID)
}

// Stripe webhook。今は受信を記録してACKするだけ。
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, eventType string, payload []byte) error {
	u.log.Info().
		Str("event_type", eventType).
		Int("payload_bytes", len(payload)).
		Msg("stripe webhook received")
	return nil
}

func toPaymentOutput(p model.Payment) PaymentOutput {
	return PaymentOutput{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentMethod: p.PaymentMethod,
		Gateway:       p.Gateway,
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		Metadata:      p.MetadataJSON,
		CreatedAt:     p.CreatedAt,
	}
}
