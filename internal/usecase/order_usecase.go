package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	orderNumberPrefix = "ORD"
	// 注文番号はタイムスタンプ＋乱数3桁なので衝突しうる。
	// uniqueインデックスに当たったら振り直す。
	orderNumberRetries = 3
)

// "ORD-<epochミリ秒>-<3桁乱数>"
func NewOrderNumber() string {
	return fmt.Sprintf("%s-%d-%03d", orderNumberPrefix, time.Now().UnixMilli(), rand.Intn(1000))
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	notifier Notifier
	log      zerolog.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, notifier Notifier, log zerolog.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, notifier: notifier, log: log}
}

type CreateOrderInput struct {
	ShippingAddress model.Address
	// 省略時は ShippingAddress を使う
	BillingAddress *model.Address
	PaymentMethod  string
	Notes          string
}

type OrderItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"order_number"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress model.Address     `json:"shipping_address"`
	BillingAddress  model.Address     `json:"billing_address"`
	PaymentMethod   string            `json:"payment_method"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// カートから注文を確定する。
// Order + OrderItems は1トランザクションで入れる。
// カートクリアはコミット後のベストエフォート（失敗してもログだけ残して注文は有効のまま）。
func (u *OrderUsecase) CreateOrderFromCart(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewError(KindUnauthorized, "unauthorized")
	}
	if in.ShippingAddress.Empty() {
		return OrderOutput{}, NewError(KindInvalidInput, "shipping address is required")
	}

	billing := in.ShippingAddress
	if in.BillingAddress != nil && !in.BillingAddress.Empty() {
		billing = *in.BillingAddress
	}

	var created model.Order
	var createdItems []model.OrderItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return internalError()
		}
		if len(lines) == 0 {
			return NewError(KindEmptyCart, "cart is empty")
		}

		// 追加時点ではなく確定時点で商品を再検証する。
		// 1行でも無効なら全体を中止（部分確定はしない）。
		total := decimal.Zero
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(lines))

		for _, line := range lines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewError(KindNotFound, "product %d not found", line.ProductID)
			}
			if err != nil {
				return internalError()
			}
			if !p.Purchasable() {
				return NewError(KindUnavailable, "product %q is not available", p.Name)
			}

			// スナップショット（以後の価格変更の影響を受けない）
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				Price:               p.Price,
				Quantity:            line.Quantity,
				CreatedAt:           now,
			})

			total = total.Add(p.Price.Mul(decimal.NewFromInt(line.Quantity)))
		}

		order := model.Order{
			UserID:          userID,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			ShippingAddress: in.ShippingAddress,
			BillingAddress:  billing,
			PaymentMethod:   in.PaymentMethod,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		// 番号衝突なら振り直して再試行
		var orderID int64
		for attempt := 0; ; attempt++ {
			order.OrderNumber = NewOrderNumber()
			orderID, err = r.Orders().Create(ctx, order)
			if err == nil {
				break
			}
			if attempt+1 >= orderNumberRetries {
				return NewError(KindTransactionFailure, "order create failed")
			}
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewError(KindTransactionFailure, "order items create failed")
		}

		order.ID = orderID
		for i := range orderItems {
			orderItems[i].OrderID = orderID
		}

		created = order
		createdItems = orderItems
		return nil
	})

	if err != nil {
		if _, ok := AsAppError(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, NewError(KindTransactionFailure, "checkout failed")
	}

	// カートクリアはトランザクションの外。失敗しても注文は成立している。
	clearErr := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.CartItems().DeleteAllByUserID(ctx, userID)
	})
	if clearErr != nil {
		u.log.Warn().Err(clearErr).
			Int64("user_id", userID).
			Int64("order_id", created.ID).
			Msg("cart clear after checkout failed")
	}

	// 通知はベストエフォート
	u.notifier.OrderCreated(ctx, created, createdItems)

	return toOrderOutput(created, createdItems), nil
}

func (u *OrderUsecase) GetOrderByID(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewError(KindInvalidInput, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError()
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return internalError()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetOrderByNumber(ctx context.Context, orderNumber string) (OrderOutput, error) {
	if orderNumber == "" {
		return OrderOutput{}, NewError(KindInvalidInput, "invalid order number")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByOrderNumber(ctx, orderNumber)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError()
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return internalError()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type ListOrdersInput struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
}

// 自分の注文一覧
func (u *OrderUsecase) ListUserOrders(ctx context.Context, userID int64, in ListOrdersInput) ([]OrderOutput, int64, error) {
	if userID <= 0 {
		return []OrderOutput{}, 0, NewError(KindUnauthorized, "unauthorized")
	}

	f := repo.OrderListFilter{
		Page:          in.Page,
		Limit:         in.Limit,
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		UserID:        &userID,
	}

	return u.listOrders(ctx, f)
}

// 管理者用の全注文一覧
func (u *OrderUsecase) ListAllOrders(ctx context.Context, f repo.OrderListFilter) ([]OrderOutput, int64, error) {
	return u.listOrders(ctx, f)
}

func (u *OrderUsecase) listOrders(ctx context.Context, f repo.OrderListFilter) ([]OrderOutput, int64, error) {
	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().List(ctx, f)
		if err != nil {
			return internalError()
		}
		total = n

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return internalError()
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, 0, err
	}
	return outs, total, nil
}

// ステータス更新。遷移表に無い移動は InvalidState。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewError(KindInvalidInput, "invalid id")
	}
	if !status.Valid() {
		return OrderOutput{}, NewError(KindInvalidInput, "invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError()
		}

		// 同じ値なら何もしない
		if o.Status != status {
			if !o.Status.CanTransitionTo(status) {
				return NewError(KindInvalidState, "cannot transition order from %s to %s", o.Status, status)
			}
			if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
				return internalError()
			}
			o.Status = status
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return internalError()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 決済ステータスの直接更新（管理操作）。遷移表を通す。
func (u *OrderUsecase) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewError(KindInvalidInput, "invalid id")
	}
	if !status.Valid() {
		return OrderOutput{}, NewError(KindInvalidInput, "invalid payment status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError()
		}

		if o.PaymentStatus != status {
			if !o.PaymentStatus.CanTransitionTo(status) {
				return NewError(KindInvalidState, "cannot transition payment from %s to %s", o.PaymentStatus, status)
			}
			if err := r.Orders().UpdatePaymentStatus(ctx, orderID, status); err != nil {
				return internalError()
			}
			o.PaymentStatus = status
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return internalError()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// キャンセルは現在の状態に関係なく両軸を CANCELLED に強制セットする。
func (u *OrderUsecase) CancelOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewError(KindInvalidInput, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError()
		}

		if err := r.Orders().SetStatuses(ctx, orderID, model.OrderStatusCancelled, model.PaymentStatusCancelled); err != nil {
			return internalError()
		}
		o.Status = model.OrderStatusCancelled
		o.PaymentStatus = model.PaymentStatusCancelled

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return internalError()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
