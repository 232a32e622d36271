package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) UpdateRating(ctx context.Context, id int64, rating float64, reviews int64) error {
	args := m.Called(ctx, id, rating, reviews)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) UpsertAdd(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID, addQty)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) SetQuantity(ctx context.Context, userID int64, productID int64, qty int64) error {
	args := m.Called(ctx, userID, productID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *CartItemRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *CartItemRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartItemRepoMock) ExistsByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) SetStatuses(ctx context.Context, orderID int64, status model.OrderStatus, paymentStatus model.PaymentStatus) error {
	args := m.Called(ctx, orderID, status, paymentStatus)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) FindByID(ctx context.Context, paymentID int64) (model.Payment, error) {
	args := m.Called(ctx, paymentID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) FindByTransactionID(ctx context.Context, transactionID string) (model.Payment, error) {
	args := m.Called(ctx, transactionID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.Payment)
	return items, args.Error(1)
}

func (m *PaymentRepoMock) List(ctx context.Context, f repo.PaymentListFilter) ([]model.Payment, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Payment)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *PaymentRepoMock) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentState, transactionID *string) error {
	args := m.Called(ctx, paymentID, status, transactionID)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) OrderCreated(ctx context.Context, order model.Order, items []model.OrderItem) {
	m.Called(ctx, order, items)
}

func (m *NotifierMock) EnquiryReceived(ctx context.Context, enquiry model.Enquiry) {
	m.Called(ctx, enquiry)
}

type EnquiryRepoMock struct{ mock.Mock }

func (m *EnquiryRepoMock) Create(ctx context.Context, e model.Enquiry) (model.Enquiry, error) {
	args := m.Called(ctx, e)
	created, _ := args.Get(0).(model.Enquiry)
	return created, args.Error(1)
}

func (m *EnquiryRepoMock) FindByID(ctx context.Context, enquiryID int64) (model.Enquiry, error) {
	args := m.Called(ctx, enquiryID)
	e, _ := args.Get(0).(model.Enquiry)
	return e, args.Error(1)
}

func (m *EnquiryRepoMock) List(ctx context.Context, f repo.EnquiryListFilter) ([]model.Enquiry, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Enquiry)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *EnquiryRepoMock) UpdateStatus(ctx context.Context, enquiryID int64, status model.EnquiryStatus) error {
	args := m.Called(ctx, enquiryID, status)
	return args.Error(0)
}

type SettingRepoMock struct{ mock.Mock }

func (m *SettingRepoMock) Get(ctx context.Context, key string) (model.Setting, error) {
	args := m.Called(ctx, key)
	s, _ := args.Get(0).(model.Setting)
	return s, args.Error(1)
}

func (m *SettingRepoMock) Set(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *SettingRepoMock) List(ctx context.Context) ([]model.Setting, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Setting)
	return items, args.Error(1)
}

func (m *SettingRepoMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepoMock) FindByID(ctx context.Context, id string) (model.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(model.Notification)
	return n, args.Error(1)
}

func (m *NotificationRepoMock) List(ctx context.Context, f repo.NotificationListFilter) ([]model.Notification, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Notification)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *NotificationRepoMock) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepoMock) CountUnread(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Txのモック
// =====================

// WithinTx はロールバックを模倣せず、fnをそのまま実行するだけ。
type TxManagerMock struct {
	Repos TxReposMock
}

type TxReposMock struct {
	OrdersM     *OrderRepoMock
	OrderItemsM *OrderItemRepoMock
	CartItemsM  *CartItemRepoMock
	ProductsM   *ProductRepoMock
	PaymentsM   *PaymentRepoMock
}

func newTxManagerMock() *TxManagerMock {
	return &TxManagerMock{
		Repos: TxReposMock{
			OrdersM:     new(OrderRepoMock),
			OrderItemsM: new(OrderItemRepoMock),
			CartItemsM:  new(CartItemRepoMock),
			ProductsM:   new(ProductRepoMock),
			PaymentsM:   new(PaymentRepoMock),
		},
	}
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(&m.Repos)
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.OrdersM }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.OrderItemsM }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.CartItemsM }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.ProductsM }
func (r *TxReposMock) Payments() repo.PaymentRepository     { return r.PaymentsM }

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.Contains(t, err.Error(), substr)
	}
}
