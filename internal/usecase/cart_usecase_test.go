package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUC(cartRepo *CartItemRepoMock, productRepo *ProductRepoMock) *usecase.CartUsecase {
	return usecase.NewCartUsecase(cartRepo, productRepo)
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_Unauthorized(t *testing.T) {
	uc := newCartUC(new(CartItemRepoMock), new(ProductRepoMock))

	_, err := uc.AddItem(context.Background(), 0, usecase.AddCartItemInput{ProductID: 1, Quantity: 1})
	assertErrContains(t, err, "unauthorized")
}

func TestCartUsecase_AddItem_InvalidQuantity(t *testing.T) {
	uc := newCartUC(new(CartItemRepoMock), new(ProductRepoMock))

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartItemInput{ProductID: 1, Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

func TestCartUsecase_AddItem_ProductNotFound(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newCartUC(new(CartItemRepoMock), pRepo)

	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartItemInput{ProductID: 99, Quantity: 1})
	assertErrContains(t, err, "not found")
}

// 同一商品の追加は数量加算になる
func TestCartUsecase_AddItem_MergesQuantity(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartItemRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newCartUC(cRepo, pRepo)

	p := model.Product{ID: 10, Name: "Coffee", Price: decimal.RequireFromString("5.00"), Status: model.ProductStatusAvailable}
	pRepo.On("FindByID", mock.Anything, int64(10)).Return(p, nil)

	// 既存2個 + 3個 = 5個
	cRepo.On("UpsertAdd", mock.Anything, int64(1), int64(10), int64(3)).
		Return(model.CartItem{ID: 7, UserID: 1, ProductID: 10, Quantity: 5}, nil)

	out, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{ProductID: 10, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.Quantity)
	assert.True(t, out.LineTotal.Equal(decimal.RequireFromString("25.00")))

	cRepo.AssertExpectations(t)
	pRepo.AssertExpectations(t)
}

// 販売停止の商品でもカートには入る（検証は注文確定時）
func TestCartUsecase_AddItem_AllowsUnavailableProduct(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartItemRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newCartUC(cRepo, pRepo)

	p := model.Product{ID: 10, Name: "Old", Price: decimal.RequireFromString("9.99"), Status: model.ProductStatusNotAvailable}
	pRepo.On("FindByID", mock.Anything, int64(10)).Return(p, nil)
	cRepo.On("UpsertAdd", mock.Anything, int64(1), int64(10), int64(1)).
		Return(model.CartItem{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}, nil)

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{ProductID: 10, Quantity: 1})
	assert.NoError(t, err)
}

// =====================
// GetCart
// =====================

// 合計は取得時点の商品価格から計算される（12.25×2 + 12.00 = 36.50）
func TestCartUsecase_GetCart_TotalFromCurrentPrices(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartItemRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newCartUC(cRepo, pRepo)

	cRepo.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
		{ID: 2, UserID: 1, ProductID: 20, Quantity: 1},
	}, nil)

	pRepo.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Price: decimal.RequireFromString("12.25"), Status: model.ProductStatusAvailable}, nil)
	pRepo.On("FindByID", mock.Anything, int64(20)).
		Return(model.Product{ID: 20, Price: decimal.RequireFromString("12.00"), Status: model.ProductStatusAvailable}, nil)

	out, err := uc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, out.ItemCount)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("36.50")), "total = %s", out.Total)
}

// 商品が消えた行はスキップして合計に入れない
func TestCartUsecase_GetCart_SkipsDanglingLines(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartItemRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newCartUC(cRepo, pRepo)

	cRepo.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 1},
		{ID: 2, UserID: 1, ProductID: 20, Quantity: 1},
	}, nil)

	pRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{}, repo.ErrNotFound)
	pRepo.On("FindByID", mock.Anything, int64(20)).
		Return(model.Product{ID: 20, Price: decimal.RequireFromString("3.00"), Status: model.ProductStatusAvailable}, nil)

	out, err := uc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, out.ItemCount)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("3.00")))
}

// =====================
// UpdateQuantity / RemoveItem
// =====================

// 数量0以下は削除扱い
func TestCartUsecase_UpdateQuantity_ZeroRemoves(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartItemRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newCartUC(cRepo, pRepo)

	cRepo.On("DeleteByUserAndProduct", mock.Anything, int64(1), int64(10)).Return(true, nil)
	cRepo.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)

	out, err := uc.UpdateQuantity(ctx, 1, 10, usecase.UpdateCartItemInput{Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, 0, out.ItemCount)

	cRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateQuantity_NotFound(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartItemRepoMock)
	uc := newCartUC(cRepo, new(ProductRepoMock))

	cRepo.On("SetQuantity", mock.Anything, int64(1), int64(10), int64(3)).Return(repo.ErrNotFound)

	_, err := uc.UpdateQuantity(ctx, 1, 10, usecase.UpdateCartItemInput{Quantity: 3})
	assertErrContains(t, err, "not found")
}

// 行が無くても削除は成功する（冪等）
func TestCartUsecase_RemoveItem_Idempotent(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartItemRepoMock)
	uc := newCartUC(cRepo, new(ProductRepoMock))

	cRepo.On("DeleteByUserAndProduct", mock.Anything, int64(1), int64(10)).Return(false, nil)
	cRepo.On("ListByUserID", mock.Anything, int64(1)).Return([]model.CartItem{}, nil)

	_, err := uc.RemoveItem(ctx, 1, 10)
	assert.NoError(t, err)
}

func TestCartUsecase_ClearCart_DBError(t *testing.T) {
	cRepo := new(CartItemRepoMock)
	uc := newCartUC(cRepo, new(ProductRepoMock))

	cRepo.On("DeleteAllByUserID", mock.Anything, int64(1)).Return(errors.New("db down"))

	err := uc.ClearCart(context.Background(), 1)
	assertErrContains(t, err, "db error")
}

func TestCartUsecase_GetItemCount(t *testing.T) {
	cRepo := new(CartItemRepoMock)
	uc := newCartUC(cRepo, new(ProductRepoMock))

	cRepo.On("CountByUserID", mock.Anything, int64(1)).Return(int64(3), nil)

	n, err := uc.GetItemCount(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
