package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// 明細は (userID, productID) で持ち、価格はカートに保存しない。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// カート明細＋商品サマリ。
// price は「今の」商品価格（スナップショットではない）。
type CartLineResponse struct {
	ID        int64               `json:"id"`
	ProductID int64               `json:"product_id"`
	Name      string              `json:"name"`
	Image     string              `json:"image"`
	Status    model.ProductStatus `json:"status"`
	Price     decimal.Decimal     `json:"price"`
	Quantity  int64               `json:"quantity"`
	LineTotal decimal.Decimal     `json:"line_total"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	// 取得時点の商品価格から毎回計算する（キャッシュしない）
	Total decimal.Decimal `json:"total"`
	// 明細行数（数量の合計ではない）
	ItemCount int `json:"item_count"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

// カートに追加（同一商品は数量加算）。
// 在庫・販売状態はここでは見ない。確定時に再チェックする。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartLineResponse, error) {
	if userID <= 0 {
		return CartLineResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartLineResponse{}, NewError(KindInvalidInput, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartLineResponse{}, NewError(KindInvalidInput, "invalid quantity")
	}

	// 商品の存在チェック
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartLineResponse{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return CartLineResponse{}, internalError()
	}

	item, err := u.cartItemRepo.UpsertAdd(ctx, userID, in.ProductID, in.Quantity)
	if err != nil {
		return CartLineResponse{}, internalError()
	}

	return toCartLine(item, p), nil
}

// カート取得。合計と行数を毎回計算して返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewError(KindUnauthorized, "unauthorized")
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, internalError()
	}

	respItems := make([]CartLineResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			// 商品が消えた行は表示しない
			continue
		}
		if err != nil {
			return CartResponse{}, internalError()
		}

		line := toCartLine(it, p)
		respItems = append(respItems, line)
		total = total.Add(line.LineTotal)
	}

	return CartResponse{
		Items:     respItems,
		Total:     total,
		ItemCount: len(respItems),
	}, nil
}

type UpdateCartItemInput struct {
	Quantity int64
}

// 数量変更。0以下は削除として扱う（エラーにしない）。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID int64, productID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewError(KindInvalidInput, "invalid product_id")
	}

	if in.Quantity <= 0 {
		return u.RemoveItem(ctx, userID, productID)
	}

	err := u.cartItemRepo.SetQuantity(ctx, userID, productID, in.Quantity)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewError(KindNotFound, "cart item not found")
	}
	if err != nil {
		return CartResponse{}, internalError()
	}

	return u.GetCart(ctx, userID)
}

// 明細削除。行が無くても成功で返す（冪等）。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewError(KindUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewError(KindInvalidInput, "invalid product_id")
	}

	if _, err := u.cartItemRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		return CartResponse{}, internalError()
	}

	return u.GetCart(ctx, userID)
}

// 全明細削除
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewError(KindUnauthorized, "unauthorized")
	}

	if err := u.cartItemRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return internalError()
	}
	return nil
}

func (u *CartUsecase) IsInCart(ctx context.Context, userID int64, productID int64) (bool, error) {
	if userID <= 0 {
		return false, NewError(KindUnauthorized, "unauthorized")
	}

	ok, err := u.cartItemRepo.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return false, internalError()
	}
	return ok, nil
}

func (u *CartUsecase) GetItemCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewError(KindUnauthorized, "unauthorized")
	}

	count, err := u.cartItemRepo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, internalError()
	}
	return count, nil
}

func toCartLine(it model.CartItem, p model.Product) CartLineResponse {
	return CartLineResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Name:      p.Name,
		Image:     p.Image,
		Status:    p.Status,
		Price:     p.Price,
		Quantity:  it.Quantity,
		LineTotal: p.Price.Mul(decimal.NewFromInt(it.Quantity)),
	}
}
