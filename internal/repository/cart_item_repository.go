package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	// 同一商品は数量加算。加算後の行を返す。
	UpsertAdd(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error)
	SetQuantity(ctx context.Context, userID int64, productID int64, qty int64) error

	// 行が無くてもエラーにしない。消した行があれば true。
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error)
	DeleteAllByUserID(ctx context.Context, userID int64) error

	CountByUserID(ctx context.Context, userID int64) (int64, error)
	ExistsByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error)
}
