package model

import "time"

// カートの明細。(user_id, product_id) で一意。
// 同一商品の再追加は行を増やさず数量を加算する。
// 価格は持たない（合計は取得時点の商品価格から毎回計算する）。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_cart_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:uq_cart_user_product" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
