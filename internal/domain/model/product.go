package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "AVAILABLE"
	ProductStatusNotAvailable ProductStatus = "NOT_AVAILABLE"
)

// 商品。価格は decimal(12,2) の固定小数として扱う（floatは使わない）。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Image       string          `gorm:"type:varchar(500)" json:"image"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Rating      float64         `gorm:"not null;default:0" json:"rating"`
	Reviews     int64           `gorm:"not null;default:0" json:"reviews"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;index;default:'AVAILABLE'" json:"status"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 購入できる状態か
func (p Product) Purchasable() bool {
	return p.Status == ProductStatusAvailable
}
