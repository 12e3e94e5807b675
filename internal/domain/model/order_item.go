package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。
// PriceAtTime は購入時点の価格スナップショット。以後 Book.Price が
// 変わっても絶対に読み直さない。
type OrderItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;index" json:"order_id"`
	BookID      int64           `gorm:"not null;index" json:"book_id"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(10,2);not null" json:"price_at_time"`
	Quantity    int64           `gorm:"not null;default:1" json:"quantity"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
