package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 終端ステータスかどうか。終端になった注文は編集・キャンセル不可。
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Total は常に明細の price_at_time * quantity の合計。
// 明細を触った後は必ず再計算して上書きする。
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;index" json:"user_id"`
	Total     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Status    OrderStatus     `gorm:"type:varchar(20);not null;index;default:'new'" json:"status"`
	FullName  string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone     string          `gorm:"type:varchar(20);not null" json:"phone"`
	Email     string          `gorm:"type:varchar(100)" json:"email"`
	Address   string          `gorm:"type:text;not null" json:"address"`
	Comment   string          `gorm:"type:text" json:"comment"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
