package repository

import (
	"context"

	"bookmarket/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error

	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	// 注文IDでスコープして1件取得（他の注文の明細は見えない）
	FindByID(ctx context.Context, orderID int64, itemID int64) (model.OrderItem, error)

	DeleteByID(ctx context.Context, itemID int64) error

	CountByOrderID(ctx context.Context, orderID int64) (int64, error)

	// COALESCE(SUM(price_at_time * quantity), 0)
	SumTotal(ctx context.Context, orderID int64) (decimal.Decimal, error)

	// キャンセル済み以外の注文からまだ参照されている数
	CountActiveByBookID(ctx context.Context, bookID int64) (int64, error)
}
