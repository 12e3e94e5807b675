package repository

import (
	"context"

	"bookmarket/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// ユーザー自身の注文履歴（キャンセル済みは出さない、新しい順）
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)

	// 管理画面用の全件（新しい順）
	ListAll(ctx context.Context) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// 配送先フィールドの更新
	UpdateShipping(ctx context.Context, order model.Order) error

	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error

	// 注文と明細をまとめて削除
	Delete(ctx context.Context, orderID int64) error
}
