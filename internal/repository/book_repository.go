package repository

import (
	"context"

	"bookmarket/internal/domain/model"

	"github.com/shopspring/decimal"
)

// カタログの絞り込み条件。nil/空は「その条件なし」。
type BookListQuery struct {
	Q          string
	CategoryID *int64
	Author     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

type BookRepository interface {
	// 購入可能な本だけを新着順で返す
	ListAvailable(ctx context.Context, q BookListQuery) ([]model.Book, error)

	// 出品者の本（販売済み含む）
	ListByOwnerID(ctx context.Context, ownerID int64) ([]model.Book, error)

	// 管理画面用の全件（新着順）
	ListAll(ctx context.Context) ([]model.Book, error)

	FindByID(ctx context.Context, bookID int64) (model.Book, error)

	// カート内のIDをまとめて引く（存在しないIDは黙って落ちる）
	FindByIDs(ctx context.Context, bookIDs []int64) ([]model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error

	// 在庫フラグの切り替え（購入で false、返却で true）
	SetAvailability(ctx context.Context, bookID int64, available bool) error

	Delete(ctx context.Context, bookID int64) error
}
