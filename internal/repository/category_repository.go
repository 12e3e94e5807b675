package repository

import (
	"context"

	"bookmarket/internal/domain/model"
)

type CategoryRepository interface {
	// 名前昇順の一覧
	ListOrdered(ctx context.Context) ([]model.Category, error)

	FindByID(ctx context.Context, categoryID int64) (model.Category, error)

	// 大文字小文字を無視した名前一致
	FindByNameFold(ctx context.Context, name string) (model.Category, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)

	Count(ctx context.Context) (int64, error)
}
