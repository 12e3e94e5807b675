package repository

import (
	"context"

	repo "bookmarket/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	books      repo.BookRepository
	categories repo.CategoryRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	users      repo.UserRepository
}

func (r *txReposGorm) Books() repo.BookRepository           { return r.books }
func (r *txReposGorm) Categories() repo.CategoryRepository  { return r.categories }
func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) Users() repo.UserRepository           { return r.users }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			books:      NewBookGormRepository(tx),
			categories: NewCategoryGormRepository(tx),
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			users:      NewUserGormRepository(tx),
		}
		return fn(r)
	})
}
